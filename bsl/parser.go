package bsl

import (
	"errors"

	"fortio.org/safecast"

	"github.com/gogpu/beans/ir"
	"github.com/gogpu/beans/spirv"
)

// Parser reads Beans source and type-checks it while generating code.
//
// There is no syntax tree: each declaration is checked and lowered into
// the module as soon as it has been read, so ids are allocated in source
// order. Parsing stops at the first error.
type Parser struct {
	lex    *Lexer
	source string
	module *ir.Module
	gen    *spirv.Generator
	scopes *scopeStack

	// last is the position of the most recently consumed token.
	last Position
	err  error

	// Attributes wait here until the declaration they apply to.
	stage   *pendingStage
	builtin *pendingBuiltin

	recordMembers  int
	vectorElements int
}

type pendingStage struct {
	stage ir.ShaderStage
	pos   Position
}

type pendingBuiltin struct {
	builtin ir.Builtin
	pos     Position
}

// Parse compiles source into a module ready for packing.
func Parse(source string, limits ir.Limits) (*ir.Module, error) {
	p, err := NewParser(source, limits)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// NewParser creates a parser over source with the given limits.
func NewParser(source string, limits ir.Limits) (*Parser, error) {
	module, err := ir.NewModule(limits)
	if err != nil {
		return nil, err
	}
	return &Parser{
		lex:    NewLexer(source),
		source: source,
		module: module,
		gen:    spirv.NewGenerator(module),
		scopes: newScopeStack(module.Limits),
	}, nil
}

// Parse reads every top-level declaration and returns the module.
func (p *Parser) Parse() (*ir.Module, error) {
	for {
		tok := p.peek()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Kind == TokenError {
			return nil, p.fail(p.lex.Err())
		}
		if err := p.toplevel(); err != nil {
			return nil, err
		}
	}
	if p.stage != nil {
		return nil, p.errorf(p.stage.pos, "entry_point attribute is not followed by a procedure")
	}
	if p.builtin != nil {
		return nil, p.errorf(p.builtin.pos, "builtin attribute is not followed by a variable")
	}
	return p.module, nil
}

func (p *Parser) next() Token {
	tok := p.lex.Next()
	p.last = tok.Pos
	return tok
}

func (p *Parser) peek() Token {
	return p.lex.Peek()
}

// fail records err as the compile error unless one is already recorded.
// A lexical error always takes precedence, since the token stream it
// interrupted is what produced the parser's complaint.
func (p *Parser) fail(err *SourceError) error {
	if p.err != nil {
		return p.err
	}
	if lexErr := p.lex.Err(); lexErr != nil {
		p.err = lexErr
	} else {
		p.err = err
	}
	return p.err
}

func (p *Parser) errorf(pos Position, format string, args ...any) error {
	return p.fail(NewSourceErrorf(pos, p.source, format, args...))
}

// check attaches the current position to an error from the module or
// generator.
func (p *Parser) check(err error) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return p.fail(se)
	}
	return p.fail(&SourceError{
		Message: truncateMessage(err.Error()),
		Pos:     p.last,
		Source:  p.source,
		Err:     err,
	})
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, p.errorf(tok.Pos, "expected '%s', not '%s'", kind, tok.Kind)
	}
	return tok, nil
}

func (p *Parser) typeName(h ir.TypeHandle) string {
	return p.module.Types.Name(h)
}

func (p *Parser) toplevel() error {
	tok := p.next()
	switch tok.Kind {
	case TokenLeftBracket:
		return p.attribute()
	case TokenProcedure:
		return p.procedure()
	case TokenRecord:
		return p.record()
	case TokenIn:
		return p.global(ir.DirectionIn)
	case TokenOut:
		return p.global(ir.DirectionOut)
	case TokenVar:
		return p.global(ir.DirectionPrivate)
	}
	return p.errorf(tok.Pos, "expected toplevel")
}

// attribute parses `[name(argument)]` after the opening bracket.
func (p *Parser) attribute() error {
	name, err := p.expect(TokenSym)
	if err != nil {
		return err
	}
	switch name.Text {
	case "entry_point":
		arg, err := p.attributeArgument()
		if err != nil {
			return err
		}
		var stage ir.ShaderStage
		switch arg.Text {
		case "vertex":
			stage = ir.StageVertex
		case "fragment":
			stage = ir.StageFragment
		default:
			return p.errorf(arg.Pos, "unknown entry point type '%s'", arg.Text)
		}
		if p.stage != nil {
			return p.errorf(name.Pos, "duplicate entry_point attribute")
		}
		p.stage = &pendingStage{stage: stage, pos: name.Pos}

	case "builtin":
		b, err := p.builtinArgument()
		if err != nil {
			return err
		}
		if p.builtin != nil {
			return p.errorf(name.Pos, "duplicate builtin attribute")
		}
		p.builtin = &pendingBuiltin{builtin: b, pos: name.Pos}

	default:
		return p.errorf(name.Pos, "unknown attribute '%s'", name.Text)
	}
	_, err = p.expect(TokenRightBracket)
	return err
}

func (p *Parser) attributeArgument() (Token, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return Token{}, err
	}
	arg, err := p.expect(TokenSym)
	if err != nil {
		return arg, err
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return arg, err
	}
	return arg, nil
}

func (p *Parser) builtinArgument() (ir.Builtin, error) {
	arg, err := p.attributeArgument()
	if err != nil {
		return ir.BuiltinNone, err
	}
	if arg.Text != "position" {
		return ir.BuiltinNone, p.errorf(arg.Pos, "unknown builtin type '%s'", arg.Text)
	}
	return ir.BuiltinPosition, nil
}

// checkPosition verifies that a position builtin has type vec4<f32>.
func (p *Parser) checkPosition(typ ir.TypeHandle, pos Position) error {
	v, ok := p.module.Types.Vector(typ)
	if !ok || v.Size != 4 || v.Component != ir.F32TypeHandle {
		return p.errorf(pos, "expected vec4<f32> for builtin type position")
	}
	return nil
}

// parseType parses a type name and returns the position it started at.
func (p *Parser) parseType() (ir.TypeHandle, Position, error) {
	name, err := p.expect(TokenSym)
	if err != nil {
		return 0, name.Pos, err
	}

	if size := vectorSize(name.Text); size != 0 {
		if _, err := p.expect(TokenLess); err != nil {
			return 0, name.Pos, err
		}
		component, pos, err := p.parseType()
		if err != nil {
			return 0, name.Pos, err
		}
		if _, ok := p.module.Types.Scalar(component); !ok {
			return 0, name.Pos, p.errorf(pos, "vector components must be scalars, not '%s'", p.typeName(component))
		}
		if _, err := p.expect(TokenGreater); err != nil {
			return 0, name.Pos, err
		}
		h, err := p.module.Types.MakeVector(component, size)
		return h, name.Pos, p.check(err)
	}

	h, ok, err := p.module.Types.LookupNamed(name.Text)
	if err != nil {
		return 0, name.Pos, p.check(err)
	}
	if !ok {
		return 0, name.Pos, p.errorf(name.Pos, "expected type, not '%s'", name.Text)
	}
	return h, name.Pos, nil
}

// vectorSize returns the size named by a vector type constructor, or 0.
func vectorSize(name string) uint32 {
	switch name {
	case "vec2":
		return 2
	case "vec3":
		return 3
	case "vec4":
		return 4
	}
	return 0
}

// variableType parses the type of a variable, which may not be void.
func (p *Parser) variableType(name string) (ir.TypeHandle, Position, error) {
	typ, pos, err := p.parseType()
	if err != nil {
		return 0, pos, err
	}
	if typ == ir.VoidTypeHandle {
		return 0, pos, p.errorf(pos, "variable '%s' cannot have type void", name)
	}
	return typ, pos, nil
}

// global parses an in, out or private module-scope variable.
func (p *Parser) global(dir ir.Direction) error {
	if p.stage != nil {
		return p.errorf(p.stage.pos, "entry_point attribute must be followed by a procedure")
	}
	builtin := p.builtin
	p.builtin = nil
	if builtin != nil && dir == ir.DirectionPrivate {
		return p.errorf(builtin.pos, "builtin attribute requires an in or out variable")
	}

	idx, err := p.module.Globals.Append(ir.Global{Direction: dir})
	if err != nil {
		return p.check(err)
	}
	g := p.module.Globals.At(idx)
	g.ID = p.module.IDs.Next()

	name, err := p.expect(TokenSym)
	if err != nil {
		return err
	}
	for _, other := range p.module.Globals.Items()[:idx] {
		if other.Name == name.Text {
			return p.errorf(name.Pos, "'%s' is already declared", name.Text)
		}
	}
	g.Name = name.Text

	if _, err := p.expect(TokenColon); err != nil {
		return err
	}
	typ, typePos, err := p.variableType(name.Text)
	if err != nil {
		return err
	}
	g.Type = typ
	ptr, err := p.module.Types.MakePointer(typ, dir.StorageClass())
	if err != nil {
		return p.check(err)
	}
	g.PtrType = ptr

	g.Local = &ir.Local{Name: g.Name, Type: typ, PtrType: ptr, ID: g.ID, Global: g}
	if err := p.check(p.scopes.add(g.Local)); err != nil {
		return err
	}

	if at := p.peek(); at.Kind == TokenAt {
		p.next()
		if dir == ir.DirectionPrivate {
			return p.errorf(at.Pos, "only in and out variables can have a location")
		}
		n, err := p.expect(TokenInteger)
		if err != nil {
			return err
		}
		loc, convErr := safecast.Conv[uint32](n.Integer)
		if convErr != nil {
			return p.errorf(n.Pos, "location %d is out of range", n.Integer)
		}
		g.Location = &loc
	}

	if builtin != nil {
		if err := p.checkPosition(typ, typePos); err != nil {
			return err
		}
		g.Builtin = builtin.builtin
	}

	if p.peek().Kind == TokenSemicolon {
		p.next()
	}
	return nil
}

// record parses `record Name member... end`.
func (p *Parser) record() error {
	if p.stage != nil {
		return p.errorf(p.stage.pos, "entry_point attribute must be followed by a procedure")
	}
	if p.builtin != nil {
		return p.errorf(p.builtin.pos, "builtin attribute cannot be applied to a record")
	}

	name, err := p.expect(TokenSym)
	if err != nil {
		return err
	}
	if ir.IsReservedName(name.Text) || vectorSize(name.Text) != 0 {
		return p.errorf(name.Pos, "type name '%s' is reserved", name.Text)
	}
	if _, exists, _ := p.module.Types.LookupNamed(name.Text); exists {
		return p.errorf(name.Pos, "type '%s' is already declared", name.Text)
	}

	var members []ir.RecordMember
	for p.peek().Kind != TokenEnd {
		m, err := p.recordMember(name.Text, members)
		if err != nil {
			return err
		}
		members = append(members, m)
	}
	p.next()

	_, err = p.module.Types.AddRecord(name.Text, members)
	return p.check(err)
}

func (p *Parser) recordMember(record string, prior []ir.RecordMember) (ir.RecordMember, error) {
	var m ir.RecordMember

	tok := p.next()
	if tok.Kind == TokenLeftBracket {
		attr, err := p.expect(TokenSym)
		if err != nil {
			return m, err
		}
		if attr.Text != "builtin" {
			return m, p.errorf(attr.Pos, "expected [builtin(x)] attribute before record members")
		}
		b, err := p.builtinArgument()
		if err != nil {
			return m, err
		}
		if _, err := p.expect(TokenRightBracket); err != nil {
			return m, err
		}
		m.Builtin = b
		tok = p.next()
	}

	if tok.Kind != TokenSym {
		return m, p.errorf(tok.Pos, "expected '%s', not '%s'", TokenSym, tok.Kind)
	}
	for _, other := range prior {
		if other.Name == tok.Text {
			return m, p.errorf(tok.Pos, "duplicate member '%s' in record '%s'", tok.Text, record)
		}
	}
	m.Name = tok.Text

	if _, err := p.expect(TokenColon); err != nil {
		return m, err
	}
	typ, typePos, err := p.variableType(m.Name)
	if err != nil {
		return m, err
	}
	m.Type = typ
	if m.Builtin == ir.BuiltinPosition {
		if err := p.checkPosition(typ, typePos); err != nil {
			return m, err
		}
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return m, err
	}

	if p.recordMembers+1 > p.module.Limits.RecordMembers {
		return m, p.check(&ir.LimitError{What: "record members", Limit: p.module.Limits.RecordMembers})
	}
	p.recordMembers++
	return m, nil
}

// procedure parses `procedure name() -> type statements... end`.
func (p *Parser) procedure() error {
	if p.builtin != nil {
		return p.errorf(p.builtin.pos, "builtin attribute cannot be applied to a procedure")
	}
	stage := p.stage
	p.stage = nil

	name, err := p.expect(TokenSym)
	if err != nil {
		return err
	}
	for _, other := range p.module.Procedures.Items() {
		if other.Name == name.Text {
			return p.errorf(name.Pos, "procedure '%s' is already declared", name.Text)
		}
	}
	for _, kind := range []TokenKind{TokenLeftParen, TokenRightParen, TokenArrow} {
		if _, err := p.expect(kind); err != nil {
			return err
		}
	}
	ret, retPos, err := p.parseType()
	if err != nil {
		return err
	}
	if stage != nil && ret != ir.VoidTypeHandle {
		return p.errorf(retPos, "entry point '%s' must return void, not '%s'", name.Text, p.typeName(ret))
	}

	idx, err := p.module.Procedures.Append(ir.Procedure{Name: name.Text, Return: ret})
	if err != nil {
		return p.check(err)
	}
	proc := p.module.Procedure(ir.ProcedureHandle(idx))
	proc.ID = p.module.IDs.Next()
	if proc.Type, err = p.module.Types.MakeProcedure(ret); err != nil {
		return p.check(err)
	}

	if err := p.check(p.scopes.push()); err != nil {
		return err
	}
	if err := p.check(p.gen.Label(proc)); err != nil {
		return err
	}
	if err := p.block(proc); err != nil {
		return err
	}
	end := p.next()

	if !proc.Returned {
		if ret != ir.VoidTypeHandle {
			return p.errorf(end.Pos, "non-void function must return")
		}
		if err := p.check(p.gen.Return(proc)); err != nil {
			return err
		}
	}
	if err := p.check(p.scopes.pop()); err != nil {
		return err
	}

	if stage != nil {
		_, err := p.module.EntryPoints.Append(ir.EntryPoint{
			Name:      name.Text,
			Stage:     stage.stage,
			Procedure: ir.ProcedureHandle(idx),
		})
		return p.check(err)
	}
	return nil
}

// block parses statements up to, but not including, the closing `end`.
func (p *Parser) block(proc *ir.Procedure) error {
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEnd:
			return nil
		case TokenEOF:
			return p.errorf(tok.Pos, "expected '%s', not '%s'", TokenEnd, TokenEOF)
		case TokenError:
			return p.fail(p.lex.Err())
		}
		if proc.Returned {
			return p.errorf(tok.Pos, "'return' must be the last statement in a block")
		}
		if err := p.statement(proc); err != nil {
			return err
		}
	}
}

func (p *Parser) statement(proc *ir.Procedure) error {
	switch tok := p.peek(); tok.Kind {
	case TokenVar:
		p.next()
		return p.varStatement(proc)
	case TokenReturn:
		p.next()
		return p.returnStatement(proc)
	case TokenDo:
		p.next()
		if err := p.check(p.scopes.push()); err != nil {
			return err
		}
		if err := p.block(proc); err != nil {
			return err
		}
		p.next()
		return p.check(p.scopes.pop())
	default:
		return p.simpleStatement(proc)
	}
}

// varStatement parses `var name: type = expr;`. The name is not visible
// in its own initializer.
func (p *Parser) varStatement(proc *ir.Procedure) error {
	name, err := p.expect(TokenSym)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return err
	}
	typ, _, err := p.variableType(name.Text)
	if err != nil {
		return err
	}
	ptr, err := p.module.Types.MakePointer(typ, ir.StorageFunction)
	if err != nil {
		return p.check(err)
	}
	if _, err := p.expect(TokenEqual); err != nil {
		return err
	}

	init, initPos, err := p.expression()
	if err != nil {
		return err
	}
	if initType := p.module.Expression(init).Type; initType != typ {
		return p.errorf(initPos, "cannot initialize '%s' of type %s with a value of type %s",
			name.Text, p.typeName(typ), p.typeName(initType))
	}

	id, err := p.gen.Variable(proc, ptr)
	if err != nil {
		return p.check(err)
	}
	value, err := p.gen.Expression(proc, init)
	if err != nil {
		return p.check(err)
	}
	if err := p.check(p.gen.Store(proc, id, value)); err != nil {
		return err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	return p.check(p.scopes.add(&ir.Local{Name: name.Text, Type: typ, PtrType: ptr, ID: id}))
}

func (p *Parser) returnStatement(proc *ir.Procedure) error {
	if tok := p.peek(); tok.Kind == TokenSemicolon {
		p.next()
		if proc.Return != ir.VoidTypeHandle {
			return p.errorf(tok.Pos, "procedure '%s' must return a value of type %s", proc.Name, p.typeName(proc.Return))
		}
		proc.Returned = true
		return p.check(p.gen.Return(proc))
	}

	value, pos, err := p.expression()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}
	typ := p.module.Expression(value).Type
	if proc.Return == ir.VoidTypeHandle {
		return p.errorf(pos, "void procedure '%s' cannot return a value", proc.Name)
	}
	if typ != proc.Return {
		return p.errorf(pos, "cannot return %s from a procedure returning %s", p.typeName(typ), p.typeName(proc.Return))
	}

	id, err := p.gen.Expression(proc, value)
	if err != nil {
		return p.check(err)
	}
	proc.Returned = true
	return p.check(p.gen.ReturnValue(proc, id))
}

// simpleStatement parses an expression statement or an assignment.
func (p *Parser) simpleStatement(proc *ir.Procedure) error {
	lhs, lhsPos, err := p.expression()
	if err != nil {
		return err
	}

	tok := p.next()
	switch tok.Kind {
	case TokenSemicolon:
		_, err := p.gen.Expression(proc, lhs)
		return p.check(err)

	case TokenAssign:
		rhs, _, err := p.expression()
		if err != nil {
			return err
		}
		target := p.module.Expression(lhs)
		if target.Type != p.module.Expression(rhs).Type {
			return p.errorf(tok.Pos, "cannot assign incompatible types")
		}
		value, err := p.gen.Expression(proc, rhs)
		if err != nil {
			return p.check(err)
		}
		v, ok := target.Kind.(ir.ExprVar)
		if !ok {
			return p.errorf(lhsPos, "can only assign to variables")
		}
		if g := v.Local.Global; g != nil && g.Direction == ir.DirectionIn {
			return p.errorf(lhsPos, "cannot assign to input variable '%s'", g.Name)
		}
		if err := p.check(p.module.RegisterInterface(proc, v.Local)); err != nil {
			return err
		}
		if err := p.check(p.gen.Store(proc, v.Local.ID, value)); err != nil {
			return err
		}
		_, err = p.expect(TokenSemicolon)
		return err
	}
	return p.errorf(tok.Pos, "expected assignment or expression statement")
}

func (p *Parser) addExpression(kind ir.ExpressionKind, typ ir.TypeHandle) (ir.ExpressionHandle, error) {
	h, err := p.module.AddExpression(kind, typ)
	return h, p.check(err)
}

// expression parses a sum and returns the position of its first token.
func (p *Parser) expression() (ir.ExpressionHandle, Position, error) {
	pos := p.peek().Pos
	left, err := p.product()
	if err != nil {
		return 0, pos, err
	}
	for {
		op := p.peek()
		var bop ir.BinaryOperator
		var verb string
		switch op.Kind {
		case TokenPlus:
			bop, verb = ir.BinaryAdd, "add"
		case TokenMinus:
			bop, verb = ir.BinarySubtract, "subtract"
		default:
			return left, pos, nil
		}
		p.next()

		right, err := p.product()
		if err != nil {
			return 0, pos, err
		}
		typ := p.module.Expression(left).Type
		if typ != p.module.Expression(right).Type {
			return 0, pos, p.errorf(op.Pos, "cannot %s expressions of different types", verb)
		}
		if kind, ok := p.module.Types.ComponentKind(typ); !ok || kind == ir.ScalarBool {
			return 0, pos, p.errorf(op.Pos, "cannot %s values of type %s", verb, p.typeName(typ))
		}
		if left, err = p.addExpression(ir.ExprBinary{Op: bop, Left: left, Right: right}, typ); err != nil {
			return 0, pos, err
		}
	}
}

// product parses a chain of vector-by-scalar multiplications and
// divisions.
func (p *Parser) product() (ir.ExpressionHandle, error) {
	left, err := p.atom()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		var sop ir.ScalarOperator
		var verb string
		switch op.Kind {
		case TokenStar:
			sop, verb = ir.ScalarMultiply, "multiply"
		case TokenSlash:
			sop, verb = ir.ScalarDivide, "divide"
		default:
			return left, nil
		}
		p.next()

		right, err := p.atom()
		if err != nil {
			return 0, err
		}
		lt := p.module.Expression(left).Type
		rt := p.module.Expression(right).Type

		kind := ir.ExprScalar{Op: sop}
		var typ ir.TypeHandle
		if v, ok := p.module.Types.Vector(lt); ok && v.Component == rt {
			kind.Vector, kind.Scalar, typ = left, right, lt
		} else if v, ok := p.module.Types.Vector(rt); ok && v.Component == lt {
			kind.Scalar, kind.Vector, kind.ScalarFirst, typ = left, right, true, rt
		} else {
			return 0, p.errorf(op.Pos, "can only multiply a scalar by a vector")
		}
		if c, _ := p.module.Types.ComponentKind(typ); c == ir.ScalarBool {
			return 0, p.errorf(op.Pos, "cannot %s values of type %s", verb, p.typeName(typ))
		}
		if left, err = p.addExpression(kind, typ); err != nil {
			return 0, err
		}
	}
}

func (p *Parser) atom() (ir.ExpressionHandle, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenLeftParen:
		inner, _, err := p.expression()
		if err != nil {
			return 0, err
		}
		_, err = p.expect(TokenRightParen)
		return inner, err

	case TokenSym:
		local := p.scopes.lookup(tok.Text)
		if local == nil {
			return 0, p.errorf(tok.Pos, "couldn't find variable '%s' in scope", tok.Text)
		}
		return p.addExpression(ir.ExprVar{Local: local}, local.Type)

	case TokenNumber:
		c, err := p.module.FloatConstant(tok.Number)
		if err != nil {
			return 0, p.check(err)
		}
		return p.addExpression(ir.ExprFloat{Constant: c}, ir.F32TypeHandle)

	case TokenLeftBrace:
		return p.vector(tok.Pos)

	case TokenError:
		return 0, p.fail(p.lex.Err())
	}
	return 0, p.errorf(tok.Pos, "expected expression")
}

// vector parses `{a, b, ...}` after the opening brace. Elements are
// scalars or vectors sharing one component type, and their widths add
// up to the size of the result.
func (p *Parser) vector(open Position) (ir.ExpressionHandle, error) {
	first, firstPos, err := p.expression()
	if err != nil {
		return 0, err
	}
	component := p.module.Expression(first).Type
	count := uint32(1)
	if v, ok := p.module.Types.Vector(component); ok {
		component, count = v.Component, v.Size
	}
	if _, ok := p.module.Types.Scalar(component); !ok {
		return 0, p.errorf(firstPos, "vector elements must be scalars or vectors, not %s", p.typeName(component))
	}

	elements := []ir.ExpressionHandle{first}
	for p.peek().Kind == TokenComma {
		p.next()
		el, pos, err := p.expression()
		if err != nil {
			return 0, err
		}
		typ := p.module.Expression(el).Type
		if v, ok := p.module.Types.Vector(typ); ok && v.Component == component {
			count += v.Size
		} else if typ == component {
			count++
		} else {
			return 0, p.errorf(pos, "all types in vector expression are not the same")
		}
		elements = append(elements, el)
	}
	if _, err := p.expect(TokenRightBrace); err != nil {
		return 0, err
	}

	if count < 2 || count > 4 {
		return 0, p.errorf(open, "vector literal must have between 2 and 4 components, not %d", count)
	}
	if p.vectorElements+len(elements) > p.module.Limits.VectorElements {
		return 0, p.check(&ir.LimitError{What: "vector elements", Limit: p.module.Limits.VectorElements})
	}
	p.vectorElements += len(elements)

	typ, err := p.module.Types.MakeVector(component, count)
	if err != nil {
		return 0, p.check(err)
	}
	return p.addExpression(ir.ExprVector{Elements: elements}, typ)
}
