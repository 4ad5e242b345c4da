package bsl

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenSym
	TokenString
	TokenInteger
	TokenNumber

	// Punctuation
	TokenPeriod       // .
	TokenAssign       // :=
	TokenEqual        // =
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenComma        // ,
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenSemicolon    // ;
	TokenColon        // :
	TokenAddress      // @
	TokenArrow        // ->
	TokenLess         // <
	TokenGreater      // >

	// Keywords
	TokenProcedure
	TokenEnd
	TokenIn
	TokenOut
	TokenRecord
	TokenVar
	TokenReturn
	TokenAt
	TokenDo
)

var tokenNames = [...]string{
	TokenEOF:          "EOF",
	TokenError:        "Error",
	TokenSym:          "Sym",
	TokenString:       "String",
	TokenInteger:      "Integer",
	TokenNumber:       "Number",
	TokenPeriod:       "Period",
	TokenAssign:       "Assign",
	TokenEqual:        "Equal",
	TokenLeftParen:    "LParen",
	TokenRightParen:   "RParen",
	TokenLeftBrace:    "LCurly",
	TokenRightBrace:   "RCurly",
	TokenLeftBracket:  "LBracket",
	TokenRightBracket: "RBracket",
	TokenComma:        "Comma",
	TokenPlus:         "Add",
	TokenMinus:        "Sub",
	TokenStar:         "Mul",
	TokenSlash:        "Div",
	TokenSemicolon:    "Semicolon",
	TokenColon:        "Colon",
	TokenAddress:      "Address",
	TokenArrow:        "Arrow",
	TokenLess:         "LessThan",
	TokenGreater:      "GreaterThan",
	TokenProcedure:    "Procedure",
	TokenEnd:          "End",
	TokenIn:           "In",
	TokenOut:          "Out",
	TokenRecord:       "Record",
	TokenVar:          "Var",
	TokenReturn:       "Return",
	TokenAt:           "At",
	TokenDo:           "Do",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "Unknown"
}

// keywords maps keyword text to its token kind.
var keywords = map[string]TokenKind{
	"procedure": TokenProcedure,
	"end":       TokenEnd,
	"in":        TokenIn,
	"out":       TokenOut,
	"record":    TokenRecord,
	"var":       TokenVar,
	"return":    TokenReturn,
	"at":        TokenAt,
	"do":        TokenDo,
}

// Position is a 1-based line and byte column in the source.
type Position struct {
	Line   int
	Column int
}

// Token represents a lexical token.
type Token struct {
	Kind TokenKind
	Pos  Position
	// Text holds identifier names and string contents.
	Text    string
	Integer int64
	Number  float32
}
