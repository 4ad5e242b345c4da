package bsl

import (
	"math"
	"unicode/utf8"
)

// Lexer tokenizes Beans source code on demand.
//
// Tokens are produced one at a time with a single token of lookahead.
// After the first lexical error the lexer keeps returning TokenError.
type Lexer struct {
	source string
	pos    int
	line   int
	column int

	peeked bool
	peek   Token
	err    *SourceError
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
	}
}

// Next consumes and returns the next token.
func (l *Lexer) Next() Token {
	if l.peeked {
		l.peeked = false
		return l.peek
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if !l.peeked {
		l.peek = l.scan()
		l.peeked = true
	}
	return l.peek
}

// Err returns the lexical error, if one occurred.
func (l *Lexer) Err() *SourceError {
	return l.err
}

// Tokenize returns all tokens up to and including EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	// Estimate ~1 token per 6 characters of source.
	tokens := make([]Token, 0, max(len(l.source)/6, 16))
	for {
		tok := l.Next()
		if tok.Kind == TokenError {
			return tokens, l.err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column}
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.source) {
		return 0
	}
	return l.source[l.pos+offset]
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) fail(pos Position, format string, args ...any) Token {
	if l.err == nil {
		l.err = NewSourceErrorf(pos, l.source, format, args...)
	}
	return Token{Kind: TokenError, Pos: pos}
}

func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		c := l.source[l.pos]
		switch {
		case isSpace(c):
			l.advance()
		case c == '/' && l.peekByte(1) == '/':
			for !l.isAtEnd() && l.source[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scan() Token {
	if l.err != nil {
		return Token{Kind: TokenError, Pos: l.err.Pos}
	}
	l.skipTrivia()

	start := l.position()
	if l.isAtEnd() {
		return Token{Kind: TokenEOF, Pos: start}
	}

	c := l.source[l.pos]
	switch {
	case isAlpha(c) || c == '_':
		return l.symbol(start)
	case c == '-' && isDigit(l.peekByte(1)):
		l.advance()
		return l.number(start, true)
	case isDigit(c):
		return l.number(start, false)
	case c == '"':
		return l.stringLiteral(start)
	}

	l.advance()
	kind := TokenError
	switch c {
	case ':':
		kind = TokenColon
		if l.match('=') {
			kind = TokenAssign
		}
	case '-':
		kind = TokenMinus
		if l.match('>') {
			kind = TokenArrow
		}
	case '.':
		kind = TokenPeriod
	case '=':
		kind = TokenEqual
	case '@':
		kind = TokenAddress
	case ',':
		kind = TokenComma
	case '(':
		kind = TokenLeftParen
	case ')':
		kind = TokenRightParen
	case '[':
		kind = TokenLeftBracket
	case ']':
		kind = TokenRightBracket
	case '<':
		kind = TokenLess
	case '>':
		kind = TokenGreater
	case '{':
		kind = TokenLeftBrace
	case '}':
		kind = TokenRightBrace
	case '+':
		kind = TokenPlus
	case '*':
		kind = TokenStar
	case '/':
		kind = TokenSlash
	case ';':
		kind = TokenSemicolon
	default:
		if c >= utf8.RuneSelf {
			return l.fail(start, "unexpected byte 0x%02X", c)
		}
		return l.fail(start, "unexpected character '%c'", rune(c))
	}
	return Token{Kind: kind, Pos: start}
}

func (l *Lexer) symbol(start Position) Token {
	begin := l.pos
	for !l.isAtEnd() && (isAlpha(l.source[l.pos]) || isDigit(l.source[l.pos]) || l.source[l.pos] == '_') {
		l.advance()
	}
	text := l.source[begin:l.pos]
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Pos: start}
	}
	return Token{Kind: TokenSym, Pos: start, Text: text}
}

// number lexes an integer or a decimal literal. The fractional value is
// accumulated in float32, rounding after every digit.
func (l *Lexer) number(start Position, negative bool) Token {
	var integer int64
	for !l.isAtEnd() && isDigit(l.source[l.pos]) {
		d := int64(l.advance() - '0')
		if integer > (math.MaxInt64-d)/10 {
			return l.fail(start, "integer literal is too large")
		}
		integer = integer*10 + d
	}

	if l.peekByte(0) != '.' {
		if negative {
			integer = -integer
		}
		return Token{Kind: TokenInteger, Pos: start, Integer: integer}
	}

	l.advance()
	value := float32(integer)
	position := 10.0
	for !l.isAtEnd() && isDigit(l.source[l.pos]) {
		d := float64(l.advance() - '0')
		value = float32(float64(value) + d/position)
		position *= 10
	}
	if negative {
		value = -value
	}
	return Token{Kind: TokenNumber, Pos: start, Number: value}
}

func (l *Lexer) stringLiteral(start Position) Token {
	l.advance()
	begin := l.pos
	for !l.isAtEnd() && l.source[l.pos] != '"' {
		l.advance()
	}
	if l.isAtEnd() {
		return l.fail(start, "unterminated string literal")
	}
	text := l.source[begin:l.pos]
	l.advance()
	return Token{Kind: TokenString, Pos: start, Text: text}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
