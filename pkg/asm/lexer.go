package asm

import (
	"unicode"
)

// TokenType represents the type of a token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenIdent   // Mnemonics
	TokenInt     // Decimal or 0x hex literals, optionally negative
	TokenComma   // ,
	TokenColon   // : (after an offset prefix)
	TokenInvalid // Any other character
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenIdent:
		return "IDENT"
	case TokenInt:
		return "INT"
	case TokenComma:
		return "COMMA"
	case TokenColon:
		return "COLON"
	case TokenInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes sketch assembly source.
type Lexer struct {
	input  string
	pos    int
	line   int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input and returns the tokens.
// Comments run from ';' to the end of the line and produce no token.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		ch := l.input[l.pos]

		switch {
		case ch == '\n':
			l.emit(TokenNewline, "\n")
			l.line++
			l.pos++

		case ch == ';':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}

		case ch == ',':
			l.emit(TokenComma, ",")
			l.pos++

		case ch == ':':
			l.emit(TokenColon, ":")
			l.pos++

		case ch == '-' || ch == '+' || isDigit(ch):
			l.scanNumber()

		case unicode.IsLetter(rune(ch)) || ch == '_':
			l.scanIdent()

		default:
			l.emit(TokenInvalid, string(ch))
			l.pos++
		}
	}

	l.emit(TokenEOF, "")
	return l.tokens
}

func (l *Lexer) emit(t TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Line: l.line})
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.pos++
		} else {
			break
		}
	}
}

func (l *Lexer) scanNumber() {
	start := l.pos

	if c := l.input[l.pos]; c == '-' || c == '+' {
		l.pos++
	}

	// Hex and decimal digits are both taken here; the parser rejects
	// malformed literals with a line-numbered error.
	for l.pos < len(l.input) && isNumberChar(l.input[l.pos]) {
		l.pos++
	}

	l.emit(TokenInt, l.input[start:l.pos])
}

func (l *Lexer) scanIdent() {
	start := l.pos
	l.pos++

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsLetter(rune(ch)) || isDigit(ch) || ch == '_' {
			l.pos++
		} else {
			break
		}
	}

	l.emit(TokenIdent, l.input[start:l.pos])
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNumberChar(ch byte) bool {
	return isDigit(ch) || ch == 'x' || ch == 'X' ||
		(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') || ch == '_'
}
