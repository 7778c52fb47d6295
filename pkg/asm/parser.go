package asm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operand is an integer operand with its source text.
type Operand struct {
	Value int64
	Text  string
}

// AsmInstruction represents a parsed assembly line.
type AsmInstruction struct {
	Mnemonic string // upper-cased
	Operands []Operand
	Line     int
}

// AsmProgram represents a parsed assembly source.
type AsmProgram struct {
	Instructions []AsmInstruction
}

// Parser parses sketch assembly source.
type Parser struct {
	tokens  []Token
	pos     int
	program *AsmProgram
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	lexer := NewLexer(input)
	return &Parser{
		tokens:  lexer.Tokenize(),
		program: &AsmProgram{Instructions: []AsmInstruction{}},
	}
}

// Parse parses the entire input and returns the program.
func (p *Parser) Parse() (*AsmProgram, error) {
	lineStart := true

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		switch tok.Type {
		case TokenEOF:
			return p.program, nil

		case TokenNewline:
			p.pos++
			lineStart = true

		case TokenInt:
			// "NNNN:" offset prefix as written by the disassembler.
			if lineStart && p.peek(1).Type == TokenColon {
				p.pos += 2
				lineStart = false
				continue
			}
			return nil, fmt.Errorf("line %d: %w: %q", tok.Line, ErrUnexpectedToken, tok.Value)

		case TokenIdent:
			inst, err := p.parseInstruction()
			if err != nil {
				return nil, err
			}
			p.program.Instructions = append(p.program.Instructions, inst)
			lineStart = false

		default:
			return nil, fmt.Errorf("line %d: %w: %q", tok.Line, ErrUnexpectedToken, tok.Value)
		}
	}

	return p.program, nil
}

func (p *Parser) peek(n int) Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return Token{Type: TokenEOF}
}

func (p *Parser) parseInstruction() (AsmInstruction, error) {
	inst := AsmInstruction{
		Mnemonic: strings.ToUpper(p.tokens[p.pos].Value),
		Line:     p.tokens[p.pos].Line,
		Operands: []Operand{},
	}
	p.pos++ // Consume mnemonic

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		if tok.Type == TokenNewline || tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenComma {
			p.pos++
			continue
		}

		operand, err := p.parseOperand()
		if err != nil {
			return inst, err
		}
		inst.Operands = append(inst.Operands, operand)
	}

	return inst, nil
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.tokens[p.pos]

	if tok.Type != TokenInt {
		return Operand{}, fmt.Errorf("line %d: %w: %q", tok.Line, ErrUnexpectedToken, tok.Value)
	}

	v, err := ParseNumber(tok.Value)
	if err != nil {
		return Operand{}, fmt.Errorf("line %d: invalid integer: %s", tok.Line, tok.Value)
	}
	p.pos++
	return Operand{Value: v, Text: tok.Value}, nil
}

// ParseNumber parses a decimal or 0x-prefixed hex literal with an optional
// sign. Leading zeros are decimal, so offsets like 0010 read as ten.
func ParseNumber(s string) (int64, error) {
	neg := false
	body := s
	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		neg = body[0] == '-'
		body = body[1:]
	}

	base := 10
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		base = 16
		body = body[2:]
	}

	u, err := strconv.ParseUint(strings.ReplaceAll(body, "_", ""), base, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, strconv.ErrRange
	}
	if neg {
		return -int64(u), nil
	}
	return int64(u), nil
}
