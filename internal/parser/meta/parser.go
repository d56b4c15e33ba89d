// Package meta parses `#...` metadata statements.
package meta

import (
	"strings"
	"unicode"

	"github.com/schemat/insign/internal/ast"
	"github.com/schemat/insign/internal/jsonval"
)

// Parser parses a single metadata statement from its statement text.
type Parser struct {
	input string
	pos   int
}

func New(input string) *Parser {
	return &Parser{input: input}
}

// Parse parses the statement, returning its MetadataStatement.
func (p *Parser) Parse() (ast.MetadataStatement, error) {
	p.skipWhitespace()

	if !p.consumeChar('#') {
		return nil, p.expectedErr("'#'")
	}

	target, hasTarget, err := p.parseOptionalTarget()
	if err != nil {
		return nil, err
	}

	if hasTarget {
		p.skipWhitespace()
		if !p.consumeChar(':') {
			return nil, p.expectedErr("':'")
		}
		p.skipWhitespace()
	}

	key, err := p.parseKey()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if !p.consumeChar('=') {
		return nil, p.expectedErr("'='")
	}
	p.skipWhitespace()

	value, consumed, err := jsonval.Parse(p.input[p.pos:])
	if err != nil {
		return nil, translateJSONErr(err, p.pos)
	}
	p.pos += consumed

	if hasTarget {
		return ast.TargetedMetadata{Target: target, Key: key, Value: value}, nil
	}
	return ast.CurrentMetadata{Key: key, Value: value}, nil
}

// parseOptionalTarget scans ahead for ':'. If '=' is found first, there's
// no target and the position is left untouched.
func (p *Parser) parseOptionalTarget() (target string, ok bool, err error) {
	start := p.pos

	for {
		ch, eof := p.currentChar()
		if eof {
			break
		}
		switch ch {
		case ':':
			candidate := strings.TrimSpace(p.input[start:p.pos])
			if candidate == "" {
				return "", false, &ast.ExpectedError{
					Expected: "target name",
					Found:    "empty string",
					Position: start,
				}
			}
			return candidate, true, nil
		case '=':
			p.pos = start
			return "", false, nil
		}
		p.advance()
	}

	p.pos = start
	return "", false, nil
}

func (p *Parser) parseKey() (string, error) {
	start := p.pos

	ch, eof := p.currentChar()
	if eof || !(unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_') {
		return "", p.expectedErr("metadata key")
	}
	for {
		ch, eof := p.currentChar()
		if eof || !(unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.') {
			break
		}
		p.advance()
	}

	key := p.input[start:p.pos]
	if key == "" {
		return "", &ast.ExpectedError{Expected: "metadata key", Found: "empty string", Position: start}
	}
	return key, nil
}

func (p *Parser) skipWhitespace() {
	for {
		ch, eof := p.currentChar()
		if eof || !unicode.IsSpace(ch) {
			return
		}
		p.advance()
	}
}

func (p *Parser) currentChar() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, true
	}
	return rune(p.input[p.pos]), false
}

func (p *Parser) advance() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *Parser) consumeChar(expected rune) bool {
	ch, eof := p.currentChar()
	if !eof && ch == expected {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectedErr(expected string) error {
	ch, eof := p.currentChar()
	found := "\x00"
	if !eof {
		found = string(ch)
	}
	return &ast.ExpectedError{Expected: expected, Found: found, Position: p.pos}
}

func translateJSONErr(err error, offset int) error {
	if jerr, ok := err.(*jsonval.ParseError); ok {
		return &ast.ExpectedError{
			Expected: jerr.Expected,
			Found:    jerr.Found,
			Position: offset + jerr.Position,
		}
	}
	return err
}
