// Package geom parses `@...` geometry statements, including the
// embedded boolean expression grammar used by the Expression form.
package geom

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/schemat/insign/caps"
	"github.com/schemat/insign/internal/ast"
)

// Parser parses a single geometry statement from its statement text.
type Parser struct {
	input string
	pos   int
	caps  caps.Capabilities
}

// New constructs a parser for the given statement text. capabilities
// gates which boolean operators are accepted.
func New(input string, capabilities caps.Capabilities) *Parser {
	return &Parser{input: input, caps: capabilities}
}

// Parse parses the statement, returning its GeometryStatement.
func (p *Parser) Parse() (ast.GeometryStatement, error) {
	p.skipWhitespace()

	if !p.consumeChar('@') {
		return nil, p.expectedErr("'@'")
	}

	regionName, hasRegion, err := p.parseOptionalRegionName()
	if err != nil {
		return nil, err
	}

	if hasRegion {
		p.skipWhitespace()
		if !p.consumeChar('=') {
			return nil, p.expectedErr("'='")
		}
		p.skipWhitespace()
	}

	switch {
	case p.consumeStr("rc("):
		corner1, corner2, err := p.parseBox()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.consumeChar(')') {
			return nil, p.expectedErr("')'")
		}
		return ast.RelativeCoordinate{
			RegionName: regionName,
			HasRegion:  hasRegion,
			Corner1:    corner1,
			Corner2:    corner2,
		}, nil

	case p.consumeStr("ac("):
		corner1, corner2, err := p.parseBox()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.consumeChar(')') {
			return nil, p.expectedErr("')'")
		}
		return ast.AbsoluteCoordinate{
			RegionName: regionName,
			HasRegion:  hasRegion,
			Corner1:    corner1,
			Corner2:    corner2,
		}, nil

	case hasRegion:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.Expression{RegionName: regionName, Expr: expr}, nil

	default:
		return nil, &ast.ExpectedError{
			Expected: "'rc(' or 'ac(' or expression",
			Found:    p.peekStr(10),
			Position: p.pos,
		}
	}
}

// parseOptionalRegionName scans ahead for '='. If "rc(" or "ac(" appears
// at the very start instead, there's no region name and the position is
// left untouched (matching the original's "cpu.cache" disambiguation:
// a name that merely starts with 'r' or 'a' is not mistaken for a call).
func (p *Parser) parseOptionalRegionName() (name string, ok bool, err error) {
	start := p.pos

	for {
		ch, eof := p.currentChar()
		if eof {
			break
		}
		if ch == '=' {
			candidate := strings.TrimSpace(p.input[start:p.pos])
			if candidate == "" {
				return "", false, &ast.ExpectedError{
					Expected: "region name",
					Found:    "empty string",
					Position: start,
				}
			}
			return candidate, true, nil
		}
		if p.pos == start && (ch == 'r' || ch == 'a') {
			if p.peekStr(3) == "rc(" || p.peekStr(3) == "ac(" {
				p.pos = start
				return "", false, nil
			}
		}
		p.advance()
	}

	p.pos = start
	return "", false, nil
}

func (p *Parser) parseBox() (ast.Vec3, ast.Vec3, error) {
	p.skipWhitespace()
	v1, err := p.parseVec3()
	if err != nil {
		return ast.Vec3{}, ast.Vec3{}, err
	}
	p.skipWhitespace()
	if !p.consumeChar(',') {
		return ast.Vec3{}, ast.Vec3{}, p.expectedErr("','")
	}
	p.skipWhitespace()
	v2, err := p.parseVec3()
	if err != nil {
		return ast.Vec3{}, ast.Vec3{}, err
	}
	return v1, v2, nil
}

func (p *Parser) parseVec3() (ast.Vec3, error) {
	p.skipWhitespace()
	if !p.consumeChar('[') {
		return ast.Vec3{}, p.expectedErr("'['")
	}

	var v ast.Vec3
	for i := 0; i < 3; i++ {
		p.skipWhitespace()
		n, err := p.parseInteger()
		if err != nil {
			return ast.Vec3{}, err
		}
		v[i] = n
		p.skipWhitespace()
		if i < 2 {
			if !p.consumeChar(',') {
				return ast.Vec3{}, p.expectedErr("','")
			}
		}
	}

	p.skipWhitespace()
	if !p.consumeChar(']') {
		return ast.Vec3{}, p.expectedErr("']'")
	}
	return v, nil
}

func (p *Parser) parseInteger() (int32, error) {
	start := p.pos
	p.consumeChar('-')

	ch, eof := p.currentChar()
	if eof || !unicode.IsDigit(ch) {
		return 0, p.expectedErr("digit")
	}
	for {
		ch, eof := p.currentChar()
		if eof || !unicode.IsDigit(ch) {
			break
		}
		p.advance()
	}

	numStr := p.input[start:p.pos]
	n, err := strconv.ParseInt(numStr, 10, 32)
	if err != nil {
		return 0, &ast.InvalidIntegerError{Position: start, Cause: err}
	}
	return int32(n), nil
}

// parseExpression parses a boolean expression with precedence
// xor (lowest) < difference < union < intersection (highest), all
// left-associative.
func (p *Parser) parseExpression() (ast.BooleanExpr, error) {
	return p.parseXor()
}

func (p *Parser) parseXor() (ast.BooleanExpr, error) {
	left, err := p.parseDifference()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		ch, eof := p.currentChar()
		if eof || ch != '^' {
			break
		}
		if !p.caps.BooleanOps {
			return nil, &ast.UnsupportedOperatorError{Position: p.pos, Operator: "^"}
		}
		p.advance()
		p.skipWhitespace()
		right, err := p.parseDifference()
		if err != nil {
			return nil, err
		}
		left = ast.Xor{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseDifference() (ast.BooleanExpr, error) {
	left, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		ch, eof := p.currentChar()
		if eof || ch != '-' {
			break
		}
		if !p.caps.BooleanOps {
			return nil, &ast.UnsupportedOperatorError{Position: p.pos, Operator: "-"}
		}
		p.advance()
		p.skipWhitespace()
		right, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		left = ast.Difference{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnion() (ast.BooleanExpr, error) {
	left, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		ch, eof := p.currentChar()
		if eof || ch != '+' {
			break
		}
		p.advance()
		p.skipWhitespace()
		right, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		left = ast.Union{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseIntersection() (ast.BooleanExpr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		ch, eof := p.currentChar()
		if eof || ch != '&' {
			break
		}
		if !p.caps.BooleanOps {
			return nil, &ast.UnsupportedOperatorError{Position: p.pos, Operator: "&"}
		}
		p.advance()
		p.skipWhitespace()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.Intersection{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.BooleanExpr, error) {
	p.skipWhitespace()
	if p.consumeChar('(') {
		p.skipWhitespace()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.consumeChar(')') {
			return nil, p.expectedErr("')'")
		}
		return expr, nil
	}
	return p.parseRegionRef()
}

func (p *Parser) parseRegionRef() (ast.BooleanExpr, error) {
	start := p.pos

	ch, eof := p.currentChar()
	if eof || !(unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_') {
		return nil, p.expectedErr("region name")
	}
	for {
		ch, eof := p.currentChar()
		if eof || !(unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.') {
			break
		}
		p.advance()
	}

	name := p.input[start:p.pos]
	if name == "" {
		return nil, &ast.EmptyExpressionError{Position: start}
	}
	return ast.RegionRef{Name: name}, nil
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

func (p *Parser) consumeStr(expected string) bool {
	if strings.HasPrefix(p.input[p.pos:], expected) {
		p.pos += len(expected)
		return true
	}
	return false
}

func (p *Parser) peekStr(n int) string {
	end := p.pos + n
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[p.pos:end]
}

func (p *Parser) expectedErr(expected string) error {
	ch, eof := p.currentChar()
	found := "\x00"
	if !eof {
		found = string(ch)
	}
	return &ast.ExpectedError{Expected: expected, Found: found, Position: p.pos}
}
