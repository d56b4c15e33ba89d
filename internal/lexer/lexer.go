// Package lexer splits raw DSL text into individual statement slices and
// strips comment lines before parsing begins.
package lexer

import "strings"

// FilterComments replaces every line whose first non-whitespace rune is
// ';' with an empty line, preserving line numbers for diagnostics.
func FilterComments(input string) string {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), ";") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// StatementSlice is a single DSL statement's text and its byte offsets
// within the original input.
type StatementSlice struct {
	Text  string
	Start int
	End   int
}

// SplitStatements splits input into statement slices. A new statement
// begins at '@' or '#' only when that rune appears at bracket depth 0,
// outside a JSON string literal, and not at the very start of input.
func SplitStatements(input string) []StatementSlice {
	if input == "" {
		return nil
	}

	var statements []StatementSlice
	currentStart := 0
	depth := 0
	inString := false
	escapeNext := false

	runes := []rune(input)
	bytePos := 0
	for idx, ch := range runes {
		if inString && escapeNext {
			escapeNext = false
			bytePos += runeLen(ch)
			continue
		}

		switch {
		case ch == '\\' && inString:
			escapeNext = true
		case ch == '"':
			inString = !inString
			escapeNext = false
		case (ch == '(' || ch == '[' || ch == '{') && !inString:
			depth++
		case (ch == ')' || ch == ']' || ch == '}') && !inString:
			depth--
		case (ch == '@' || ch == '#') && depth == 0 && !inString && idx > 0:
			statements = append(statements, StatementSlice{
				Text:  input[currentStart:bytePos],
				Start: currentStart,
				End:   bytePos,
			})
			currentStart = bytePos
		default:
			escapeNext = false
		}

		bytePos += runeLen(ch)
	}

	if currentStart < len(input) {
		statements = append(statements, StatementSlice{
			Text:  input[currentStart:],
			Start: currentStart,
			End:   len(input),
		})
	}

	return statements
}

func runeLen(r rune) int {
	return len(string(r))
}
