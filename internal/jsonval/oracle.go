// Package jsonval parses a single strict JSON value from a prefix of a
// larger string, reporting how many bytes it consumed. Metadata
// statements embed a JSON value with no delimiter marking its end, so
// the parser must discover the boundary itself.
package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports a JSON value that could not be parsed at a
// position within the larger statement text.
type ParseError struct {
	Expected string
	Found    string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected %s at position %d, found %q", e.Expected, e.Position, e.Found)
}

// Parse reads one JSON value from the start of input (after skipping
// leading whitespace) and returns the decoded value along with the
// number of bytes consumed, including the skipped whitespace.
func Parse(input string) (value any, consumed int, err error) {
	trimmed := strings.TrimLeft(input, " \t\n\r")
	skipped := len(input) - len(trimmed)

	if trimmed == "" {
		return nil, 0, &ParseError{Expected: "JSON value", Found: "", Position: skipped}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.UseNumber()

	var v any
	if decErr := dec.Decode(&v); decErr != nil {
		return nil, 0, &ParseError{Expected: "JSON value", Found: preview(trimmed), Position: skipped}
	}

	return v, skipped + int(dec.InputOffset()), nil
}

func preview(s string) string {
	const max = 20
	if len(s) <= max {
		return s
	}
	return s[:max]
}
