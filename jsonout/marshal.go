// Package jsonout serializes a compiled DslMap to JSON with explicit,
// tested key ordering (spec.md section 6 / invariant I7), rather than
// depending on encoding/json's map-key sorting as an implementation
// detail.
package jsonout

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/schemat/insign/internal/ast"
)

// Marshal serializes a DslMap to its compact JSON form.
func Marshal(m ast.DslMap) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, m, ""); err != nil {
		return nil, errors.Wrap(err, "marshal dsl map")
	}
	return buf.Bytes(), nil
}

// MarshalIndent serializes a DslMap to indented JSON, matching
// json.MarshalIndent's prefix/indent semantics.
func MarshalIndent(m ast.DslMap, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(m)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, errors.Wrap(err, "indent dsl map")
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, m ast.DslMap, _ string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeEntry(buf, m[key]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeEntry(buf *bytes.Buffer, entry ast.DslEntry) error {
	buf.WriteByte('{')
	wroteField := false

	if entry.BoundingBoxes != nil {
		buf.WriteString(`"bounding_boxes":`)
		boxesJSON, err := json.Marshal(entry.BoundingBoxes)
		if err != nil {
			return err
		}
		buf.Write(boxesJSON)
		wroteField = true
	}

	if wroteField {
		buf.WriteByte(',')
	}
	buf.WriteString(`"metadata":`)
	if err := encodeMetadata(buf, entry.Metadata); err != nil {
		return err
	}

	buf.WriteByte('}')
	return nil
}

func encodeMetadata(buf *bytes.Buffer, metadata map[string]any) error {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(metadata[key])
		if err != nil {
			return err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
