// Package output shapes an evaluated region table into the final
// compiled document.
package output

import (
	"strings"

	"github.com/schemat/insign/internal/ast"
)

// Build converts an evaluated region table into a DslMap, eliding
// anonymous regions that carry no metadata (I4).
func Build(table *ast.EvaluatedRegionTable) ast.DslMap {
	dslMap := make(ast.DslMap)

	for _, key := range table.Keys() {
		region, _ := table.Get(key)

		if isAnonymousKey(key) && len(region.Metadata) == 0 {
			continue
		}

		metadata := make(map[string]any, len(region.Metadata))
		for k, assignment := range region.Metadata {
			metadata[k] = assignment.Value
		}

		entry := ast.DslEntry{Metadata: metadata}
		if region.HasBoxes {
			entry.BoundingBoxes = region.Boxes
			if entry.BoundingBoxes == nil {
				// An evaluated region with no boxes (e.g. an empty
				// intersection) still has a box list; only virtual
				// entries leave BoundingBoxes nil.
				entry.BoundingBoxes = []ast.BoxPair{}
			}
		}
		dslMap[key] = entry
	}

	return dslMap
}

func isAnonymousKey(key string) bool {
	return strings.HasPrefix(key, "__anon_")
}
