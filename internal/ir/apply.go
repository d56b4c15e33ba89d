package ir

import (
	"encoding/json"

	"golang.org/x/text/unicode/norm"

	"github.com/schemat/insign/internal/ast"
	"github.com/schemat/insign/wildcard"
)

// FindLastGeometryInTuple returns the region key of the last geometry
// statement belonging to tupleIdx, scanning every geometry statement in
// document order and keeping the most recent match (not merely the
// nearest preceding statement).
func FindLastGeometryInTuple(geomStmts []ast.GeomStmt, tupleIdx int) (string, bool) {
	var last string
	found := false

	for _, stmt := range geomStmts {
		if stmt.TupleIdx != tupleIdx {
			continue
		}
		if region, hasRegion := stmt.Region(); hasRegion {
			last = region
		} else {
			last = stmt.AnonymousKey()
		}
		found = true
	}

	return last, found
}

// ApplyMetadata applies every metadata statement to the evaluated
// region table, resolving current-region references, fanning wildcard
// targets out to matching regions, and detecting value conflicts (I6).
func ApplyMetadata(table *ast.EvaluatedRegionTable, geomStmts []ast.GeomStmt, metaStmts []ast.MetaStmt) error {
	for _, metaStmt := range metaStmts {
		source := metaStmt.Source()

		switch stmt := metaStmt.Statement.(type) {
		case ast.CurrentMetadata:
			targetRegion, ok := FindLastGeometryInTuple(geomStmts, metaStmt.TupleIdx)
			if !ok {
				return &ast.NoCurrentRegionError{Source: source}
			}
			if err := addMetadata(table, targetRegion, stmt.Key, ast.MetadataAssignment{Value: stmt.Value, Source: source}); err != nil {
				return err
			}

		case ast.TargetedMetadata:
			assignment := ast.MetadataAssignment{Value: stmt.Value, Source: source}

			if wildcard.IsPattern(stmt.Target) {
				if err := addMetadata(table, stmt.Target, stmt.Key, assignment); err != nil {
					return err
				}
				for _, region := range table.Keys() {
					if region == stmt.Target {
						continue
					}
					if wildcard.Match(region, stmt.Target) {
						if err := addMetadata(table, region, stmt.Key, assignment); err != nil {
							return err
						}
					}
				}
			} else {
				if err := addMetadata(table, stmt.Target, stmt.Key, assignment); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func addMetadata(table *ast.EvaluatedRegionTable, region, key string, assignment ast.MetadataAssignment) error {
	entry := table.GetOrCreate(region)

	if existing, ok := entry.Metadata[key]; ok {
		if !valuesEqual(existing.Value, assignment.Value) {
			return &ast.MetadataConflictError{
				Region:         region,
				Key:            key,
				FirstValue:     existing.Value,
				FirstSource:    existing.Source,
				ConflictValue:  assignment.Value,
				ConflictSource: assignment.Source,
			}
		}
		return nil
	}

	entry.Metadata[key] = assignment
	return nil
}

// valuesEqual compares decoded JSON values for the purposes of I6/P4.
// String values are NFC-normalized before comparison so visually
// identical metadata written with different Unicode compositions isn't
// flagged as a spurious conflict.
func valuesEqual(a, b any) bool {
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return norm.NFC.String(as) == norm.NFC.String(bs)
	}

	aBytes, errA := json.Marshal(a)
	bBytes, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aBytes) == string(bBytes)
}
