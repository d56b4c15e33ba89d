// Package insign compiles the labelled-region DSL into a map of named
// 3D regions and their metadata.
package insign

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/schemat/insign/caps"
	"github.com/schemat/insign/internal/ast"
	"github.com/schemat/insign/internal/eval"
	"github.com/schemat/insign/internal/ir"
	"github.com/schemat/insign/internal/lexer"
	geomparser "github.com/schemat/insign/internal/parser/geom"
	metaparser "github.com/schemat/insign/internal/parser/meta"
	"github.com/schemat/insign/internal/output"
)

// Re-exported so callers never need to import the internal packages.
type (
	Vec3           = ast.Vec3
	BoxPair        = ast.BoxPair
	SourceLocation = ast.SourceLocation
	DslEntry       = ast.DslEntry
	DslMap         = ast.DslMap
	ErrorKind      = ast.ErrorKind
	CompileError   = ast.CompileError
)

const (
	KindExpected                  = ast.KindExpected
	KindUnexpectedEnd             = ast.KindUnexpectedEnd
	KindInvalidInteger            = ast.KindInvalidInteger
	KindEmptyExpression           = ast.KindEmptyExpression
	KindUnsupportedOperator       = ast.KindUnsupportedOperator
	KindMixedRegionMode           = ast.KindMixedRegionMode
	KindDuplicateRegionDefinition = ast.KindDuplicateRegionDefinition
	KindUnknownRegion             = ast.KindUnknownRegion
	KindSelfReference             = ast.KindSelfReference
	KindCycleDetected             = ast.KindCycleDetected
	KindMetadataConflict          = ast.KindMetadataConflict
	KindNoCurrentRegion           = ast.KindNoCurrentRegion
	KindInternal                  = ast.KindInternal
)

// PlacementUnit is one placed block of DSL text: an anchor offset and
// the statements to parse relative to it.
type PlacementUnit struct {
	Anchor Vec3
	Text   string
}

// Compile runs the full pipeline — parse, assemble, evaluate, apply
// metadata, shape — over an ordered sequence of placement units.
// Compile performs no I/O and holds no state across calls; it's safe
// to call concurrently from multiple goroutines, including with a
// shared Capabilities value (see caps.Capabilities).
func Compile(units []PlacementUnit, capabilities caps.Capabilities) (DslMap, error) {
	if len(units) == 0 {
		return DslMap{}, nil
	}

	var allGeomStmts []ast.GeomStmt
	var allMetaStmts []ast.MetaStmt
	offsets := make([]ast.Vec3, len(units))

	for tupleIdx, unit := range units {
		offsets[tupleIdx] = unit.Anchor

		geomStmts, metaStmts, err := parseTupleStatements(tupleIdx, unit.Text, capabilities)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing tuple %d", tupleIdx)
		}
		allGeomStmts = append(allGeomStmts, geomStmts...)
		allMetaStmts = append(allMetaStmts, metaStmts...)
	}

	regionTable, err := ir.AssembleRegionTable(allGeomStmts, offsets)
	if err != nil {
		return nil, errors.Wrap(err, "assembling region table")
	}

	evaluatedBoxes, err := eval.EvaluateAll(regionTable)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating geometry")
	}

	evaluatedTable := ast.NewEvaluatedRegionTable()
	for _, key := range regionTable.Keys() {
		evaluatedTable.GetOrCreate(key).SetBoxes(evaluatedBoxes[key])
	}

	if err := ir.ApplyMetadata(evaluatedTable, allGeomStmts, allMetaStmts); err != nil {
		return nil, errors.Wrap(err, "applying metadata")
	}

	return output.Build(evaluatedTable), nil
}

// CompileDefault compiles with the default capability set (boolean_ops
// enabled).
func CompileDefault(units []PlacementUnit) (DslMap, error) {
	return Compile(units, caps.Default())
}

func parseTupleStatements(tupleIdx int, text string, capabilities caps.Capabilities) ([]ast.GeomStmt, []ast.MetaStmt, error) {
	filtered := lexer.FilterComments(text)
	slices := lexer.SplitStatements(filtered)

	var geomStmts []ast.GeomStmt
	var metaStmts []ast.MetaStmt

	for stmtIdx, slice := range slices {
		stmtText := strings.TrimSpace(slice.Text)
		if stmtText == "" {
			continue
		}

		switch stmtText[0] {
		case '@':
			parsed, err := geomparser.New(stmtText, capabilities).Parse()
			if err != nil {
				return nil, nil, err
			}
			geomStmts = append(geomStmts, ast.NewGeomStmt(tupleIdx, stmtIdx, parsed))
		case '#':
			parsed, err := metaparser.New(stmtText).Parse()
			if err != nil {
				return nil, nil, err
			}
			metaStmts = append(metaStmts, ast.NewMetaStmt(tupleIdx, stmtIdx, parsed))
		}
	}

	return geomStmts, metaStmts, nil
}
