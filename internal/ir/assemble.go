// Package ir assembles parsed statements into a region table and,
// later, applies metadata to evaluated regions.
package ir

import (
	"github.com/schemat/insign/internal/ast"
)

// AssembleRegionTable adds every geometry statement to a fresh
// RegionTable, applying each tuple's placement offset to relative
// coordinates. Mode violations (I1) surface as MixedRegionModeError or
// DuplicateRegionDefinitionError.
func AssembleRegionTable(geomStmts []ast.GeomStmt, offsets []ast.Vec3) (*ast.RegionTable, error) {
	table := ast.NewRegionTable()

	for _, stmt := range geomStmts {
		var offset ast.Vec3
		if stmt.TupleIdx >= 0 && stmt.TupleIdx < len(offsets) {
			offset = offsets[stmt.TupleIdx]
		}
		if err := addGeometry(table, stmt, offset); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func addGeometry(table *ast.RegionTable, stmt ast.GeomStmt, offset ast.Vec3) error {
	source := stmt.Source()

	if expr, ok := stmt.Statement.(ast.Expression); ok {
		return addDefinedRegion(table, expr.RegionName, expr.Expr, source)
	}

	boxPair, err := toBoxPair(stmt.Statement, offset)
	if err != nil {
		return err
	}

	if region, hasRegion := stmt.Region(); hasRegion {
		return addAccumulatorBox(table, region, boxPair, source)
	}

	addAnonymousRegion(table, stmt.AnonymousKey(), boxPair, source)
	return nil
}

func toBoxPair(stmt ast.GeometryStatement, offset ast.Vec3) (ast.BoxPair, error) {
	switch g := stmt.(type) {
	case ast.RelativeCoordinate:
		return g.ToBoxPair(offset), nil
	case ast.AbsoluteCoordinate:
		return g.ToBoxPair(), nil
	default:
		return ast.BoxPair{}, &ast.InternalError{Message: "geometry statement should produce a box pair"}
	}
}

func addDefinedRegion(table *ast.RegionTable, region string, expr ast.BooleanExpr, source ast.SourceLocation) error {
	existing, ok := table.Get(region)
	if !ok {
		table.Set(region, &ast.DefinedEntry{Expr: expr, Source: source})
		return nil
	}

	switch e := existing.(type) {
	case *ast.AccumulatorEntry:
		return &ast.MixedRegionModeError{
			Region:             region,
			AccumulatorSources: append([]ast.SourceLocation(nil), e.Sources...),
			DefinedSource:      source,
		}
	case *ast.DefinedEntry:
		return &ast.DuplicateRegionDefinitionError{
			Region:          region,
			FirstSource:     e.Source,
			DuplicateSource: source,
		}
	default:
		return &ast.InternalError{Message: "anonymous region with named key"}
	}
}

func addAccumulatorBox(table *ast.RegionTable, region string, box ast.BoxPair, source ast.SourceLocation) error {
	existing, ok := table.Get(region)
	if !ok {
		table.Set(region, &ast.AccumulatorEntry{
			Boxes:   []ast.BoxPair{box},
			Sources: []ast.SourceLocation{source},
		})
		return nil
	}

	switch e := existing.(type) {
	case *ast.AccumulatorEntry:
		e.Boxes = append(e.Boxes, box)
		e.Sources = append(e.Sources, source)
		return nil
	case *ast.DefinedEntry:
		return &ast.MixedRegionModeError{
			Region:             region,
			AccumulatorSources: []ast.SourceLocation{source},
			DefinedSource:      e.Source,
		}
	default:
		return &ast.InternalError{Message: "anonymous region with named key"}
	}
}

func addAnonymousRegion(table *ast.RegionTable, key string, box ast.BoxPair, source ast.SourceLocation) {
	table.Set(key, &ast.AnonymousEntry{Box: box, Source: source})
}
