package ir

import (
	"testing"

	"github.com/schemat/insign/internal/ast"
)

func TestFindLastGeometryInTuple(t *testing.T) {
	stmts := []ast.GeomStmt{
		ast.NewGeomStmt(0, 0, rc("first", true, ast.Vec3{0, 0, 0}, ast.Vec3{1, 1, 1})),
		ast.NewGeomStmt(0, 1, rc("second", true, ast.Vec3{2, 2, 2}, ast.Vec3{3, 3, 3})),
		ast.NewGeomStmt(1, 0, rc("third", true, ast.Vec3{4, 4, 4}, ast.Vec3{5, 5, 5})),
	}

	if got, ok := FindLastGeometryInTuple(stmts, 0); !ok || got != "second" {
		t.Errorf("tuple 0: got (%q, %v), want (\"second\", true)", got, ok)
	}
	if got, ok := FindLastGeometryInTuple(stmts, 1); !ok || got != "third" {
		t.Errorf("tuple 1: got (%q, %v), want (\"third\", true)", got, ok)
	}
	if _, ok := FindLastGeometryInTuple(stmts, 2); ok {
		t.Error("tuple 2: expected not found")
	}
}

func TestFindLastGeometryInTuple_Anonymous(t *testing.T) {
	stmts := []ast.GeomStmt{
		ast.NewGeomStmt(0, 0, rc("", false, ast.Vec3{0, 0, 0}, ast.Vec3{1, 1, 1})),
		ast.NewGeomStmt(0, 1, rc("named", true, ast.Vec3{2, 2, 2}, ast.Vec3{3, 3, 3})),
		ast.NewGeomStmt(0, 2, rc("", false, ast.Vec3{4, 4, 4}, ast.Vec3{5, 5, 5})),
	}

	got, ok := FindLastGeometryInTuple(stmts, 0)
	if !ok || got != "__anon_0_2" {
		t.Errorf("got (%q, %v), want (\"__anon_0_2\", true)", got, ok)
	}
}

func metaStmt(tupleIdx, stmtIdx int, stmt ast.MetadataStatement) ast.MetaStmt {
	return ast.NewMetaStmt(tupleIdx, stmtIdx, stmt)
}

func TestApplyMetadata_CurrentRegion(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	table.GetOrCreate("test_region").SetBoxes([]ast.BoxPair{{Min: ast.Vec3{0, 0, 0}, Max: ast.Vec3{1, 1, 1}}})

	geomStmts := []ast.GeomStmt{
		ast.NewGeomStmt(0, 0, rc("test_region", true, ast.Vec3{0, 0, 0}, ast.Vec3{1, 1, 1})),
	}
	metaStmts := []ast.MetaStmt{
		metaStmt(0, 1, ast.CurrentMetadata{Key: "label", Value: "Test Label"}),
	}

	if err := ApplyMetadata(table, geomStmts, metaStmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, _ := table.Get("test_region")
	if entry.Metadata["label"].Value != "Test Label" {
		t.Errorf("unexpected metadata: %+v", entry.Metadata)
	}
}

func TestApplyMetadata_ExplicitTarget(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	metaStmts := []ast.MetaStmt{
		metaStmt(0, 0, ast.TargetedMetadata{Target: "new_region", Key: "type", Value: "special"}),
	}

	if err := ApplyMetadata(table, nil, metaStmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := table.Get("new_region")
	if !ok || entry.HasBoxes {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Metadata["type"].Value != "special" {
		t.Errorf("unexpected metadata: %+v", entry.Metadata)
	}
}

func TestApplyMetadata_ConflictDetection(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	geomStmts := []ast.GeomStmt{
		ast.NewGeomStmt(0, 0, rc("test", true, ast.Vec3{0, 0, 0}, ast.Vec3{1, 1, 1})),
		ast.NewGeomStmt(1, 0, rc("test", true, ast.Vec3{2, 2, 2}, ast.Vec3{3, 3, 3})),
	}
	metaStmts := []ast.MetaStmt{
		metaStmt(0, 1, ast.CurrentMetadata{Key: "label", Value: "First"}),
		metaStmt(1, 1, ast.CurrentMetadata{Key: "label", Value: "Second"}),
	}

	err := ApplyMetadata(table, geomStmts, metaStmts)
	if err == nil {
		t.Fatal("expected error")
	}
	conflict, ok := err.(*ast.MetadataConflictError)
	if !ok || conflict.Region != "test" || conflict.Key != "label" {
		t.Errorf("unexpected error: %+v", err)
	}
}

func TestApplyMetadata_IdenticalDuplicateAllowed(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	geomStmts := []ast.GeomStmt{
		ast.NewGeomStmt(0, 0, rc("test", true, ast.Vec3{0, 0, 0}, ast.Vec3{1, 1, 1})),
		ast.NewGeomStmt(1, 0, rc("test", true, ast.Vec3{2, 2, 2}, ast.Vec3{3, 3, 3})),
	}
	metaStmts := []ast.MetaStmt{
		metaStmt(0, 1, ast.CurrentMetadata{Key: "label", Value: "Same"}),
		metaStmt(1, 1, ast.CurrentMetadata{Key: "label", Value: "Same"}),
	}

	if err := ApplyMetadata(table, geomStmts, metaStmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyMetadata_Wildcard(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	table.GetOrCreate("cpu.core").SetBoxes([]ast.BoxPair{{Min: ast.Vec3{0, 0, 0}, Max: ast.Vec3{1, 1, 1}}})
	table.GetOrCreate("cpu.cache").SetBoxes([]ast.BoxPair{{Min: ast.Vec3{2, 2, 2}, Max: ast.Vec3{3, 3, 3}}})
	table.GetOrCreate("gpu.core").SetBoxes([]ast.BoxPair{{Min: ast.Vec3{4, 4, 4}, Max: ast.Vec3{5, 5, 5}}})

	metaStmts := []ast.MetaStmt{
		metaStmt(0, 0, ast.TargetedMetadata{Target: "cpu.*", Key: "power", Value: "low"}),
	}

	if err := ApplyMetadata(table, nil, metaStmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wildcardEntry, ok := table.Get("cpu.*")
	if !ok || wildcardEntry.HasBoxes {
		t.Fatalf("unexpected wildcard entry: %+v", wildcardEntry)
	}
	if wildcardEntry.Metadata["power"].Value != "low" {
		t.Errorf("unexpected wildcard metadata: %+v", wildcardEntry.Metadata)
	}

	coreEntry, _ := table.Get("cpu.core")
	if coreEntry.Metadata["power"].Value != "low" {
		t.Errorf("cpu.core not fanned out: %+v", coreEntry.Metadata)
	}
	cacheEntry, _ := table.Get("cpu.cache")
	if cacheEntry.Metadata["power"].Value != "low" {
		t.Errorf("cpu.cache not fanned out: %+v", cacheEntry.Metadata)
	}
	gpuEntry, _ := table.Get("gpu.core")
	if _, ok := gpuEntry.Metadata["power"]; ok {
		t.Error("gpu.core should not have received the cpu.* metadata")
	}
}

func TestApplyMetadata_Global(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	metaStmts := []ast.MetaStmt{
		metaStmt(0, 0, ast.TargetedMetadata{Target: "$global", Key: "version", Value: "1.0"}),
	}

	if err := ApplyMetadata(table, nil, metaStmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := table.Get("$global")
	if !ok || entry.HasBoxes {
		t.Fatalf("unexpected $global entry: %+v", entry)
	}
	if entry.Metadata["version"].Value != "1.0" {
		t.Errorf("unexpected metadata: %+v", entry.Metadata)
	}
}

func TestApplyMetadata_NoCurrentRegionError(t *testing.T) {
	table := ast.NewEvaluatedRegionTable()
	metaStmts := []ast.MetaStmt{
		metaStmt(0, 0, ast.CurrentMetadata{Key: "label", Value: "orphan"}),
	}

	err := ApplyMetadata(table, nil, metaStmts)
	if err == nil {
		t.Fatal("expected error")
	}
	noCurrent, ok := err.(*ast.NoCurrentRegionError)
	if !ok {
		t.Fatalf("got %T, want NoCurrentRegionError", err)
	}
	if noCurrent.Source.TupleIdx != 0 || noCurrent.Source.StmtIdx != 0 {
		t.Errorf("unexpected source: %+v", noCurrent.Source)
	}
}

func TestValuesEqual_NormalizesStrings(t *testing.T) {
	// "é" as a single codepoint (U+00E9) vs. "e" + combining acute (U+0065 U+0301).
	composed := "é"
	decomposed := "é"
	if !valuesEqual(composed, decomposed) {
		t.Error("expected NFC-normalized strings to compare equal")
	}
}
