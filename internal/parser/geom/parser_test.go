package geom

import (
	"testing"

	"github.com/schemat/insign/caps"
	"github.com/schemat/insign/internal/ast"
)

func parse(t *testing.T, input string, capabilities caps.Capabilities) ast.GeometryStatement {
	t.Helper()
	stmt, err := New(input, capabilities).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return stmt
}

func TestParse_SimpleRC(t *testing.T) {
	stmt := parse(t, "@rc([0,1,2],[3,4,5])", caps.Default())
	rc, ok := stmt.(ast.RelativeCoordinate)
	if !ok {
		t.Fatalf("got %T, want RelativeCoordinate", stmt)
	}
	if rc.HasRegion {
		t.Errorf("expected anonymous, got region %q", rc.RegionName)
	}
	if rc.Corner1 != (ast.Vec3{0, 1, 2}) || rc.Corner2 != (ast.Vec3{3, 4, 5}) {
		t.Errorf("unexpected corners: %+v", rc)
	}
}

func TestParse_SimpleAC(t *testing.T) {
	stmt := parse(t, "@ac([10,-5,0],[20,15,10])", caps.Default())
	ac, ok := stmt.(ast.AbsoluteCoordinate)
	if !ok {
		t.Fatalf("got %T, want AbsoluteCoordinate", stmt)
	}
	if ac.Corner1 != (ast.Vec3{10, -5, 0}) || ac.Corner2 != (ast.Vec3{20, 15, 10}) {
		t.Errorf("unexpected corners: %+v", ac)
	}
}

func TestParse_NamedRegion(t *testing.T) {
	stmt := parse(t, "@dataloop=rc([0,0,0],[31,7,15])", caps.Default())
	rc, ok := stmt.(ast.RelativeCoordinate)
	if !ok {
		t.Fatalf("got %T, want RelativeCoordinate", stmt)
	}
	if !rc.HasRegion || rc.RegionName != "dataloop" {
		t.Errorf("unexpected region: %+v", rc)
	}
}

func TestParse_Whitespace(t *testing.T) {
	stmt := parse(t, "@  region  =  ac(  [ -10 , -20 , -30 ] , [ 10 , 20 , 30 ]  )  ", caps.Default())
	ac, ok := stmt.(ast.AbsoluteCoordinate)
	if !ok || ac.RegionName != "region" {
		t.Fatalf("unexpected result: %+v", stmt)
	}
	if ac.Corner1 != (ast.Vec3{-10, -20, -30}) || ac.Corner2 != (ast.Vec3{10, 20, 30}) {
		t.Errorf("unexpected corners: %+v", ac)
	}
}

func TestParse_RegionNameWithRCSubstring(t *testing.T) {
	stmt := parse(t, "@cpu.cache=rc([0,0,0],[1,1,1])", caps.Default())
	rc, ok := stmt.(ast.RelativeCoordinate)
	if !ok || rc.RegionName != "cpu.cache" {
		t.Fatalf("unexpected result: %+v", stmt)
	}
}

func TestParse_RegionNameWithACSubstring(t *testing.T) {
	stmt := parse(t, "@cpu.cache=ac([0,0,0],[1,1,1])", caps.Default())
	ac, ok := stmt.(ast.AbsoluteCoordinate)
	if !ok || ac.RegionName != "cpu.cache" {
		t.Fatalf("unexpected result: %+v", stmt)
	}
}

func TestParse_SimpleExpression(t *testing.T) {
	stmt := parse(t, "@core=dataloop", caps.Default())
	expr, ok := stmt.(ast.Expression)
	if !ok || expr.RegionName != "core" {
		t.Fatalf("unexpected result: %+v", stmt)
	}
	if ref, ok := expr.Expr.(ast.RegionRef); !ok || ref.Name != "dataloop" {
		t.Errorf("unexpected expr: %+v", expr.Expr)
	}
}

func TestParse_UnionExpression(t *testing.T) {
	stmt := parse(t, "@core=dataloop.alu+dataloop.registers", caps.Default())
	expr := stmt.(ast.Expression)
	union, ok := expr.Expr.(ast.Union)
	if !ok {
		t.Fatalf("got %T, want Union", expr.Expr)
	}
	if union.Left.(ast.RegionRef).Name != "dataloop.alu" || union.Right.(ast.RegionRef).Name != "dataloop.registers" {
		t.Errorf("unexpected union: %+v", union)
	}
}

func TestParse_ParenthesizedExpression(t *testing.T) {
	stmt := parse(t, "@result=(a+b)+c", caps.Default())
	expr := stmt.(ast.Expression)
	outer, ok := expr.Expr.(ast.Union)
	if !ok {
		t.Fatalf("got %T, want Union", expr.Expr)
	}
	inner, ok := outer.Left.(ast.Union)
	if !ok || inner.Left.(ast.RegionRef).Name != "a" || inner.Right.(ast.RegionRef).Name != "b" {
		t.Errorf("unexpected left: %+v", outer.Left)
	}
	if outer.Right.(ast.RegionRef).Name != "c" {
		t.Errorf("unexpected right: %+v", outer.Right)
	}
}

func TestParse_RejectsDifferenceWithoutCapability(t *testing.T) {
	disabled := caps.Capabilities{BooleanOps: false}
	_, err := New("@result=a-b", disabled).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	var unsupported *ast.UnsupportedOperatorError
	if ce, ok := err.(ast.CompileError); !ok || ce.Kind() != ast.KindUnsupportedOperator {
		t.Errorf("got %v (%T), want UnsupportedOperatorError", err, err)
		_ = unsupported
	}
}

func TestParse_RejectsIntersectionWithoutCapability(t *testing.T) {
	disabled := caps.Capabilities{BooleanOps: false}
	_, err := New("@result=a&b", disabled).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_RejectsXorWithoutCapability(t *testing.T) {
	disabled := caps.Capabilities{BooleanOps: false}
	_, err := New("@result=a^b", disabled).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_UnionAlwaysAllowed(t *testing.T) {
	disabled := caps.Capabilities{BooleanOps: false}
	_, err := New("@result=a+b", disabled).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_ErrorMissingAt(t *testing.T) {
	_, err := New("rc([0,0,0],[1,1,1])", caps.Default()).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_ErrorInvalidFunction(t *testing.T) {
	_, err := New("@invalid([0,0,0],[1,1,1])", caps.Default()).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_ErrorMalformedVec3(t *testing.T) {
	_, err := New("@rc([0,1],[3,4,5])", caps.Default()).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_ErrorMalformedInteger(t *testing.T) {
	_, err := New("@rc([0,not_a_number,2],[3,4,5])", caps.Default()).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_ErrorEmptyParens(t *testing.T) {
	_, err := New("@result=()", caps.Default()).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_ErrorTrailingOperator(t *testing.T) {
	_, err := New("@result=a+", caps.Default()).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
}
