// Package eval evaluates a region table's geometry into bounding
// boxes, resolving boolean expressions and detecting self-reference
// and cycles among Defined regions.
package eval

import (
	"math"

	"github.com/schemat/insign/internal/ast"
)

type context struct {
	table *ast.RegionTable
	cache map[string][]ast.BoxPair
	path  []string
}

// EvaluateAll evaluates every region in the table and returns its
// bounding boxes, keyed by region key.
func EvaluateAll(table *ast.RegionTable) (map[string][]ast.BoxPair, error) {
	ctx := &context{table: table, cache: make(map[string][]ast.BoxPair)}
	results := make(map[string][]ast.BoxPair, table.Len())

	for _, key := range table.Keys() {
		boxes, err := ctx.evaluateRegion(key)
		if err != nil {
			return nil, err
		}
		results[key] = boxes
	}

	return results, nil
}

// EvaluateRegion evaluates a single region by key.
func EvaluateRegion(table *ast.RegionTable, key string) ([]ast.BoxPair, error) {
	ctx := &context{table: table, cache: make(map[string][]ast.BoxPair)}
	return ctx.evaluateRegion(key)
}

func (c *context) evaluateRegion(regionName string) ([]ast.BoxPair, error) {
	if cached, ok := c.cache[regionName]; ok {
		return cached, nil
	}

	for _, inPath := range c.path {
		if inPath == regionName {
			cycleStart := 0
			for i, r := range c.path {
				if r == regionName {
					cycleStart = i
					break
				}
			}
			cycle := append([]string(nil), c.path[cycleStart:]...)
			return nil, &ast.CycleDetectedError{Cycle: cycle}
		}
	}

	c.path = append(c.path, regionName)
	boxes, err := c.evaluateRegionImpl(regionName)
	c.path = c.path[:len(c.path)-1]

	if err != nil {
		return nil, err
	}

	c.cache[regionName] = boxes
	return boxes, nil
}

func (c *context) evaluateRegionImpl(regionName string) ([]ast.BoxPair, error) {
	entry, ok := c.table.Get(regionName)
	if !ok {
		return nil, &ast.UnknownRegionError{Region: regionName, Source: ast.SourceLocation{}}
	}

	switch e := entry.(type) {
	case *ast.AccumulatorEntry:
		return append([]ast.BoxPair(nil), e.Boxes...), nil
	case *ast.AnonymousEntry:
		return []ast.BoxPair{e.Box}, nil
	case *ast.DefinedEntry:
		return c.evaluateExpression(e.Expr, regionName, e.Source)
	default:
		return nil, &ast.InternalError{Message: "unrecognized region entry"}
	}
}

func (c *context) evaluateExpression(expr ast.BooleanExpr, currentRegion string, source ast.SourceLocation) ([]ast.BoxPair, error) {
	switch e := expr.(type) {
	case ast.RegionRef:
		if e.Name == currentRegion {
			return nil, &ast.SelfReferenceError{Region: currentRegion, Source: source}
		}
		return c.evaluateRegion(e.Name)

	case ast.Union:
		left, err := c.evaluateExpression(e.Left, currentRegion, source)
		if err != nil {
			return nil, err
		}
		right, err := c.evaluateExpression(e.Right, currentRegion, source)
		if err != nil {
			return nil, err
		}
		if err := checkBoxesBounds(left); err != nil {
			return nil, err
		}
		if err := checkBoxesBounds(right); err != nil {
			return nil, err
		}
		return append(left, right...), nil

	case ast.Difference:
		left, right, err := c.evaluateBinary(e.Left, e.Right, currentRegion, source)
		if err != nil {
			return nil, err
		}
		return computeDifference(left, right), nil

	case ast.Intersection:
		left, right, err := c.evaluateBinary(e.Left, e.Right, currentRegion, source)
		if err != nil {
			return nil, err
		}
		return computeIntersection(left, right), nil

	case ast.Xor:
		left, right, err := c.evaluateBinary(e.Left, e.Right, currentRegion, source)
		if err != nil {
			return nil, err
		}
		return computeXor(left, right), nil

	default:
		return nil, &ast.InternalError{Message: "unrecognized boolean expression"}
	}
}

func (c *context) evaluateBinary(leftExpr, rightExpr ast.BooleanExpr, currentRegion string, source ast.SourceLocation) ([]ast.BoxPair, []ast.BoxPair, error) {
	left, err := c.evaluateExpression(leftExpr, currentRegion, source)
	if err != nil {
		return nil, nil, err
	}
	right, err := c.evaluateExpression(rightExpr, currentRegion, source)
	if err != nil {
		return nil, nil, err
	}
	if err := checkBoxesBounds(left); err != nil {
		return nil, nil, err
	}
	if err := checkBoxesBounds(right); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func checkBoxesBounds(boxes []ast.BoxPair) error {
	for _, b := range boxes {
		for i := 0; i < 3; i++ {
			if isOverflowed(b.Min[i]) || isOverflowed(b.Max[i]) {
				return &ast.InternalError{Message: "coordinate overflow detected"}
			}
		}
	}
	return nil
}

func isOverflowed(v int32) bool {
	return v == math.MinInt32 || v == math.MaxInt32
}

// computeDifference returns every part of left that does not overlap
// any box in right.
func computeDifference(left, right []ast.BoxPair) []ast.BoxPair {
	if len(right) == 0 {
		return append([]ast.BoxPair(nil), left...)
	}

	var result []ast.BoxPair
	for _, leftBox := range left {
		remaining := []ast.BoxPair{leftBox}
		for _, rightBox := range right {
			var next []ast.BoxPair
			for _, cur := range remaining {
				next = append(next, subtractBox(cur, rightBox)...)
			}
			remaining = next
		}
		result = append(result, remaining...)
	}
	return result
}

func computeIntersection(left, right []ast.BoxPair) []ast.BoxPair {
	var result []ast.BoxPair
	for _, l := range left {
		for _, r := range right {
			if box, ok := intersectBoxes(l, r); ok {
				result = append(result, box)
			}
		}
	}
	return result
}

func computeXor(left, right []ast.BoxPair) []ast.BoxPair {
	result := computeDifference(left, right)
	result = append(result, computeDifference(right, left)...)
	return result
}

// subtractBox splits 'from' into up to six axis-aligned boxes covering
// the parts that don't overlap 'subtract'. Order is -X, +X, -Y, +Y,
// -Z, +Z, matching the original's slicing order.
func subtractBox(from, subtract ast.BoxPair) []ast.BoxPair {
	if !boxesIntersect(from, subtract) {
		return []ast.BoxPair{from}
	}

	fromMin, fromMax := from.Min, from.Max
	subMin, subMax := subtract.Min, subtract.Max

	var result []ast.BoxPair

	if fromMin[0] < subMin[0] {
		result = append(result, ast.BoxPair{
			Min: fromMin,
			Max: ast.Vec3{subMin[0] - 1, fromMax[1], fromMax[2]},
		})
	}
	if fromMax[0] > subMax[0] {
		result = append(result, ast.BoxPair{
			Min: ast.Vec3{subMax[0] + 1, fromMin[1], fromMin[2]},
			Max: fromMax,
		})
	}

	xMin := max32(fromMin[0], subMin[0])
	xMax := min32(fromMax[0], subMax[0])

	if fromMin[1] < subMin[1] {
		result = append(result, ast.BoxPair{
			Min: ast.Vec3{xMin, fromMin[1], fromMin[2]},
			Max: ast.Vec3{xMax, subMin[1] - 1, fromMax[2]},
		})
	}
	if fromMax[1] > subMax[1] {
		result = append(result, ast.BoxPair{
			Min: ast.Vec3{xMin, subMax[1] + 1, fromMin[2]},
			Max: ast.Vec3{xMax, fromMax[1], fromMax[2]},
		})
	}

	yMin := max32(fromMin[1], subMin[1])
	yMax := min32(fromMax[1], subMax[1])

	if fromMin[2] < subMin[2] {
		result = append(result, ast.BoxPair{
			Min: ast.Vec3{xMin, yMin, fromMin[2]},
			Max: ast.Vec3{xMax, yMax, subMin[2] - 1},
		})
	}
	if fromMax[2] > subMax[2] {
		result = append(result, ast.BoxPair{
			Min: ast.Vec3{xMin, yMin, subMax[2] + 1},
			Max: ast.Vec3{xMax, yMax, fromMax[2]},
		})
	}

	return result
}

func boxesIntersect(a, b ast.BoxPair) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

func intersectBoxes(a, b ast.BoxPair) (ast.BoxPair, bool) {
	min := ast.Vec3{max32(a.Min[0], b.Min[0]), max32(a.Min[1], b.Min[1]), max32(a.Min[2], b.Min[2])}
	max := ast.Vec3{min32(a.Max[0], b.Max[0]), min32(a.Max[1], b.Max[1]), min32(a.Max[2], b.Max[2])}

	if min[0] <= max[0] && min[1] <= max[1] && min[2] <= max[2] {
		return ast.BoxPair{Min: min, Max: max}, true
	}
	return ast.BoxPair{}, false
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
