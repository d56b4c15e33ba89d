package ast

import "encoding/json"

// Vec3 is a triple of signed 32-bit integers.
type Vec3 [3]int32

// BoxPair is an ordered (min, max) pair of corners, inclusive on both
// ends. A well-formed BoxPair always satisfies Min[i] <= Max[i] on every
// axis; NormalizeBox is the only place that invariant should be
// established.
type BoxPair struct {
	Min Vec3
	Max Vec3
}

// NormalizeBox builds a BoxPair from two arbitrary corners, ensuring
// Min[i] <= Max[i] on every axis independently.
func NormalizeBox(a, b Vec3) BoxPair {
	var min, max Vec3
	for i := 0; i < 3; i++ {
		if a[i] <= b[i] {
			min[i], max[i] = a[i], b[i]
		} else {
			min[i], max[i] = b[i], a[i]
		}
	}
	return BoxPair{Min: min, Max: max}
}

// Translate returns a copy of v translated by offset.
func (v Vec3) Translate(offset Vec3) Vec3 {
	return Vec3{v[0] + offset[0], v[1] + offset[1], v[2] + offset[2]}
}

// MarshalJSON emits a BoxPair as the two-corner tuple [min, max]
// required by spec.md section 6, rather than the default
// {"Min":...,"Max":...} struct encoding.
func (b BoxPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Vec3{b.Min, b.Max})
}

// UnmarshalJSON parses the [min, max] tuple form back into a BoxPair.
func (b *BoxPair) UnmarshalJSON(data []byte) error {
	var corners [2]Vec3
	if err := json.Unmarshal(data, &corners); err != nil {
		return err
	}
	b.Min, b.Max = corners[0], corners[1]
	return nil
}
