package ast

// MetadataAssignment records a value applied to a region's metadata key,
// with the source location that set it (needed for conflict diagnostics).
type MetadataAssignment struct {
	Value  any
	Source SourceLocation
}

// EvaluatedRegion is a region after geometry evaluation and metadata
// application: its boxes (if it has any — a region can be metadata-only)
// and its metadata keys.
type EvaluatedRegion struct {
	Boxes    []BoxPair
	HasBoxes bool
	Metadata map[string]MetadataAssignment
}

// EvaluatedRegionTable maps region key to its evaluated form.
type EvaluatedRegionTable struct {
	entries map[string]*EvaluatedRegion
	keys    []string
}

func NewEvaluatedRegionTable() *EvaluatedRegionTable {
	return &EvaluatedRegionTable{entries: make(map[string]*EvaluatedRegion)}
}

func (t *EvaluatedRegionTable) GetOrCreate(key string) *EvaluatedRegion {
	e, ok := t.entries[key]
	if !ok {
		e = &EvaluatedRegion{Metadata: make(map[string]MetadataAssignment)}
		t.entries[key] = e
		t.keys = append(t.keys, key)
	}
	return e
}

func (t *EvaluatedRegion) SetBoxes(boxes []BoxPair) {
	t.Boxes = boxes
	t.HasBoxes = true
}

func (t *EvaluatedRegionTable) Get(key string) (*EvaluatedRegion, bool) {
	e, ok := t.entries[key]
	return e, ok
}

func (t *EvaluatedRegionTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// DslEntry is the per-region shape of the final output document: the
// region's bounding boxes (omitted entirely when absent) and its
// metadata, keyed by metadata key.
type DslEntry struct {
	BoundingBoxes []BoxPair      `json:"bounding_boxes,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// DslMap is the compiled output: region key to its entry. Serialization
// order is computed at marshal time (I7), not carried here.
type DslMap map[string]DslEntry
