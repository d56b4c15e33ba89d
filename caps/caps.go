// Package caps holds the compiler's build-time capability flags, the
// runtime generalization of spec.md's single "boolean_ops" capability
// flag. Capabilities is an immutable value threaded explicitly through
// Compile; there is no process-wide mutable state.
package caps

// Capabilities controls which optional grammar and evaluator features are
// active for a single Compile call.
type Capabilities struct {
	// BooleanOps enables parsing and evaluation of the '-', '&', '^'
	// boolean operators. When false, encountering one of them yields
	// an UnsupportedOperator error; '+' is always available.
	BooleanOps bool `yaml:"booleanOps"`
}

// Default returns the built-in capability set: boolean_ops enabled.
func Default() Capabilities {
	return Capabilities{BooleanOps: true}
}

// Apply overrides base with any explicitly-set fields from overlay.
// Capabilities currently has a single boolean field, so "explicitly set"
// means true; a false overlay never downgrades a true base. Callers that
// want to disable a capability should construct a fresh Capabilities
// rather than overlay one.
func (c *Capabilities) Apply(overlay Capabilities) {
	if overlay.BooleanOps {
		c.BooleanOps = true
	}
}
