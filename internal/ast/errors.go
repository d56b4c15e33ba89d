package ast

import "fmt"

// ErrorKind classifies a CompileError the way spec.md section 7 enumerates
// error kinds. Go has no sum types, so each kind is both a distinct struct
// (for typed access to its fields via errors.As) and a member of this
// closed enum (for quick dispatch without a type switch).
type ErrorKind int

const (
	KindExpected ErrorKind = iota
	KindUnexpectedEnd
	KindInvalidInteger
	KindEmptyExpression
	KindUnsupportedOperator
	KindMixedRegionMode
	KindDuplicateRegionDefinition
	KindUnknownRegion
	KindSelfReference
	KindCycleDetected
	KindMetadataConflict
	KindNoCurrentRegion
	KindInternal
)

// CompileError is implemented by every typed error insign can return.
type CompileError interface {
	error
	Kind() ErrorKind
}

// ExpectedError: the parser could not match a required token.
type ExpectedError struct {
	Expected string
	Found    string
	Position int
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("expected %s at position %d, but found %q", e.Expected, e.Position, e.Found)
}
func (e *ExpectedError) Kind() ErrorKind { return KindExpected }

// UnexpectedEndError: input exhausted while expecting a token.
type UnexpectedEndError struct {
	Expected string
	Position int
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("expected %s at position %d, but reached end of input", e.Expected, e.Position)
}
func (e *UnexpectedEndError) Kind() ErrorKind { return KindUnexpectedEnd }

// InvalidIntegerError: a numeral token failed to parse as an integer.
type InvalidIntegerError struct {
	Position int
	Cause    error
}

func (e *InvalidIntegerError) Error() string {
	return fmt.Sprintf("invalid integer at position %d: %v", e.Position, e.Cause)
}
func (e *InvalidIntegerError) Kind() ErrorKind { return KindInvalidInteger }
func (e *InvalidIntegerError) Unwrap() error   { return e.Cause }

// EmptyExpressionError: a region reference was expected but nothing was there.
type EmptyExpressionError struct {
	Position int
}

func (e *EmptyExpressionError) Error() string {
	return fmt.Sprintf("empty expression at position %d", e.Position)
}
func (e *EmptyExpressionError) Kind() ErrorKind { return KindEmptyExpression }

// UnsupportedOperatorError: a boolean operator was used without the
// boolean_ops capability enabled.
type UnsupportedOperatorError struct {
	Position int
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("operator %q at position %d requires the boolean_ops capability", e.Operator, e.Position)
}
func (e *UnsupportedOperatorError) Kind() ErrorKind { return KindUnsupportedOperator }

// MixedRegionModeError: a region name was used as both an accumulator and
// a defined (expression-valued) region.
type MixedRegionModeError struct {
	Region             string
	AccumulatorSources []SourceLocation
	DefinedSource      SourceLocation
}

func (e *MixedRegionModeError) Error() string {
	return fmt.Sprintf(
		"region %q cannot be both accumulator and defined: accumulator sources %v, defined source %v",
		e.Region, e.AccumulatorSources, e.DefinedSource,
	)
}
func (e *MixedRegionModeError) Kind() ErrorKind { return KindMixedRegionMode }

// DuplicateRegionDefinitionError: a Defined region was declared twice.
type DuplicateRegionDefinitionError struct {
	Region           string
	FirstSource      SourceLocation
	DuplicateSource  SourceLocation
}

func (e *DuplicateRegionDefinitionError) Error() string {
	return fmt.Sprintf(
		"region %q defined multiple times: first at %v, duplicate at %v",
		e.Region, e.FirstSource, e.DuplicateSource,
	)
}
func (e *DuplicateRegionDefinitionError) Kind() ErrorKind { return KindDuplicateRegionDefinition }

// UnknownRegionError: an expression referenced a region that doesn't exist.
type UnknownRegionError struct {
	Region string
	Source SourceLocation
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %q referenced at %v", e.Region, e.Source)
}
func (e *UnknownRegionError) Kind() ErrorKind { return KindUnknownRegion }

// SelfReferenceError: a Defined region's expression references itself.
type SelfReferenceError struct {
	Region string
	Source SourceLocation
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("self-reference detected: region %q references itself at %v", e.Region, e.Source)
}
func (e *SelfReferenceError) Kind() ErrorKind { return KindSelfReference }

// CycleDetectedError: the Defined-region reference graph has a cycle.
type CycleDetectedError struct {
	Cycle []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected in region dependencies: %v", e.Cycle)
}
func (e *CycleDetectedError) Kind() ErrorKind { return KindCycleDetected }

// MetadataConflictError: a region/key was assigned two non-equal values.
type MetadataConflictError struct {
	Region         string
	Key            string
	FirstValue     any
	FirstSource    SourceLocation
	ConflictValue  any
	ConflictSource SourceLocation
}

func (e *MetadataConflictError) Error() string {
	return fmt.Sprintf(
		"metadata conflict for region %q key %q: %v at %v vs %v at %v",
		e.Region, e.Key, e.FirstValue, e.FirstSource, e.ConflictValue, e.ConflictSource,
	)
}
func (e *MetadataConflictError) Kind() ErrorKind { return KindMetadataConflict }

// NoCurrentRegionError: a current-form metadata statement has no geometry
// statement in its tuple to attach to.
type NoCurrentRegionError struct {
	Source SourceLocation
}

func (e *NoCurrentRegionError) Error() string {
	return fmt.Sprintf("no current region for metadata statement at %v", e.Source)
}
func (e *NoCurrentRegionError) Kind() ErrorKind { return KindNoCurrentRegion }

// InternalError: coordinate overflow or an invariant violation.
type InternalError struct {
	Message  string
	Position int
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}
func (e *InternalError) Kind() ErrorKind { return KindInternal }
