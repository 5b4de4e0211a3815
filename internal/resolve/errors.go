package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentity reports an identity value of the wrong shape.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrSchemaMismatch reports a referenced column that a table lacks.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidAttribute reports a repeatable attribute that is null or not a scalar.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// InvalidIdentityError describes the offending row of an identity failure.
type InvalidIdentityError struct {
	Table  string
	Row    int
	Column string
	Reason string
}

func (e *InvalidIdentityError) Error() string {
	return fmt.Sprintf("invalid identity: %s row %d column %q: %s", e.Table, e.Row, e.Column, e.Reason)
}

func (e *InvalidIdentityError) Unwrap() error { return ErrInvalidIdentity }

// SchemaMismatchError names the table and the column it is missing.
type SchemaMismatchError struct {
	Table  string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: table %s has no column %q", e.Table, e.Column)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// AttributeError describes a pair row whose attribute cannot become a
// dimension value. Callers are expected to filter nulls beforehand.
type AttributeError struct {
	Table     string
	Row       int
	Attribute string
	Value     any
}

func (e *AttributeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid attribute: %s row %d: %q is null", e.Table, e.Row, e.Attribute)
	}
	return fmt.Sprintf("invalid attribute: %s row %d: %q holds non-scalar %T", e.Table, e.Row, e.Attribute, e.Value)
}

func (e *AttributeError) Unwrap() error { return ErrInvalidAttribute }
