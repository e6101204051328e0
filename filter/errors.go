package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidStartIndex is returned by CompileWhere when the starting
// parameter index is less than 1.
var ErrInvalidStartIndex = errors.New("startAtParameterIndex must be greater than 0")

// InvalidConditionError reports a condition whose value shape does not fit
// its operator.
type InvalidConditionError struct {
	Field    string
	Operator Operator
	Reason   string
}

func (e InvalidConditionError) Error() string {
	return fmt.Sprintf("invalid condition on field %q: %s", e.Field, e.Reason)
}

// InvalidColumnError reports a field name that is not a plain SQL
// identifier. Field names are interpolated into the statement text, so
// anything beyond letters, digits, underscores and dots is rejected.
type InvalidColumnError struct {
	Column string
}

func (e InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column name: %q", e.Column)
}

// ColumnNotAllowedError reports a field name outside the compiler's
// configured allowlist, or on its denylist.
type ColumnNotAllowedError struct {
	Column string
}

func (e ColumnNotAllowedError) Error() string {
	return fmt.Sprintf("column not allowed: %s", e.Column)
}

// InvalidSortError reports a sort order with an empty field or an unknown
// direction.
type InvalidSortError struct {
	Field  string
	Reason string
}

func (e InvalidSortError) Error() string {
	return fmt.Sprintf("invalid sort on field %q: %s", e.Field, e.Reason)
}

// InvalidPaginationError reports a negative LIMIT or OFFSET.
type InvalidPaginationError struct {
	Clause string
	Value  int64
}

func (e InvalidPaginationError) Error() string {
	return fmt.Sprintf("invalid %s: %d (must be non-negative)", e.Clause, e.Value)
}

// UnsupportedOperatorError reports an operator the compiler has no SQL
// mapping for. It is unreachable through the package's condition
// constructors and exists to fail loudly on a hand-built Condition.
type UnsupportedOperatorError struct {
	Operator Operator
}

func (e UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: %q", string(e.Operator))
}
