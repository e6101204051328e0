package filter

import (
	"fmt"
	"strings"
)

var operatorSQL = map[Operator]string{
	OpEqual:              "=",
	OpNotEqual:           "<>",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpLike:               "LIKE",
	OpNotLike:            "NOT LIKE",
	OpIn:                 "IN",
	OpNotIn:              "NOT IN",
	OpIsNull:             "IS NULL",
	OpIsNotNull:          "IS NOT NULL",
}

// Validate checks a criteria without compiling it: condition value shapes,
// column names, sort directions and pagination bounds. Compile runs the
// same checks, so callers that go straight to the compiler don't need to
// call Validate first.
func Validate(criteria FilterCriteria) error {
	for _, cond := range criteria.Conditions {
		if err := validateCondition(cond); err != nil {
			return err
		}
	}
	for _, sort := range criteria.Sorts {
		if err := validateSort(sort); err != nil {
			return err
		}
	}
	if criteria.Limit != nil && *criteria.Limit < 0 {
		return InvalidPaginationError{Clause: "LIMIT", Value: *criteria.Limit}
	}
	if criteria.Offset != nil && *criteria.Offset < 0 {
		return InvalidPaginationError{Clause: "OFFSET", Value: *criteria.Offset}
	}
	return nil
}

func validateCondition(cond Condition) error {
	if !isValidColumn(cond.Field) {
		return InvalidColumnError{Column: cond.Field}
	}
	switch cond.Operator {
	case OpIsNull, OpIsNotNull:
		if cond.Value != nil {
			return InvalidConditionError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "null check must not carry a value",
			}
		}
	case OpIn, OpNotIn:
		list, ok := cond.Value.([]any)
		if !ok || !isScalarSlice(cond.Value) {
			return InvalidConditionError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "value must be a list of scalars",
			}
		}
		if len(list) == 0 {
			return InvalidConditionError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "list must not be empty",
			}
		}
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual,
		OpLessThan, OpLessThanOrEqual, OpLike, OpNotLike:
		if cond.Value == nil {
			return InvalidConditionError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "comparison against null (use IsNull or IsNotNull)",
			}
		}
		if !isScalar(cond.Value) {
			return InvalidConditionError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "value must be a scalar",
			}
		}
	default:
		return UnsupportedOperatorError{Operator: cond.Operator}
	}
	return nil
}

func validateSort(sort SortOrder) error {
	if !isValidColumn(sort.Field) {
		return InvalidColumnError{Column: sort.Field}
	}
	if sort.Direction != Ascending && sort.Direction != Descending {
		return InvalidSortError{
			Field:  sort.Field,
			Reason: fmt.Sprintf("direction must be ASC or DESC, got %q", string(sort.Direction)),
		}
	}
	return nil
}

// Compiler translates a FilterCriteria into a parameterized SQL statement.
//
// A Compiler only reads its inputs and allocates new outputs, so a single
// instance is safe for unlimited concurrent use. The zero value compiles
// with the default PostgreSQL placeholders and no column restrictions.
type Compiler struct {
	placeholder       func(index int) string
	allowedColumns    []string
	disallowedColumns []string
}

// NewCompiler creates a new Compiler.
func NewCompiler(options ...Option) *Compiler {
	compiler := &Compiler{}
	for _, option := range options {
		if option != nil {
			option(compiler)
		}
	}
	return compiler
}

// Compile produces a full SELECT statement for the given table and the
// ordered parameter values for its placeholders. The table name is trusted
// and interpolated as given.
//
// An empty criteria compiles to a bare SELECT with no WHERE clause.
// Identical criteria always compile to byte-identical output.
func (c *Compiler) Compile(table string, criteria FilterCriteria) (string, []any, error) {
	where, values, err := c.CompileWhere(criteria, 1)
	if err != nil {
		return "", nil, err
	}
	tail, err := c.compileTail(criteria)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(tail)
	return sb.String(), values, nil
}

// CompileCount produces a COUNT statement sharing the WHERE clause of
// Compile but without ORDER BY, LIMIT and OFFSET.
func (c *Compiler) CompileCount(table string, criteria FilterCriteria) (string, []any, error) {
	where, values, err := c.CompileWhere(criteria, 1)
	if err != nil {
		return "", nil, err
	}

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	return query, values, nil
}

// CompileWhere produces the bare AND-joined condition text for embedding
// into a caller-assembled statement, numbering placeholders from
// startAtParameterIndex. It returns an empty string for criteria without
// conditions; sorts and pagination are ignored.
func (c *Compiler) CompileWhere(criteria FilterCriteria, startAtParameterIndex int) (string, []any, error) {
	if startAtParameterIndex < 1 {
		return "", nil, ErrInvalidStartIndex
	}

	var conditions []string
	var values []any
	index := startAtParameterIndex
	for _, cond := range criteria.Conditions {
		if err := validateCondition(cond); err != nil {
			return "", nil, err
		}
		if err := c.checkColumnAccess(cond.Field); err != nil {
			return "", nil, err
		}
		op := operatorSQL[cond.Operator]

		switch cond.Operator {
		case OpIsNull, OpIsNotNull:
			conditions = append(conditions, cond.Field+" "+op)

		case OpIn, OpNotIn:
			list := cond.Value.([]any)
			placeholders := make([]string, len(list))
			for i, v := range list {
				placeholders[i] = c.placeholderFor(index)
				values = append(values, v)
				index++
			}
			conditions = append(conditions, fmt.Sprintf("%s %s (%s)", cond.Field, op, strings.Join(placeholders, ", ")))

		default:
			conditions = append(conditions, fmt.Sprintf("%s %s %s", cond.Field, op, c.placeholderFor(index)))
			values = append(values, cond.Value)
			index++
		}
	}

	return strings.Join(conditions, " AND "), values, nil
}

// compileTail renders ORDER BY, LIMIT and OFFSET.
func (c *Compiler) compileTail(criteria FilterCriteria) (string, error) {
	var sb strings.Builder
	for i, sort := range criteria.Sorts {
		if err := validateSort(sort); err != nil {
			return "", err
		}
		if err := c.checkColumnAccess(sort.Field); err != nil {
			return "", err
		}
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(sort.Field)
		sb.WriteString(" ")
		sb.WriteString(string(sort.Direction))
	}
	if criteria.Limit != nil {
		if *criteria.Limit < 0 {
			return "", InvalidPaginationError{Clause: "LIMIT", Value: *criteria.Limit}
		}
		fmt.Fprintf(&sb, " LIMIT %d", *criteria.Limit)
	}
	if criteria.Offset != nil {
		if *criteria.Offset < 0 {
			return "", InvalidPaginationError{Clause: "OFFSET", Value: *criteria.Offset}
		}
		fmt.Fprintf(&sb, " OFFSET %d", *criteria.Offset)
	}
	return sb.String(), nil
}

func (c *Compiler) placeholderFor(index int) string {
	if c.placeholder == nil {
		return postgresPlaceholder(index)
	}
	return c.placeholder(index)
}

func (c *Compiler) checkColumnAccess(column string) error {
	for _, disallowed := range c.disallowedColumns {
		if disallowed == column {
			return ColumnNotAllowedError{Column: column}
		}
	}
	if len(c.allowedColumns) == 0 {
		return nil
	}
	for _, allowed := range c.allowedColumns {
		if allowed == column {
			return nil
		}
	}
	return ColumnNotAllowedError{Column: column}
}
