package filter

// Operator identifies the comparison a Condition applies to its field.
type Operator string

const (
	OpEqual              Operator = "eq"
	OpNotEqual           Operator = "ne"
	OpGreaterThan        Operator = "gt"
	OpGreaterThanOrEqual Operator = "gte"
	OpLessThan           Operator = "lt"
	OpLessThanOrEqual    Operator = "lte"
	OpLike               Operator = "like"
	OpNotLike            Operator = "nlike"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "nin"
	OpIsNull             Operator = "null"
	OpIsNotNull          Operator = "notnull"
)

// Condition is a single field-operator-value predicate.
//
// Value may be nil, a bool, string, any integer or float kind, or a []any
// of those scalars for OpIn/OpNotIn. OpIsNull and OpIsNotNull require a
// nil Value.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// Eq matches rows whose field equals value.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Operator: OpEqual, Value: value}
}

// Ne matches rows whose field does not equal value.
func Ne(field string, value any) Condition {
	return Condition{Field: field, Operator: OpNotEqual, Value: value}
}

// Gt matches rows whose field is greater than value.
func Gt(field string, value any) Condition {
	return Condition{Field: field, Operator: OpGreaterThan, Value: value}
}

// Gte matches rows whose field is greater than or equal to value.
func Gte(field string, value any) Condition {
	return Condition{Field: field, Operator: OpGreaterThanOrEqual, Value: value}
}

// Lt matches rows whose field is less than value.
func Lt(field string, value any) Condition {
	return Condition{Field: field, Operator: OpLessThan, Value: value}
}

// Lte matches rows whose field is less than or equal to value.
func Lte(field string, value any) Condition {
	return Condition{Field: field, Operator: OpLessThanOrEqual, Value: value}
}

// Like matches rows whose field matches the SQL LIKE pattern.
func Like(field string, pattern string) Condition {
	return Condition{Field: field, Operator: OpLike, Value: pattern}
}

// NotLike matches rows whose field does not match the SQL LIKE pattern.
func NotLike(field string, pattern string) Condition {
	return Condition{Field: field, Operator: OpNotLike, Value: pattern}
}

// In matches rows whose field equals one of values.
func In(field string, values ...any) Condition {
	return Condition{Field: field, Operator: OpIn, Value: values}
}

// NotIn matches rows whose field equals none of values.
func NotIn(field string, values ...any) Condition {
	return Condition{Field: field, Operator: OpNotIn, Value: values}
}

// IsNull matches rows whose field is NULL.
func IsNull(field string) Condition {
	return Condition{Field: field, Operator: OpIsNull}
}

// IsNotNull matches rows whose field is not NULL.
func IsNotNull(field string) Condition {
	return Condition{Field: field, Operator: OpIsNotNull}
}

// SortDirection is the direction of a SortOrder.
type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// SortOrder specifies one ORDER BY entry.
type SortOrder struct {
	Field     string
	Direction SortDirection
}

// Asc sorts by field in ascending order.
func Asc(field string) SortOrder {
	return SortOrder{Field: field, Direction: Ascending}
}

// Desc sorts by field in descending order.
func Desc(field string) SortOrder {
	return SortOrder{Field: field, Direction: Descending}
}

// FilterCriteria is a storage-agnostic description of a filtered, sorted,
// paginated query. Conditions are always AND-joined, in declaration order.
//
// Criteria are built incrementally with the With* methods, each returning
// an updated value. A criteria value must not be mutated concurrently; once
// handed to a Compiler or repository it is treated as immutable.
type FilterCriteria struct {
	Conditions []Condition
	Sorts      []SortOrder
	Limit      *int64
	Offset     *int64
}

// New creates an empty FilterCriteria.
func New() FilterCriteria {
	return FilterCriteria{}
}

// WithCondition appends a condition to the criteria.
func (c FilterCriteria) WithCondition(cond Condition) FilterCriteria {
	c.Conditions = append(c.Conditions[:len(c.Conditions):len(c.Conditions)], cond)
	return c
}

// WithSort appends a sort order to the criteria. Earlier sorts take
// precedence.
func (c FilterCriteria) WithSort(sort SortOrder) FilterCriteria {
	c.Sorts = append(c.Sorts[:len(c.Sorts):len(c.Sorts)], sort)
	return c
}

// WithLimit sets the maximum number of rows to return.
func (c FilterCriteria) WithLimit(limit int64) FilterCriteria {
	c.Limit = &limit
	return c
}

// WithOffset sets the number of rows to skip.
func (c FilterCriteria) WithOffset(offset int64) FilterCriteria {
	c.Offset = &offset
	return c
}
