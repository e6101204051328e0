package memrepo

import (
	"regexp"
	"strings"

	"github.com/wyverndb/wyvern/filter"
)

// evalCondition applies one condition to a field value with SQL
// three-valued logic collapsed to a boolean: a comparison against a nil
// field value is not a match, matching the behavior of NULL in a WHERE
// clause.
func evalCondition(value any, cond filter.Condition) bool {
	switch cond.Operator {
	case filter.OpIsNull:
		return value == nil
	case filter.OpIsNotNull:
		return value != nil
	}

	if value == nil {
		return false
	}

	switch cond.Operator {
	case filter.OpEqual:
		return equalValues(value, cond.Value)
	case filter.OpNotEqual:
		return !equalValues(value, cond.Value)
	case filter.OpGreaterThan:
		cmp, ok := compareValues(value, cond.Value)
		return ok && cmp > 0
	case filter.OpGreaterThanOrEqual:
		cmp, ok := compareValues(value, cond.Value)
		return ok && cmp >= 0
	case filter.OpLessThan:
		cmp, ok := compareValues(value, cond.Value)
		return ok && cmp < 0
	case filter.OpLessThanOrEqual:
		cmp, ok := compareValues(value, cond.Value)
		return ok && cmp <= 0
	case filter.OpLike:
		return likeMatch(value, cond.Value)
	case filter.OpNotLike:
		return !likeMatch(value, cond.Value)
	case filter.OpIn:
		for _, candidate := range cond.Value.([]any) {
			if equalValues(value, candidate) {
				return true
			}
		}
		return false
	case filter.OpNotIn:
		for _, candidate := range cond.Value.([]any) {
			if equalValues(value, candidate) {
				return false
			}
		}
		return true
	}
	return false
}

// equalValues compares two scalars, treating all numeric kinds as one
// domain so that int(18) equals int64(18) the way it does in SQL.
func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

// compareValues orders two scalars, returning false when they are not
// comparable.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	as, ok := a.(string)
	if !ok {
		return 0, false
	}
	bs, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(as, bs), true
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// likeMatch evaluates a SQL LIKE pattern: % matches any run of
// characters, _ matches exactly one.
func likeMatch(value, pattern any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	p, ok := pattern.(string)
	if !ok {
		return false
	}

	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	for _, r := range p {
		switch r {
		case '%':
			sb.WriteString(`.*`)
		case '_':
			sb.WriteString(`.`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`$`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(s)
}
