package query

import (
	"fmt"
	"strings"
	"time"
)

// Condition represents a WHERE clause condition.
// Implementations generate SQL fragments for a dialect and can also be
// evaluated against an in-memory row so that every store backend shares
// one filter vocabulary.
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (p0, p1, etc.)
	SQL(d Dialect, paramIndex int) (string, map[string]interface{})

	// Match reports whether the row satisfies the condition.
	Match(row map[string]interface{}) bool
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("color_id", 4) generates "color_id = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: Normalize(value),
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(d Dialect, paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s = %s", c.field, d.Placeholder(paramName))
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// Match compares the normalized row value with the condition value.
func (c *eqCondition) Match(row map[string]interface{}) bool {
	v, ok := row[c.field]
	if !ok || v == nil {
		return false
	}
	return Normalize(v) == c.value
}

// inCondition implements set membership (field IN (...)).
type inCondition[T comparable] struct {
	field  string
	values []T
}

// In creates a WHERE condition matching rows whose field is one of values.
// Spanner renders "field IN UNNEST(@p0)", Postgres renders "field IN (:p0)"
// which the Postgres store expands. An empty set matches nothing and renders
// a constant false predicate with no parameters.
func In[T comparable](field string, values []T) Condition {
	cp := make([]T, len(values))
	copy(cp, values)
	return &inCondition[T]{field: field, values: cp}
}

// SQL generates the SQL fragment for set membership.
func (c *inCondition[T]) SQL(d Dialect, paramIndex int) (string, map[string]interface{}) {
	if len(c.values) == 0 {
		return "1 = 0", map[string]interface{}{}
	}
	paramName := fmt.Sprintf("p%d", paramIndex)
	var sql string
	switch d {
	case Postgres:
		sql = fmt.Sprintf("%s IN (%s)", c.field, d.Placeholder(paramName))
	default:
		sql = fmt.Sprintf("%s IN UNNEST(%s)", c.field, d.Placeholder(paramName))
	}
	return sql, map[string]interface{}{paramName: c.values}
}

// Match reports whether the row value is a member of the set.
func (c *inCondition[T]) Match(row map[string]interface{}) bool {
	v, ok := row[c.field]
	if !ok || v == nil {
		return false
	}
	v = Normalize(v)
	for _, candidate := range c.values {
		if Normalize(candidate) == v {
			return true
		}
	}
	return false
}

// ltCondition implements strict less-than comparison (field < value).
type ltCondition struct {
	field string
	value interface{}
}

// Lt creates a WHERE condition for strict less-than comparison.
// Supported value kinds are integers, floats, strings and time.Time.
func Lt(field string, value interface{}) Condition {
	return &ltCondition{field: field, value: Normalize(value)}
}

// SQL generates the SQL fragment for less-than comparison.
func (c *ltCondition) SQL(d Dialect, paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s < %s", c.field, d.Placeholder(paramName))
	return sql, map[string]interface{}{paramName: c.value}
}

// Match compares values of the same kind; mismatched kinds never match.
func (c *ltCondition) Match(row map[string]interface{}) bool {
	v, ok := row[c.field]
	if !ok || v == nil {
		return false
	}
	switch left := Normalize(v).(type) {
	case int64:
		right, ok := c.value.(int64)
		return ok && left < right
	case float64:
		right, ok := c.value.(float64)
		return ok && left < right
	case string:
		right, ok := c.value.(string)
		return ok && strings.Compare(left, right) < 0
	case time.Time:
		right, ok := c.value.(time.Time)
		return ok && left.Before(right)
	}
	return false
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("size_id") generates "size_id IS NULL"
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

// isNullCondition implements IS NULL comparison.
type isNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NULL comparison.
func (c *isNullCondition) SQL(_ Dialect, _ int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NULL", c.field), map[string]interface{}{}
}

// Match treats a missing column as NULL.
func (c *isNullCondition) Match(row map[string]interface{}) bool {
	return Normalize(row[c.field]) == nil
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
// Example: IsNotNull("size_id") generates "size_id IS NOT NULL"
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

// isNotNullCondition implements IS NOT NULL comparison.
type isNotNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NOT NULL comparison.
func (c *isNotNullCondition) SQL(_ Dialect, _ int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NOT NULL", c.field), map[string]interface{}{}
}

// Match reports whether the column holds a non-NULL value.
func (c *isNotNullCondition) Match(row map[string]interface{}) bool {
	return Normalize(row[c.field]) != nil
}

// MatchAll reports whether row satisfies every condition.
func MatchAll(row map[string]interface{}, conds ...Condition) bool {
	for _, cond := range conds {
		if !cond.Match(row) {
			return false
		}
	}
	return true
}

// Normalize folds Go values into the canonical kinds stored in rows:
// signed and unsigned integers become int64, float32 becomes float64,
// []byte becomes string and nil pointers become nil.
func Normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	case *bool:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}
