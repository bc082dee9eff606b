package pgstore

import (
	"fmt"
	"strings"

	"github.com/lazyrest/lazyrest/store"
)

// buildWhere renders the filter and search clauses as a WHERE fragment
// with positional parameters, empty when there are no clauses.
func (q *query) buildWhere() (string, []interface{}, error) {
	var parts []string
	var args []interface{}
	counter := 1

	for _, c := range q.conds {
		if err := q.store.validateColumn(c.field); err != nil {
			return "", nil, err
		}
		sqlText, err := conditionSQL(c, &counter, &args)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sqlText)
	}

	for _, s := range q.searches {
		var ors []string
		for _, sf := range s.fields {
			if err := q.store.validateColumn(sf.Field); err != nil {
				return "", nil, err
			}
			sqlText, err := conditionSQL(condition{field: sf.Field, lookup: sf.Lookup, value: s.term}, &counter, &args)
			if err != nil {
				return "", nil, err
			}
			ors = append(ors, sqlText)
		}
		if len(ors) > 0 {
			parts = append(parts, fmt.Sprintf("(%s)", strings.Join(ors, " OR ")))
		}
	}

	if len(parts) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// conditionSQL renders one lookup as a parameterized SQL fragment.
func conditionSQL(c condition, counter *int, args *[]interface{}) (string, error) {
	next := func(v interface{}) string {
		*args = append(*args, v)
		placeholder := fmt.Sprintf("$%d", *counter)
		*counter++
		return placeholder
	}

	switch c.lookup {
	case "exact", "":
		return fmt.Sprintf("%s = %s", c.field, next(c.value)), nil
	case "iexact":
		return fmt.Sprintf("LOWER(%s::text) = LOWER(%s)", c.field, next(c.value)), nil
	case "contains":
		return fmt.Sprintf("%s::text LIKE '%%' || %s || '%%'", c.field, next(c.value)), nil
	case "icontains":
		return fmt.Sprintf("%s::text ILIKE '%%' || %s || '%%'", c.field, next(c.value)), nil
	case "startswith":
		return fmt.Sprintf("%s::text LIKE %s || '%%'", c.field, next(c.value)), nil
	case "istartswith":
		return fmt.Sprintf("%s::text ILIKE %s || '%%'", c.field, next(c.value)), nil
	case "in":
		values := splitList(c.value)
		if len(values) == 0 {
			// IN with an empty list matches nothing
			return "FALSE", nil
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = next(v)
		}
		return fmt.Sprintf("%s IN (%s)", c.field, strings.Join(placeholders, ", ")), nil
	case "lt":
		return fmt.Sprintf("%s < %s", c.field, next(c.value)), nil
	case "lte":
		return fmt.Sprintf("%s <= %s", c.field, next(c.value)), nil
	case "gt":
		return fmt.Sprintf("%s > %s", c.field, next(c.value)), nil
	case "gte":
		return fmt.Sprintf("%s >= %s", c.field, next(c.value)), nil
	case "isnull":
		if isTrue(c.value) {
			return fmt.Sprintf("%s IS NULL", c.field), nil
		}
		return fmt.Sprintf("%s IS NOT NULL", c.field), nil
	default:
		return "", fmt.Errorf("%w: %s", store.ErrInvalidLookup, c.lookup)
	}
}

// buildOrderBy renders the ordering fields, a leading '-' meaning DESC.
func (q *query) buildOrderBy() (string, error) {
	if len(q.ordering) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(q.ordering))
	for _, field := range q.ordering {
		direction := "ASC"
		name := field
		if strings.HasPrefix(name, "-") {
			name = name[1:]
			direction = "DESC"
		}
		if err := q.store.validateColumn(name); err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, direction))
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// splitList turns an "in" lookup value into its candidates. String values
// split on commas; slices pass through.
func splitList(v interface{}) []interface{} {
	switch val := v.(type) {
	case []interface{}:
		return val
	case []string:
		out := make([]interface{}, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		parts := strings.Split(val, ",")
		out := make([]interface{}, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	default:
		return []interface{}{v}
	}
}

func isTrue(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "1"
	default:
		return false
	}
}
