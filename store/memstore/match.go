package memstore

import (
	"strconv"
	"strings"
)

// match evaluates a lookup against an in-memory value. Values compare
// numerically when both sides parse as numbers, as strings otherwise.
func match(value interface{}, lookup string, arg interface{}) bool {
	v := stringify(value)
	a := stringify(arg)

	switch lookup {
	case "exact", "":
		return compareValues(value, arg) == 0
	case "iexact":
		return strings.EqualFold(v, a)
	case "contains":
		return strings.Contains(v, a)
	case "icontains":
		return strings.Contains(strings.ToLower(v), strings.ToLower(a))
	case "startswith":
		return strings.HasPrefix(v, a)
	case "istartswith":
		return strings.HasPrefix(strings.ToLower(v), strings.ToLower(a))
	case "in":
		for _, candidate := range strings.Split(a, ",") {
			if strings.TrimSpace(candidate) == v {
				return true
			}
		}
		return false
	case "lt":
		return compareValues(value, arg) < 0
	case "lte":
		return compareValues(value, arg) <= 0
	case "gt":
		return compareValues(value, arg) > 0
	case "gte":
		return compareValues(value, arg) >= 0
	case "isnull":
		wantNull := a == "true" || a == "1"
		return (value == nil) == wantNull
	default:
		return false
	}
}

// compareValues orders two values: -1, 0 or 1.
func compareValues(left, right interface{}) int {
	lv, lok := toFloat(left)
	rv, rok := toFloat(right)
	if lok && rok {
		switch {
		case lv < rv:
			return -1
		case lv > rv:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(stringify(left), stringify(right))
}

// compare is compareValues with nil ordered first.
func compare(left, right interface{}) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return -1
	}
	if right == nil {
		return 1
	}
	return compareValues(left, right)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	f, err := strconv.ParseFloat(stringify(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
