// Package filtering derives per-model filter sets from declarative filter
// specifications. A specification maps field names to either a list of
// permitted comparison operators or a custom predicate; the derived filter
// set turns those into query parameters applied against a store.Queryable.
package filtering

import (
	"fmt"

	"github.com/lazyrest/lazyrest/store"
)

// Operator represents a comparison operator permitted on a filter field.
type Operator int

const (
	OpExact Operator = iota
	OpIExact
	OpContains
	OpIContains
	OpStartsWith
	OpIStartsWith
	OpIn
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpIsNull
)

// Lookup returns the lookup name of the operator, as used in query
// parameters and at the store boundary.
func (o Operator) Lookup() string {
	switch o {
	case OpExact:
		return "exact"
	case OpIExact:
		return "iexact"
	case OpContains:
		return "contains"
	case OpIContains:
		return "icontains"
	case OpStartsWith:
		return "startswith"
	case OpIStartsWith:
		return "istartswith"
	case OpIn:
		return "in"
	case OpLessThan:
		return "lt"
	case OpLessThanOrEqual:
		return "lte"
	case OpGreaterThan:
		return "gt"
	case OpGreaterThanOrEqual:
		return "gte"
	case OpIsNull:
		return "isnull"
	default:
		return "unknown"
	}
}

// String returns the lookup name of the operator.
func (o Operator) String() string {
	return o.Lookup()
}

// ParseLookup converts a lookup name to an Operator.
func ParseLookup(s string) (Operator, error) {
	switch s {
	case "exact":
		return OpExact, nil
	case "iexact":
		return OpIExact, nil
	case "contains":
		return OpContains, nil
	case "icontains":
		return OpIContains, nil
	case "startswith":
		return OpStartsWith, nil
	case "istartswith":
		return OpIStartsWith, nil
	case "in":
		return OpIn, nil
	case "lt":
		return OpLessThan, nil
	case "lte":
		return OpLessThanOrEqual, nil
	case "gt":
		return OpGreaterThan, nil
	case "gte":
		return OpGreaterThanOrEqual, nil
	case "isnull":
		return OpIsNull, nil
	default:
		return 0, fmt.Errorf("%w: %s", store.ErrInvalidLookup, s)
	}
}
