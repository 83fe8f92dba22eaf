// Package query evaluates query descriptors over records held in memory.
// Embedded stores use it to answer reads; network stores translate the same
// descriptors into their own query language instead.
package query

import (
	"github.com/adfharrison1/go-baas/pkg/domain"
)

// MatchesFilter reports whether doc satisfies f. A missing field never matches.
func MatchesFilter(doc domain.Document, f domain.Filter) bool {
	actual, exists := doc[f.Field]
	if !exists {
		return false
	}

	switch f.Op {
	case domain.OpEqual:
		return ValuesEqual(actual, f.Value)
	case domain.OpNotEqual:
		return actual != nil && !ValuesEqual(actual, f.Value)
	case domain.OpGreaterThan:
		c, ok := compareSameClass(actual, f.Value)
		return ok && c > 0
	case domain.OpGreaterThanOrEqual:
		c, ok := compareSameClass(actual, f.Value)
		return ok && c >= 0
	case domain.OpLessThan:
		c, ok := compareSameClass(actual, f.Value)
		return ok && c < 0
	case domain.OpLessThanOrEqual:
		c, ok := compareSameClass(actual, f.Value)
		return ok && c <= 0
	case domain.OpArrayContains:
		return containsValue(actual, f.Value)
	case domain.OpArrayContainsAny:
		wanted, _ := domain.Sequence(f.Value)
		for _, w := range wanted {
			if containsValue(actual, w) {
				return true
			}
		}
		return false
	case domain.OpIn:
		candidates, _ := domain.Sequence(f.Value)
		return anyEqual(actual, candidates)
	case domain.OpNotIn:
		candidates, _ := domain.Sequence(f.Value)
		return actual != nil && !anyEqual(actual, candidates)
	case domain.OpIsNull:
		return actual == nil
	case domain.OpIsNotNull:
		return actual != nil
	default:
		return false
	}
}

// MatchesAll reports whether doc satisfies every filter.
func MatchesAll(doc domain.Document, filters []domain.Filter) bool {
	for _, f := range filters {
		if !MatchesFilter(doc, f) {
			return false
		}
	}
	return true
}

func containsValue(field, value interface{}) bool {
	elems, ok := domain.Sequence(field)
	if !ok {
		return false
	}
	return anyEqual(value, elems)
}

func anyEqual(v interface{}, candidates []interface{}) bool {
	for _, c := range candidates {
		if ValuesEqual(v, c) {
			return true
		}
	}
	return false
}
