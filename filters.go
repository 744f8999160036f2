package querykit

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/hugr-lab/querykit-go/expr"
)

// WhereOrConditions combines the fragments with OR and adds the result as a
// single filter stage. Fragments may use different placeholder names; they
// are unified before combination. No fragments matches everything.
func (s *Source) WhereOrConditions(fragments ...expr.Predicate) *Source {
	p, err := expr.Combine(expr.LogicalOr, fragments...)
	if err != nil {
		return s.fail(err)
	}
	return s.Where(p)
}

// WhereAndConditions combines the fragments with AND and adds the result as
// a single filter stage.
func (s *Source) WhereAndConditions(fragments ...expr.Predicate) *Source {
	p, err := expr.Combine(expr.LogicalAnd, fragments...)
	if err != nil {
		return s.fail(err)
	}
	return s.Where(p)
}

// WhereDateTimeBetween filters rows whose timestamp field lies within
// [from, to], both endpoints inclusive.
func (s *Source) WhereDateTimeBetween(field expr.Accessor, from, to time.Time) *Source {
	return s.Where(expr.Between(field, expr.TimestampValue(from), expr.TimestampValue(to)))
}

// WhereAnyPropertyContainsText filters rows where at least one of the given
// string fields contains the search text. No fields matches nothing.
func (s *Source) WhereAnyPropertyContainsText(searchText string, fields ...expr.Accessor) *Source {
	p, err := expr.ContainsAnyText(searchText, fields...)
	if err != nil {
		return s.fail(err)
	}
	return s.Where(p)
}

// WhereIntersectsBound filters rows whose geometry field intersects the
// given bounding box.
func (s *Source) WhereIntersectsBound(field expr.Accessor, bound orb.Bound) *Source {
	p, err := expr.IntersectsBound(field, bound)
	if err != nil {
		return s.fail(err)
	}
	return s.Where(p)
}
