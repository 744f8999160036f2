// Package expr provides composable predicate expression trees and their
// translation to DuckDB SQL.
//
// Callers author predicate fragments and field accessors against their own
// placeholder variable; the package unifies the placeholders and merges the
// fragments into a single-parameter tree a data source can translate into a
// filter.
//
// # Fragments and combination
//
// A fragment is a boolean expression over one placeholder:
//
//	john := expr.NewPredicate("x", expr.Equal(
//	    expr.Member(expr.Param("x"), "customer", "first_name"),
//	    expr.Constant(expr.StringValue("John")),
//	))
//	onion := expr.NewPredicate("o", expr.Equal(
//	    expr.Member(expr.Param("o"), "product_name"),
//	    expr.Constant(expr.StringValue("Onion")),
//	))
//
//	// Placeholders are unified automatically.
//	p, err := expr.Combine(expr.LogicalOr, john, onion)
//
// Combining zero fragments yields a constant-TRUE predicate (no restriction);
// a single fragment is returned verbatim.
//
// # Range and substring filters
//
//	created := expr.Field("x", expr.TypeIDTimestamp, "created_at")
//	p := expr.Between(created, expr.TimestampValue(from), expr.TimestampValue(to))
//
//	name := expr.Field("x", expr.TypeIDVarchar, "customer", "first_name")
//	product := expr.Field("x", expr.TypeIDVarchar, "product_name")
//	p, err := expr.ContainsAnyText("e", name, product)
//
// ContainsAnyText with zero accessors matches nothing (the empty
// disjunction), the opposite of Combine's zero-fragment policy. Both policies
// are deliberate and fixed.
//
// # Encoding to SQL
//
//	enc := expr.NewDuckDBEncoder(&expr.EncoderOptions{
//	    ColumnMapping: map[string]string{
//	        "product_name":        "o.product_name",
//	        "customer.first_name": "c.first_name",
//	    },
//	})
//	where := enc.EncodePredicates([]expr.Predicate{p})
//
// The encoded clause is authoritative: an expression the dialect cannot
// represent encodes to the empty string as a whole rather than silently
// widening the filter.
//
// # Client-side fallback
//
// Predicate.Eval applies a predicate to an entity held as a nested map, for
// data sources without pushdown. Eval and the encoder share one semantics:
// exact, case-sensitive string matching and native scalar ordering.
//
// All composition is pure tree construction: no I/O, no shared state, safe
// for concurrent use without coordination.
package expr
