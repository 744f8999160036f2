// Package querykit provides a composable filter builder and a lazy query
// surface for SQL data sources.
//
// The querykit package lets callers:
//   - Build reusable predicate fragments over named placeholders
//   - Combine fragments with AND/OR regardless of placeholder names
//   - Apply date-range, substring, and spatial filters through one API
//   - Defer execution: filters accumulate on a handle, SQL is generated
//     and run only on Collect
//
// # Quick Start
//
// Query an orders table with reusable filter fragments:
//
//	package main
//
//	import (
//	    "context"
//	    "database/sql"
//	    "log"
//
//	    _ "github.com/duckdb/duckdb-go/v2"
//
//	    "github.com/hugr-lab/querykit-go"
//	    "github.com/hugr-lab/querykit-go/expr"
//	)
//
//	func main() {
//	    db, _ := sql.Open("duckdb", "orders.db")
//	    defer db.Close()
//
//	    // Map entity member paths to SQL columns
//	    table, _ := querykit.NewTableBuilder("orders", "o").
//	        Column("product_name", "product_name").
//	        Column("created_at", "created_at").
//	        Relation("customer", "customers", "c", "o.customer_id = c.id").
//	            Column("first_name", "first_name").
//	        Build()
//
//	    source, err := querykit.NewSource(querykit.Config{DB: db, Table: table})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Fragments can use different placeholder names; Combine unifies them
//	    byCustomer := expr.NewPredicate("c", expr.Equal(
//	        expr.Member(expr.Param("c"), "customer", "first_name"),
//	        expr.Constant(expr.StringValue("John")),
//	    ))
//	    byProduct := expr.NewPredicate("o", expr.Equal(
//	        expr.Member(expr.Param("o"), "product_name"),
//	        expr.Constant(expr.StringValue("Onion")),
//	    ))
//
//	    rows, err := source.
//	        WhereOrConditions(byCustomer, byProduct).
//	        Collect(context.Background())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("matched %d orders", len(rows))
//	}
//
// # Lazy Evaluation
//
// Source is immutable and lazy. Every Where and Include stage returns a new
// handle, so a partially filtered source can be branched:
//
//	recent := source.WhereDateTimeBetween(createdAt, from, to)
//	onions := recent.WhereAnyPropertyContainsText("Onion", productName)
//	// recent is untouched; nothing has hit the database yet
//	rows, err := onions.Collect(ctx)
//
// Composition errors (unknown combinator, missing capability, unknown
// relation) stick to the handle and surface from Err, SQL, and Collect, so
// chains never need intermediate error checks.
//
// # Relations
//
// Member paths with multiple segments address joined tables. A filter on
// "customer.first_name" automatically joins the declared customer relation;
// Include("customer") additionally selects the relation's columns:
//
//	rows, err := source.
//	    Include("customer").
//	    WhereOrConditions(byCustomer, byProduct).
//	    Collect(ctx)
//
// # Arrow Results
//
// CollectArrow materializes results as an Arrow record batch instead of
// generic maps:
//
//	batch, err := source.CollectArrow(ctx, memory.DefaultAllocator)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer batch.Release()
//
// # Wire Transport
//
// Composed predicates can be serialized for transport between processes
// with the codec package; see codec.New.
package querykit
