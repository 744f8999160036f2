package querykit

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/querykit-go/expr"
)

func firstNameIs(param, name string) expr.Predicate {
	return expr.NewPredicate(param, expr.Equal(
		expr.Member(expr.Param(param), "customer", "first_name"),
		expr.Constant(expr.StringValue(name)),
	))
}

func productIs(param, product string) expr.Predicate {
	return expr.NewPredicate(param, expr.Equal(
		expr.Member(expr.Param(param), "product_name"),
		expr.Constant(expr.StringValue(product)),
	))
}

func newTestSource(t *testing.T) *Source {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	source, err := NewSource(Config{DB: db, Table: buildOrdersTable(t)})
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	return source
}

func TestNewSourceValidation(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := NewSource(Config{Table: buildOrdersTable(t)}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for nil DB, got %v", err)
	}
	if _, err := NewSource(Config{DB: db}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero table, got %v", err)
	}
}

func TestSQLNoFilters(t *testing.T) {
	source := newTestSource(t)

	got, err := source.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}
	want := "SELECT o.* FROM orders AS o"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSQLAutoJoinsFilteredRelation(t *testing.T) {
	source := newTestSource(t).
		WhereOrConditions(firstNameIs("c", "John"), productIs("o", "Onion"))

	got, err := source.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}
	want := "SELECT o.* FROM orders AS o" +
		" LEFT JOIN customers AS c ON o.customer_id = c.id" +
		" WHERE ((c.first_name = 'John' OR o.product_name = 'Onion'))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSQLIncludeSelectsRelationColumns(t *testing.T) {
	source := newTestSource(t).
		Include("customer").
		Where(firstNameIs("x", "John"))

	got, err := source.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}
	// The relation is joined once even though both Include and the filter
	// reference it.
	want := "SELECT o.*, c.* FROM orders AS o" +
		" LEFT JOIN customers AS c ON o.customer_id = c.id" +
		" WHERE (c.first_name = 'John')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSQLImplicitAndBetweenStages(t *testing.T) {
	from := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	source := newTestSource(t).
		Where(productIs("x", "Onion")).
		WhereDateTimeBetween(expr.Field("x", expr.TypeIDTimestamp, "created_at"), from, to)

	got, err := source.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}
	want := "SELECT o.* FROM orders AS o" +
		" WHERE (o.product_name = 'Onion')" +
		" AND ((o.created_at >= TIMESTAMP '2026-08-21 00:00:00' AND o.created_at <= TIMESTAMP '2026-08-24 00:00:00'))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIncludeUnknownRelationSticks(t *testing.T) {
	source := newTestSource(t).
		Include("supplier").
		Where(productIs("x", "Onion"))

	if !errors.Is(source.Err(), ErrUnknownRelation) {
		t.Fatalf("expected ErrUnknownRelation, got %v", source.Err())
	}
	if _, err := source.SQL(); !errors.Is(err, ErrUnknownRelation) {
		t.Errorf("SQL() should surface the sticky error, got %v", err)
	}
	if _, err := source.Collect(context.Background()); !errors.Is(err, ErrUnknownRelation) {
		t.Errorf("Collect() should surface the sticky error, got %v", err)
	}
}

func TestUnsupportedFilter(t *testing.T) {
	// A bare placeholder comparison has no SQL form.
	source := newTestSource(t).
		Where(expr.NewPredicate("x", expr.Equal(expr.Param("x"), expr.Constant(expr.IntValue(1)))))

	if _, err := source.SQL(); !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("expected ErrUnsupportedFilter, got %v", err)
	}
}

func TestSourceImmutable(t *testing.T) {
	base := newTestSource(t)
	baseSQL, err := base.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}

	_ = base.Where(productIs("x", "Onion")).Include("customer")

	got, err := base.SQL()
	if err != nil {
		t.Fatalf("SQL() failed after branching: %v", err)
	}
	if got != baseSQL {
		t.Errorf("branching modified the base source: %q", got)
	}
}

func TestWhereOrConditionsEmptyMatchesEverything(t *testing.T) {
	source := newTestSource(t).WhereOrConditions()

	got, err := source.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}
	want := "SELECT o.* FROM orders AS o WHERE (TRUE)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWhereAnyPropertyContainsTextCapabilityError(t *testing.T) {
	source := newTestSource(t).WhereAnyPropertyContainsText("e",
		expr.Field("x", expr.TypeIDTimestamp, "created_at"),
	)

	var capErr *expr.CapabilityError
	if !errors.As(source.Err(), &capErr) {
		t.Fatalf("expected CapabilityError, got %v", source.Err())
	}
}
