package expr

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

// testOrder builds an order entity with its owning customer nested.
func testOrder(product string, created time.Time, firstName, lastName string) map[string]any {
	return map[string]any{
		"product_name": product,
		"created_at":   created,
		"customer": map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
		},
	}
}

// testOrders is the shared corpus: three customers, four orders dated
// day-3 .. day-0 from testNow.
func testOrders() []map[string]any {
	return []map[string]any{
		testOrder("Tomato", testNow.Add(-72*time.Hour), "John", "Doe"),
		testOrder("Onion", testNow.Add(-48*time.Hour), "John", "Doe"),
		testOrder("Banana", testNow.Add(-24*time.Hour), "Piotr", "Petrov"),
		testOrder("Chery", testNow, "Piottr", "Pettrov"),
	}
}

func firstNameIs(param, name string) Predicate {
	return NewPredicate(param, Equal(
		Member(Param(param), "customer", "first_name"),
		Constant(StringValue(name)),
	))
}

func productIs(param, name string) Predicate {
	return NewPredicate(param, Equal(
		Member(Param(param), "product_name"),
		Constant(StringValue(name)),
	))
}

// matching evaluates p against the corpus and returns the matched product names.
func matching(t *testing.T, p Predicate) []string {
	t.Helper()
	var out []string
	for _, row := range testOrders() {
		ok, err := p.Eval(row)
		if err != nil {
			t.Fatalf("Eval failed for %v: %v", row["product_name"], err)
		}
		if ok {
			out = append(out, row["product_name"].(string))
		}
	}
	return out
}

func expectProducts(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected products %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected products %v, got %v", want, got)
		}
	}
}

func TestCombineOr(t *testing.T) {
	// Fragments deliberately use different placeholder names.
	p, err := Combine(LogicalOr, firstNameIs("c", "John"), productIs("o", "Onion"))
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	// Both of John's orders; Onion is already included via the name match.
	expectProducts(t, matching(t, p), "Tomato", "Onion")
}

func TestCombineAnd(t *testing.T) {
	p, err := Combine(LogicalAnd, firstNameIs("c", "John"), productIs("o", "Onion"))
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	expectProducts(t, matching(t, p), "Onion")
}

func TestCombineMatchesDirectEvaluation(t *testing.T) {
	fragments := []Predicate{
		firstNameIs("a", "John"),
		productIs("b", "Tomato"),
		NewPredicate("c", Call("contains",
			Member(Param("c"), "product_name"), Constant(StringValue("o")))),
	}

	for _, op := range []LogicalOperator{LogicalAnd, LogicalOr} {
		combined, err := Combine(op, fragments...)
		if err != nil {
			t.Fatalf("Combine(%s) failed: %v", op, err)
		}
		for _, row := range testOrders() {
			want := op == LogicalAnd
			for _, f := range fragments {
				ok, err := f.Eval(row)
				if err != nil {
					t.Fatalf("fragment Eval failed: %v", err)
				}
				if op == LogicalAnd {
					want = want && ok
				} else {
					want = want || ok
				}
			}
			got, err := combined.Eval(row)
			if err != nil {
				t.Fatalf("combined Eval failed: %v", err)
			}
			if got != want {
				t.Errorf("%s on %v: combined=%v, fragment-wise=%v", op, row["product_name"], got, want)
			}
		}
	}
}

func TestCombineZeroFragments(t *testing.T) {
	for _, op := range []LogicalOperator{LogicalAnd, LogicalOr} {
		p, err := Combine(op)
		if err != nil {
			t.Fatalf("Combine(%s) failed: %v", op, err)
		}
		// Identity filter: every entity matches.
		expectProducts(t, matching(t, p), "Tomato", "Onion", "Banana", "Chery")
	}
}

func TestCombineSingleFragmentVerbatim(t *testing.T) {
	f := productIs("order", "Banana")
	p, err := Combine(LogicalAnd, f)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if p.Param != "order" {
		t.Errorf("single fragment should keep its placeholder, got %q", p.Param)
	}
	if p.Body != f.Body {
		t.Error("single fragment should be returned verbatim, not rebuilt")
	}
}

func TestCombineUnknownOperator(t *testing.T) {
	_, err := Combine(LogicalOperator("XOR"), firstNameIs("x", "John"))
	var opErr *UnknownOperatorError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected UnknownOperatorError, got %v", err)
	}
	if opErr.Operator != "XOR" {
		t.Errorf("expected offending operator XOR, got %s", opErr.Operator)
	}
}

func TestCombineUnifiesOntoFirstPlaceholder(t *testing.T) {
	p, err := Combine(LogicalAnd, firstNameIs("first", "John"), productIs("second", "Onion"), productIs("third", "Onion"))
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if p.Param != "first" {
		t.Errorf("expected unified placeholder 'first', got %q", p.Param)
	}

	// No reference to any other fragment's placeholder may remain.
	var walk func(e Expression)
	walk = func(e Expression) {
		switch ex := e.(type) {
		case *ParameterExpression:
			if ex.Name != "first" {
				t.Errorf("found stale placeholder %q after unification", ex.Name)
			}
		case *MemberExpression:
			walk(ex.Object)
		case *ComparisonExpression:
			walk(ex.Left)
			walk(ex.Right)
		case *ConjunctionExpression:
			for _, c := range ex.Children {
				walk(c)
			}
		case *FunctionExpression:
			for _, c := range ex.Children {
				walk(c)
			}
		}
	}
	walk(p.Body)
}

func BenchmarkCombine(b *testing.B) {
	fragments := []Predicate{
		firstNameIs("a", "John"),
		productIs("b", "Onion"),
		firstNameIs("c", "Piotr"),
		productIs("d", "Banana"),
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Combine(LogicalOr, fragments...); err != nil {
			b.Fatal(err)
		}
	}
}
