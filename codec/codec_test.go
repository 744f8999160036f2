package codec

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/hugr-lab/querykit-go/expr"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRoundtrip(t *testing.T) {
	c := newTestCodec(t)

	from := time.Date(2026, 8, 21, 10, 30, 0, 0, time.UTC)
	to := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	contains, err := expr.ContainsAnyText("e",
		expr.Field("x", expr.TypeIDVarchar, "customer", "first_name"),
		expr.Field("x", expr.TypeIDVarchar, "product_name"),
	)
	if err != nil {
		t.Fatalf("ContainsAnyText failed: %v", err)
	}
	between := expr.Between(
		expr.Field("x", expr.TypeIDTimestamp, "created_at"),
		expr.TimestampValue(from), expr.TimestampValue(to),
	)
	p, err := expr.Combine(expr.LogicalAnd, contains, between)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	payload, err := c.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := c.Unmarshal(payload)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, p) {
		t.Errorf("roundtrip changed the predicate:\n got %#v\nwant %#v", decoded, p)
	}
}

func TestRoundtripGeometry(t *testing.T) {
	c := newTestCodec(t)

	p, err := expr.IntersectsBound(
		expr.Field("x", expr.TypeIDGeometry, "location"),
		orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}},
	)
	if err != nil {
		t.Fatalf("IntersectsBound failed: %v", err)
	}

	payload, err := c.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	decoded, err := c.Unmarshal(payload)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	// Geometry constants survive as WKB; the decoded predicate must still
	// evaluate identically.
	inside := map[string]any{"location": orb.Point{5, 5}}
	got, err := decoded.Eval(inside)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !got {
		t.Error("decoded geometry predicate no longer matches")
	}
}

func TestRoundtripPreEpochDate(t *testing.T) {
	c := newTestCodec(t)

	p := expr.Between(
		expr.Field("x", expr.TypeIDDate, "born_on"),
		expr.DateValue(time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)),
		expr.DateValue(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)),
	)

	payload, err := c.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	decoded, err := c.Unmarshal(payload)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, p) {
		t.Errorf("pre-epoch date roundtrip changed the predicate:\n got %#v\nwant %#v", decoded, p)
	}
}

func TestDateEncodesToContainingDay(t *testing.T) {
	// A pre-epoch time of day must land on its own day, not round up to the
	// epoch.
	v := expr.Value{
		Type: expr.LogicalType{ID: expr.TypeIDDate},
		Data: time.Date(1969, 12, 31, 15, 0, 0, 0, time.UTC),
	}
	w, err := toWireValue(v)
	if err != nil {
		t.Fatalf("toWireValue failed: %v", err)
	}
	if w.Int != -1 {
		t.Errorf("expected day -1 for 1969-12-31, got %d", w.Int)
	}

	decoded, err := fromWireValue(w)
	if err != nil {
		t.Fatalf("fromWireValue failed: %v", err)
	}
	got, ok := decoded.Data.(time.Time)
	if !ok {
		t.Fatalf("decoded date holds %T", decoded.Data)
	}
	want := time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("decoded date %v, want %v", got, want)
	}
}

func TestUnmarshalCorruptPayload(t *testing.T) {
	c := newTestCodec(t)

	if _, err := c.Unmarshal([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Error("expected error for corrupt payload")
	}
}

func TestUnknownExpressionClass(t *testing.T) {
	_, err := fromWire(&wireExpression{Class: "BOUND_WINDOW", Type: "WINDOW_RANK"})
	var unknownErr *UnknownExpressionError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownExpressionError, got %v", err)
	}
	if unknownErr.Class != "BOUND_WINDOW" {
		t.Errorf("expected offending class BOUND_WINDOW, got %s", unknownErr.Class)
	}
}
