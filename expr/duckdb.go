package expr

import (
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// DuckDBEncoder encodes predicate expressions to DuckDB SQL syntax.
//
// Unlike a pushdown hint, the encoded clause is authoritative: dropping part
// of a predicate would silently widen the filter. An expression containing
// anything unrepresentable therefore encodes to the empty string as a whole,
// and callers must treat that as an error.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// EncodePredicates converts predicates to a WHERE clause body.
// Each predicate is wrapped in parentheses and multiple predicates are AND'ed
// together. Returns the condition portion without the "WHERE" keyword, or
// empty string if any predicate cannot be encoded.
func (e *DuckDBEncoder) EncodePredicates(predicates []Predicate) string {
	if len(predicates) == 0 {
		return ""
	}

	parts := make([]string, 0, len(predicates))
	for _, p := range predicates {
		encoded := e.Encode(p.Body)
		if encoded == "" {
			return ""
		}
		parts = append(parts, encoded)
	}

	return "(" + strings.Join(parts, ") AND (") + ")"
}

// Encode converts a single expression to SQL.
// Returns empty string if the expression cannot be represented.
func (e *DuckDBEncoder) Encode(expr Expression) string {
	if expr == nil {
		return ""
	}

	switch ex := expr.(type) {
	case *ComparisonExpression:
		return e.encodeComparison(ex)
	case *ConjunctionExpression:
		return e.encodeConjunction(ex)
	case *ConstantExpression:
		return e.formatValue(ex.Value)
	case *MemberExpression:
		return e.encodeMember(ex)
	case *FunctionExpression:
		return e.encodeFunction(ex)
	case *ParameterExpression:
		// A bare placeholder reference has no column form.
		return ""
	default:
		return ""
	}
}

// encodeComparison encodes a comparison expression.
func (e *DuckDBEncoder) encodeComparison(c *ComparisonExpression) string {
	left := e.Encode(c.Left)
	right := e.Encode(c.Right)

	if left == "" || right == "" {
		return ""
	}

	switch c.Type() {
	case TypeCompareEqual:
		return left + " = " + right
	case TypeCompareNotEqual:
		return left + " <> " + right
	case TypeCompareLessThan:
		return left + " < " + right
	case TypeCompareGreaterThan:
		return left + " > " + right
	case TypeCompareLessThanOrEqual:
		return left + " <= " + right
	case TypeCompareGreaterThanOrEqual:
		return left + " >= " + right
	default:
		return ""
	}
}

// encodeConjunction encodes AND/OR conjunctions. If any child cannot be
// encoded, the whole conjunction is unsupported.
func (e *DuckDBEncoder) encodeConjunction(c *ConjunctionExpression) string {
	if len(c.Children) == 0 {
		return ""
	}

	parts := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		encoded := e.Encode(child)
		if encoded == "" {
			return ""
		}
		parts = append(parts, encoded)
	}

	if len(parts) == 1 {
		return parts[0]
	}

	op := " AND "
	if c.Type() == TypeConjunctionOr {
		op = " OR "
	}

	return "(" + strings.Join(parts, op) + ")"
}

// encodeMember encodes a member access chain as a column reference.
// The chain must be rooted at a placeholder reference; the dot-separated
// field path is resolved through ColumnExpressions, then ColumnMapping,
// before falling back to quoting each segment.
func (e *DuckDBEncoder) encodeMember(m *MemberExpression) string {
	path, ok := memberPath(m)
	if !ok {
		return ""
	}

	if e.opts.ColumnExpressions != nil {
		if expr, ok := e.opts.ColumnExpressions[path]; ok {
			return expr
		}
	}

	if e.opts.ColumnMapping != nil {
		if mapped, ok := e.opts.ColumnMapping[path]; ok {
			return mapped
		}
	}

	segments := strings.Split(path, ".")
	for i, s := range segments {
		segments[i] = quoteIdentifier(s)
	}
	return strings.Join(segments, ".")
}

// memberPath flattens a member access chain into a dot-separated field path,
// e.g. x.customer.first_name -> "customer.first_name". Returns false if the
// chain is not rooted at a placeholder reference.
func memberPath(m *MemberExpression) (string, bool) {
	var fields []string
	var e Expression = m
	for {
		switch ex := e.(type) {
		case *MemberExpression:
			fields = append(fields, ex.Field)
			e = ex.Object
		case *ParameterExpression:
			// Reverse: fields were collected leaf-first.
			for i, j := 0, len(fields)-1; i < j; i, j = i+1, j-1 {
				fields[i], fields[j] = fields[j], fields[i]
			}
			return strings.Join(fields, "."), true
		default:
			return "", false
		}
	}
}

// encodeFunction encodes a scalar function call.
func (e *DuckDBEncoder) encodeFunction(f *FunctionExpression) string {
	args := make([]string, 0, len(f.Children))
	for _, child := range f.Children {
		encoded := e.Encode(child)
		if encoded == "" {
			return ""
		}
		args = append(args, encoded)
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// formatValue formats a Value as a SQL literal.
func (e *DuckDBEncoder) formatValue(v Value) string {
	if v.IsNull {
		return "NULL"
	}

	switch v.Type.ID {
	case TypeIDBoolean:
		if b, ok := v.Data.(bool); ok {
			if b {
				return "TRUE"
			}
			return "FALSE"
		}
		return ""
	case TypeIDBigInt:
		if i, ok := v.Data.(int64); ok {
			return strconv.FormatInt(i, 10)
		}
		return ""
	case TypeIDDouble:
		if f, ok := v.Data.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return ""
	case TypeIDVarchar:
		if s, ok := v.Data.(string); ok {
			return quoteLiteral(s)
		}
		return ""
	case TypeIDDate:
		if t, ok := v.Data.(time.Time); ok {
			return "DATE '" + t.UTC().Format("2006-01-02") + "'"
		}
		return ""
	case TypeIDTimestamp:
		if t, ok := v.Data.(time.Time); ok {
			return "TIMESTAMP '" + formatTimestamp(t) + "'"
		}
		return ""
	case TypeIDGeometry:
		if g, ok := v.Data.(orb.Geometry); ok {
			return "ST_GeomFromText(" + quoteLiteral(wkt.MarshalString(g)) + ")"
		}
		return ""
	default:
		return ""
	}
}

// formatTimestamp formats a timestamp with microsecond precision when needed.
func formatTimestamp(t time.Time) string {
	t = t.UTC()
	formatted := t.Format("2006-01-02 15:04:05")
	if micro := t.Nanosecond() / 1000; micro != 0 {
		formatted += "." + pad6(micro)
	}
	return formatted
}

func pad6(micro int) string {
	s := strconv.Itoa(micro)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}
