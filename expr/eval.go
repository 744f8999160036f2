package expr

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Eval applies the predicate to a single entity represented as a map of field
// values; related entities are nested maps. This is the client-side fallback
// for data sources without pushdown, and the reference semantics for the SQL
// encoder.
//
// Scalar comparisons use native ordering and exact equality of the compared
// Go types; string containment is exact-character and case-sensitive.
func (p Predicate) Eval(entity map[string]any) (bool, error) {
	v, err := evalExpression(p.Body, p.Param, entity)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expr: predicate body evaluated to %T, want bool", v)
	}
	return b, nil
}

func evalExpression(e Expression, param string, entity map[string]any) (any, error) {
	switch ex := e.(type) {
	case *ParameterExpression:
		if ex.Name != param {
			return nil, fmt.Errorf("expr: unbound placeholder %q (predicate parameter is %q)", ex.Name, param)
		}
		return entity, nil

	case *MemberExpression:
		obj, err := evalExpression(ex.Object, param, entity)
		if err != nil {
			return nil, err
		}
		m, ok := obj.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expr: member %q accessed on non-entity value %T", ex.Field, obj)
		}
		v, ok := m[ex.Field]
		if !ok {
			return nil, fmt.Errorf("expr: entity has no member %q", ex.Field)
		}
		return v, nil

	case *ConstantExpression:
		if ex.Value.IsNull {
			return nil, nil
		}
		return ex.Value.Data, nil

	case *ComparisonExpression:
		left, err := evalExpression(ex.Left, param, entity)
		if err != nil {
			return nil, err
		}
		right, err := evalExpression(ex.Right, param, entity)
		if err != nil {
			return nil, err
		}
		return compare(ex.Type(), left, right)

	case *ConjunctionExpression:
		return evalConjunction(ex, param, entity)

	case *FunctionExpression:
		return evalFunction(ex, param, entity)

	default:
		return nil, fmt.Errorf("expr: cannot evaluate expression class %s", e.Class())
	}
}

func evalConjunction(c *ConjunctionExpression, param string, entity map[string]any) (any, error) {
	and := c.Type() == TypeConjunctionAnd
	for _, child := range c.Children {
		v, err := evalExpression(child, param, entity)
		if err != nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expr: conjunction child evaluated to %T, want bool", v)
		}
		// Short-circuit on the deciding value.
		if and && !b {
			return false, nil
		}
		if !and && b {
			return true, nil
		}
	}
	return and, nil
}

func evalFunction(f *FunctionExpression, param string, entity map[string]any) (any, error) {
	args := make([]any, len(f.Children))
	for i, child := range f.Children {
		v, err := evalExpression(child, param, entity)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch f.Name {
	case "contains":
		if len(args) != 2 {
			return nil, fmt.Errorf("expr: contains expects 2 arguments, got %d", len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("expr: contains target is %T, want string", args[0])
		}
		sub, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("expr: contains search is %T, want string", args[1])
		}
		return strings.Contains(s, sub), nil

	case "ST_Intersects":
		if len(args) != 2 {
			return nil, fmt.Errorf("expr: ST_Intersects expects 2 arguments, got %d", len(args))
		}
		g1, ok := args[0].(orb.Geometry)
		if !ok {
			return nil, fmt.Errorf("expr: ST_Intersects target is %T, want geometry", args[0])
		}
		g2, ok := args[1].(orb.Geometry)
		if !ok {
			return nil, fmt.Errorf("expr: ST_Intersects argument is %T, want geometry", args[1])
		}
		// Bounding-box approximation; exact intersection is delegated to the
		// backing store.
		return g1.Bound().Intersects(g2.Bound()), nil

	default:
		return nil, fmt.Errorf("expr: cannot evaluate function %q", f.Name)
	}
}

// compare applies a comparison operator to two scalar values of the same Go
// type. Each scalar type contributes the orderings it natively supports.
func compare(t ExpressionType, left, right any) (bool, error) {
	if left == nil || right == nil {
		// SQL semantics: comparisons against NULL never hold.
		return false, nil
	}

	switch l := left.(type) {
	case int64:
		r, ok := right.(int64)
		if !ok {
			return false, typeMismatch(t, left, right)
		}
		return compareOrdered(t, l, r)
	case float64:
		r, ok := right.(float64)
		if !ok {
			return false, typeMismatch(t, left, right)
		}
		return compareOrdered(t, l, r)
	case string:
		r, ok := right.(string)
		if !ok {
			return false, typeMismatch(t, left, right)
		}
		return compareOrdered(t, l, r)
	case bool:
		r, ok := right.(bool)
		if !ok {
			return false, typeMismatch(t, left, right)
		}
		switch t {
		case TypeCompareEqual:
			return l == r, nil
		case TypeCompareNotEqual:
			return l != r, nil
		default:
			return false, fmt.Errorf("expr: operator %s is not supported for boolean values", t)
		}
	case time.Time:
		r, ok := right.(time.Time)
		if !ok {
			return false, typeMismatch(t, left, right)
		}
		switch t {
		case TypeCompareEqual:
			return l.Equal(r), nil
		case TypeCompareNotEqual:
			return !l.Equal(r), nil
		case TypeCompareLessThan:
			return l.Before(r), nil
		case TypeCompareGreaterThan:
			return l.After(r), nil
		case TypeCompareLessThanOrEqual:
			return !l.After(r), nil
		case TypeCompareGreaterThanOrEqual:
			return !l.Before(r), nil
		default:
			return false, fmt.Errorf("expr: unknown comparison operator %s", t)
		}
	default:
		return false, fmt.Errorf("expr: cannot compare values of type %T", left)
	}
}

func compareOrdered[T int64 | float64 | string](t ExpressionType, l, r T) (bool, error) {
	switch t {
	case TypeCompareEqual:
		return l == r, nil
	case TypeCompareNotEqual:
		return l != r, nil
	case TypeCompareLessThan:
		return l < r, nil
	case TypeCompareGreaterThan:
		return l > r, nil
	case TypeCompareLessThanOrEqual:
		return l <= r, nil
	case TypeCompareGreaterThanOrEqual:
		return l >= r, nil
	default:
		return false, fmt.Errorf("expr: unknown comparison operator %s", t)
	}
}

func typeMismatch(t ExpressionType, left, right any) error {
	return fmt.Errorf("expr: %s operands have mismatched types %T and %T", t, left, right)
}
