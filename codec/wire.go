package codec

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/hugr-lab/querykit-go/expr"
)

// wirePredicate is the top-level wire structure.
type wirePredicate struct {
	Param string          `msgpack:"param"`
	Body  *wireExpression `msgpack:"body"`
}

// wireExpression is the tagged wire form of a single expression node.
// Class/Type drive decode dispatch, mirroring the in-memory tagged union.
type wireExpression struct {
	Class    string            `msgpack:"expression_class"`
	Type     string            `msgpack:"type"`
	Name     string            `msgpack:"name,omitempty"`
	Field    string            `msgpack:"field,omitempty"`
	Object   *wireExpression   `msgpack:"object,omitempty"`
	Left     *wireExpression   `msgpack:"left,omitempty"`
	Right    *wireExpression   `msgpack:"right,omitempty"`
	Children []*wireExpression `msgpack:"children,omitempty"`
	Value    *wireValue        `msgpack:"value,omitempty"`
}

// wireValue carries a typed constant. Data is stored in a type-specific
// field so decoding stays deterministic across MessagePack implementations:
// temporal values travel as integers (microseconds since epoch for
// timestamps, days since epoch for dates), geometries as WKB.
type wireValue struct {
	TypeID string  `msgpack:"type_id"`
	IsNull bool    `msgpack:"is_null"`
	Bool   bool    `msgpack:"bool,omitempty"`
	Int    int64   `msgpack:"int,omitempty"`
	Float  float64 `msgpack:"float,omitempty"`
	Str    string  `msgpack:"str,omitempty"`
	Bytes  []byte  `msgpack:"bytes,omitempty"`
}

const microsPerDay = 24 * 60 * 60 * 1000000

// floorDiv rounds toward negative infinity, so pre-epoch dates land on the
// containing day instead of the next one.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func toWire(e expr.Expression) (*wireExpression, error) {
	w := &wireExpression{
		Class: string(e.Class()),
		Type:  string(e.Type()),
	}

	switch ex := e.(type) {
	case *expr.ParameterExpression:
		w.Name = ex.Name

	case *expr.MemberExpression:
		obj, err := toWire(ex.Object)
		if err != nil {
			return nil, err
		}
		w.Field = ex.Field
		w.Object = obj

	case *expr.ConstantExpression:
		v, err := toWireValue(ex.Value)
		if err != nil {
			return nil, err
		}
		w.Value = v

	case *expr.ComparisonExpression:
		left, err := toWire(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := toWire(ex.Right)
		if err != nil {
			return nil, err
		}
		w.Left, w.Right = left, right

	case *expr.ConjunctionExpression:
		children, err := toWireList(ex.Children)
		if err != nil {
			return nil, err
		}
		w.Children = children

	case *expr.FunctionExpression:
		children, err := toWireList(ex.Children)
		if err != nil {
			return nil, err
		}
		w.Name = ex.Name
		w.Children = children

	default:
		return nil, &UnknownExpressionError{Class: string(e.Class())}
	}

	return w, nil
}

func toWireList(children []expr.Expression) ([]*wireExpression, error) {
	out := make([]*wireExpression, len(children))
	for i, child := range children {
		w, err := toWire(child)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func toWireValue(v expr.Value) (*wireValue, error) {
	w := &wireValue{TypeID: string(v.Type.ID), IsNull: v.IsNull}
	if v.IsNull {
		return w, nil
	}

	switch v.Type.ID {
	case expr.TypeIDBoolean:
		b, ok := v.Data.(bool)
		if !ok {
			return nil, fmt.Errorf("boolean value holds %T", v.Data)
		}
		w.Bool = b
	case expr.TypeIDBigInt:
		i, ok := v.Data.(int64)
		if !ok {
			return nil, fmt.Errorf("bigint value holds %T", v.Data)
		}
		w.Int = i
	case expr.TypeIDDouble:
		f, ok := v.Data.(float64)
		if !ok {
			return nil, fmt.Errorf("double value holds %T", v.Data)
		}
		w.Float = f
	case expr.TypeIDVarchar:
		s, ok := v.Data.(string)
		if !ok {
			return nil, fmt.Errorf("varchar value holds %T", v.Data)
		}
		w.Str = s
	case expr.TypeIDTimestamp:
		t, ok := v.Data.(time.Time)
		if !ok {
			return nil, fmt.Errorf("timestamp value holds %T", v.Data)
		}
		w.Int = t.UTC().UnixMicro()
	case expr.TypeIDDate:
		t, ok := v.Data.(time.Time)
		if !ok {
			return nil, fmt.Errorf("date value holds %T", v.Data)
		}
		w.Int = floorDiv(t.UTC().UnixMicro(), microsPerDay)
	case expr.TypeIDGeometry:
		g, ok := v.Data.(orb.Geometry)
		if !ok {
			return nil, fmt.Errorf("geometry value holds %T", v.Data)
		}
		data, err := wkb.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("failed to encode geometry: %w", err)
		}
		w.Bytes = data
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type.ID)
	}

	return w, nil
}

func fromWire(w *wireExpression) (expr.Expression, error) {
	switch expr.ExpressionClass(w.Class) {
	case expr.ClassParameter:
		return expr.Param(w.Name), nil

	case expr.ClassMember:
		if w.Object == nil {
			return nil, fmt.Errorf("member access %q has no object", w.Field)
		}
		obj, err := fromWire(w.Object)
		if err != nil {
			return nil, err
		}
		return expr.Member(obj, w.Field), nil

	case expr.ClassConstant:
		if w.Value == nil {
			return nil, fmt.Errorf("constant expression has no value")
		}
		v, err := fromWireValue(w.Value)
		if err != nil {
			return nil, err
		}
		return expr.Constant(v), nil

	case expr.ClassComparison:
		if w.Left == nil || w.Right == nil {
			return nil, fmt.Errorf("comparison %s is missing an operand", w.Type)
		}
		left, err := fromWire(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromWire(w.Right)
		if err != nil {
			return nil, err
		}
		return comparisonFromType(expr.ExpressionType(w.Type), left, right)

	case expr.ClassConjunction:
		children, err := fromWireList(w.Children)
		if err != nil {
			return nil, err
		}
		switch expr.ExpressionType(w.Type) {
		case expr.TypeConjunctionAnd:
			return expr.And(children...), nil
		case expr.TypeConjunctionOr:
			return expr.Or(children...), nil
		default:
			return nil, fmt.Errorf("unknown conjunction type %s", w.Type)
		}

	case expr.ClassFunction:
		children, err := fromWireList(w.Children)
		if err != nil {
			return nil, err
		}
		return expr.Call(w.Name, children...), nil

	default:
		return nil, &UnknownExpressionError{Class: w.Class}
	}
}

func fromWireList(children []*wireExpression) ([]expr.Expression, error) {
	out := make([]expr.Expression, len(children))
	for i, child := range children {
		e, err := fromWire(child)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func comparisonFromType(t expr.ExpressionType, left, right expr.Expression) (expr.Expression, error) {
	switch t {
	case expr.TypeCompareEqual:
		return expr.Equal(left, right), nil
	case expr.TypeCompareNotEqual:
		return expr.NotEqual(left, right), nil
	case expr.TypeCompareLessThan:
		return expr.Less(left, right), nil
	case expr.TypeCompareGreaterThan:
		return expr.Greater(left, right), nil
	case expr.TypeCompareLessThanOrEqual:
		return expr.LessOrEqual(left, right), nil
	case expr.TypeCompareGreaterThanOrEqual:
		return expr.GreaterOrEqual(left, right), nil
	default:
		return nil, fmt.Errorf("unknown comparison type %s", t)
	}
}

func fromWireValue(w *wireValue) (expr.Value, error) {
	typeID := expr.LogicalTypeID(w.TypeID)
	if w.IsNull {
		return expr.NullValue(typeID), nil
	}

	switch typeID {
	case expr.TypeIDBoolean:
		return expr.BoolValue(w.Bool), nil
	case expr.TypeIDBigInt:
		return expr.IntValue(w.Int), nil
	case expr.TypeIDDouble:
		return expr.FloatValue(w.Float), nil
	case expr.TypeIDVarchar:
		return expr.StringValue(w.Str), nil
	case expr.TypeIDTimestamp:
		return expr.TimestampValue(time.UnixMicro(w.Int).UTC()), nil
	case expr.TypeIDDate:
		return expr.DateValue(time.UnixMicro(w.Int * microsPerDay).UTC()), nil
	case expr.TypeIDGeometry:
		g, err := wkb.Unmarshal(w.Bytes)
		if err != nil {
			return expr.Value{}, fmt.Errorf("failed to decode geometry: %w", err)
		}
		return expr.GeometryValue(g), nil
	default:
		return expr.Value{}, fmt.Errorf("unsupported value type %s", w.TypeID)
	}
}
