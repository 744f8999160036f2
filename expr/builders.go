package expr

import (
	"github.com/paulmach/orb"
)

// CapabilityError indicates the required scalar primitive (e.g. string
// containment) cannot be resolved for the accessed value's logical type.
// Raised at composition time, before any tree is built, never per row.
type CapabilityError struct {
	Operation string
	Type      LogicalTypeID
}

func (e *CapabilityError) Error() string {
	return "expr: no " + e.Operation + " primitive for type " + string(e.Type)
}

// containsFunctions maps scalar logical types to the backing containment
// function. Resolution is static: the set is fixed at build time.
var containsFunctions = map[LogicalTypeID]string{
	TypeIDVarchar: "contains",
}

// intersectsFunctions maps logical types to the backing spatial intersection
// function. Execution requires the DuckDB spatial extension.
var intersectsFunctions = map[LogicalTypeID]string{
	TypeIDGeometry: "ST_Intersects",
}

func resolvePrimitive(table map[LogicalTypeID]string, operation string, t LogicalTypeID) (string, error) {
	if name, ok := table[t]; ok {
		return name, nil
	}
	return "", &CapabilityError{Operation: operation, Type: t}
}

// Between builds a predicate asserting the accessed value lies within the
// inclusive range [lower, upper]:
//
//	field >= lower AND field <= upper
//
// The accessor body is spliced into the tree symbolically, so nested
// navigation stays part of the translated filter. lower > upper is not an
// error; the resulting interval is empty and the predicate matches nothing.
func Between(field Accessor, lower, upper Value) Predicate {
	body := And(
		GreaterOrEqual(field.Body, Constant(lower)),
		LessOrEqual(field.Body, Constant(upper)),
	)
	return Predicate{Param: field.Param, Body: body}
}

// ContainsAnyText builds a predicate asserting searchText occurs in at least
// one of the accessed fields. Containment is exact-character and
// case-sensitive, delegated to the scalar type's containment primitive.
//
// The fold is seeded with constant FALSE, so zero accessors yield a predicate
// matching nothing (the empty disjunction). This is intentionally the opposite
// of Combine's zero-fragment policy.
//
// Every accessor's containment primitive is resolved before any tree is
// built; an accessor whose type has no such primitive fails the whole call
// with *CapabilityError.
func ContainsAnyText(searchText string, fields ...Accessor) (Predicate, error) {
	names := make([]string, len(fields))
	for i, f := range fields {
		name, err := resolvePrimitive(containsFunctions, "contains", f.ReturnType.ID)
		if err != nil {
			return Predicate{}, err
		}
		names[i] = name
	}

	if len(fields) == 0 {
		return Predicate{Param: identityParam, Body: Constant(BoolValue(false))}, nil
	}

	target := fields[0].Param
	var body Expression = Constant(BoolValue(false))
	for i, f := range fields {
		access := f.Body
		if f.Param != target {
			access = RenameParameter(f.Body, f.Param, target)
		}
		test := Call(names[i], access, Constant(StringValue(searchText)))
		body = Or(body, test)
	}

	return Predicate{Param: target, Body: body}, nil
}

// IntersectsBound builds a predicate asserting the accessed geometry
// intersects the given bounding box. The bound is carried as a polygon
// geometry constant and lowered to the spatial intersection function.
func IntersectsBound(field Accessor, bound orb.Bound) (Predicate, error) {
	name, err := resolvePrimitive(intersectsFunctions, "intersects", field.ReturnType.ID)
	if err != nil {
		return Predicate{}, err
	}
	body := Call(name, field.Body, Constant(GeometryValue(bound.ToPolygon())))
	return Predicate{Param: field.Param, Body: body}, nil
}
