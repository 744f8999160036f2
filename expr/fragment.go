package expr

// Predicate is a caller-authored boolean fragment: an expression body over a
// single named placeholder variable. Fragments are closed except for that one
// placeholder; combining fragments unifies their placeholders first.
type Predicate struct {
	// Param is the placeholder name the body is written against.
	Param string

	// Body is the boolean expression tree.
	Body Expression
}

// NewPredicate creates a predicate fragment over the given placeholder.
func NewPredicate(param string, body Expression) Predicate {
	return Predicate{Param: param, Body: body}
}

// Rename returns a copy of the predicate rewritten onto a new placeholder
// name. The receiver is not modified.
func (p Predicate) Rename(newParam string) Predicate {
	if newParam == p.Param {
		return p
	}
	return Predicate{Param: newParam, Body: RenameParameter(p.Body, p.Param, newParam)}
}

// Accessor is a caller-authored field accessor: an expression body over a
// single named placeholder producing a scalar value. The declared return
// type drives capability resolution (e.g. which types support the string
// containment primitive).
type Accessor struct {
	// Param is the placeholder name the body is written against.
	Param string

	// Body is the expression locating the field, usually a member access chain.
	Body Expression

	// ReturnType is the logical type of the accessed value.
	ReturnType LogicalType
}

// NewAccessor creates a field accessor over the given placeholder.
func NewAccessor(param string, body Expression, returnType LogicalTypeID) Accessor {
	return Accessor{Param: param, Body: body, ReturnType: LogicalType{ID: returnType}}
}

// Field is a shorthand for the common accessor shape: a member access chain
// rooted at the placeholder.
//
//	Field("x", expr.TypeIDVarchar, "customer", "first_name")
func Field(param string, returnType LogicalTypeID, fields ...string) Accessor {
	return NewAccessor(param, Member(Param(param), fields...), returnType)
}
