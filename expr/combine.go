package expr

// LogicalOperator selects how sibling fragments fold together.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// identityParam is the placeholder name used for predicates built without any
// caller-supplied fragment (zero-fragment combinations, empty substring
// filters).
const identityParam = "x"

// UnknownOperatorError indicates an unrecognized logical operator was supplied
// to the combinator. This is a programming error: the operator set is closed.
type UnknownOperatorError struct {
	Operator LogicalOperator
}

func (e *UnknownOperatorError) Error() string {
	return "expr: unknown logical operator: " + string(e.Operator)
}

func (op LogicalOperator) expressionType() (ExpressionType, error) {
	switch op {
	case LogicalAnd:
		return TypeConjunctionAnd, nil
	case LogicalOr:
		return TypeConjunctionOr, nil
	default:
		return "", &UnknownOperatorError{Operator: op}
	}
}

// Combine merges N predicate fragments into one predicate over a single
// shared placeholder, folding their bodies left-to-right with op:
//
//	body = body1 OP body2 OP body3 ...
//
// Fragments may each use their own placeholder name; every body is rewritten
// onto the first fragment's placeholder before folding.
//
// Zero fragments yield the identity filter: a constant-TRUE predicate that
// accepts every entity (the empty conjunction and the empty disjunction are
// both treated as "apply no restriction" here; contrast ContainsAnyText).
// A single fragment is returned verbatim, with no placeholder rewriting.
//
// Returns *UnknownOperatorError for an operator outside the closed set.
func Combine(op LogicalOperator, fragments ...Predicate) (Predicate, error) {
	exprType, err := op.expressionType()
	if err != nil {
		return Predicate{}, err
	}

	switch len(fragments) {
	case 0:
		return Predicate{Param: identityParam, Body: Constant(BoolValue(true))}, nil
	case 1:
		return fragments[0], nil
	}

	target := fragments[0].Param
	body := fragments[0].Body
	for _, f := range fragments[1:] {
		unified := f.Body
		if f.Param != target {
			unified = RenameParameter(f.Body, f.Param, target)
		}
		body = newConjunction(exprType, body, unified)
	}

	return Predicate{Param: target, Body: body}, nil
}
