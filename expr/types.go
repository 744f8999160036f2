package expr

// ExpressionClass identifies the category of expression.
type ExpressionClass string

const (
	ClassParameter   ExpressionClass = "PARAMETER"
	ClassMember      ExpressionClass = "MEMBER_ACCESS"
	ClassConstant    ExpressionClass = "CONSTANT"
	ClassComparison  ExpressionClass = "COMPARISON"
	ClassConjunction ExpressionClass = "CONJUNCTION"
	ClassFunction    ExpressionClass = "FUNCTION"
)

// ExpressionType identifies the specific operation type.
type ExpressionType string

const (
	// Comparison operators
	TypeCompareEqual              ExpressionType = "COMPARE_EQUAL"
	TypeCompareNotEqual           ExpressionType = "COMPARE_NOTEQUAL"
	TypeCompareLessThan           ExpressionType = "COMPARE_LESSTHAN"
	TypeCompareGreaterThan        ExpressionType = "COMPARE_GREATERTHAN"
	TypeCompareLessThanOrEqual    ExpressionType = "COMPARE_LESSTHANOREQUALTO"
	TypeCompareGreaterThanOrEqual ExpressionType = "COMPARE_GREATERTHANOREQUALTO"

	// Conjunction operators
	TypeConjunctionAnd ExpressionType = "CONJUNCTION_AND"
	TypeConjunctionOr  ExpressionType = "CONJUNCTION_OR"

	// Value types
	TypeValueConstant ExpressionType = "VALUE_CONSTANT"

	// References
	TypeParameterRef ExpressionType = "PARAMETER_REF"
	TypeMemberAccess ExpressionType = "MEMBER_ACCESS"

	// Function calls
	TypeFunction ExpressionType = "FUNCTION"
)

// Expression is the interface implemented by all expression tree nodes.
// Use type assertions or type switches to access specific node data.
// Expression trees are immutable once built: transforms return new trees
// and never modify their inputs.
type Expression interface {
	// Class returns the expression class (e.g., COMPARISON, CONJUNCTION).
	Class() ExpressionClass

	// Type returns the specific expression type (e.g., COMPARE_EQUAL, CONJUNCTION_AND).
	Type() ExpressionType

	// expressionMarker is a marker method to prevent external implementation.
	expressionMarker()
}

// BaseExpression contains common fields for all expression node types.
type BaseExpression struct {
	ExprClass ExpressionClass
	ExprType  ExpressionType
}

// Class returns the expression class.
func (b *BaseExpression) Class() ExpressionClass { return b.ExprClass }

// Type returns the expression type.
func (b *BaseExpression) Type() ExpressionType { return b.ExprType }

func (b *BaseExpression) expressionMarker() {}

// ParameterExpression is a reference to the placeholder variable a predicate
// or accessor is written against ("the current entity").
type ParameterExpression struct {
	BaseExpression
	Name string
}

// MemberExpression navigates from an object expression to one of its named
// fields. Chained member expressions express nested navigation, e.g.
// customer -> first_name.
type MemberExpression struct {
	BaseExpression
	Object Expression
	Field string
}

// ConstantExpression represents a literal value.
type ConstantExpression struct {
	BaseExpression
	Value Value
}

// ComparisonExpression represents binary comparisons (=, <>, <, >, <=, >=).
type ComparisonExpression struct {
	BaseExpression
	Left  Expression
	Right Expression
}

// ConjunctionExpression represents AND/OR over its children.
// Builders produce two-child nodes (a left-to-right fold); the encoder and
// evaluator accept any child count.
type ConjunctionExpression struct {
	BaseExpression
	Children []Expression
}

// FunctionExpression represents a call to a scalar function such as the
// string containment primitive.
type FunctionExpression struct {
	BaseExpression
	Name     string
	Children []Expression
}

// Param creates a reference to the placeholder variable with the given name.
func Param(name string) *ParameterExpression {
	return &ParameterExpression{
		BaseExpression: BaseExpression{ExprClass: ClassParameter, ExprType: TypeParameterRef},
		Name:           name,
	}
}

// Member navigates from object through one or more named fields.
// Member(Param("x"), "customer", "first_name") is x.customer.first_name.
func Member(object Expression, fields ...string) Expression {
	e := object
	for _, f := range fields {
		e = &MemberExpression{
			BaseExpression: BaseExpression{ExprClass: ClassMember, ExprType: TypeMemberAccess},
			Object:         e,
			Field:          f,
		}
	}
	return e
}

// Constant creates a literal expression from a typed value.
func Constant(v Value) *ConstantExpression {
	return &ConstantExpression{
		BaseExpression: BaseExpression{ExprClass: ClassConstant, ExprType: TypeValueConstant},
		Value:          v,
	}
}

func newComparison(t ExpressionType, left, right Expression) *ComparisonExpression {
	return &ComparisonExpression{
		BaseExpression: BaseExpression{ExprClass: ClassComparison, ExprType: t},
		Left:           left,
		Right:          right,
	}
}

// Equal builds left = right.
func Equal(left, right Expression) *ComparisonExpression {
	return newComparison(TypeCompareEqual, left, right)
}

// NotEqual builds left <> right.
func NotEqual(left, right Expression) *ComparisonExpression {
	return newComparison(TypeCompareNotEqual, left, right)
}

// Less builds left < right.
func Less(left, right Expression) *ComparisonExpression {
	return newComparison(TypeCompareLessThan, left, right)
}

// Greater builds left > right.
func Greater(left, right Expression) *ComparisonExpression {
	return newComparison(TypeCompareGreaterThan, left, right)
}

// LessOrEqual builds left <= right.
func LessOrEqual(left, right Expression) *ComparisonExpression {
	return newComparison(TypeCompareLessThanOrEqual, left, right)
}

// GreaterOrEqual builds left >= right.
func GreaterOrEqual(left, right Expression) *ComparisonExpression {
	return newComparison(TypeCompareGreaterThanOrEqual, left, right)
}

func newConjunction(t ExpressionType, children ...Expression) *ConjunctionExpression {
	return &ConjunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassConjunction, ExprType: t},
		Children:       children,
	}
}

// And builds a conjunction that holds when every child holds.
func And(children ...Expression) *ConjunctionExpression {
	return newConjunction(TypeConjunctionAnd, children...)
}

// Or builds a disjunction that holds when at least one child holds.
func Or(children ...Expression) *ConjunctionExpression {
	return newConjunction(TypeConjunctionOr, children...)
}

// Call builds a scalar function call expression.
func Call(name string, args ...Expression) *FunctionExpression {
	return &FunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassFunction, ExprType: TypeFunction},
		Name:           name,
		Children:       args,
	}
}
