package expr

// RenameParameter returns a copy of e in which every reference to the
// placeholder oldName is replaced by a reference to newName. All other nodes
// are copied structurally unchanged. The walk is fully recursive: placeholder
// references may sit arbitrarily deep, e.g. at the root of a nested member
// access chain.
//
// The input tree is never modified, so fragments stay reusable after
// composition. An expression with zero occurrences of oldName comes back as a
// structurally identical copy; renaming onto the same target twice yields the
// same tree.
func RenameParameter(e Expression, oldName, newName string) Expression {
	switch ex := e.(type) {
	case *ParameterExpression:
		if ex.Name == oldName {
			return Param(newName)
		}
		return Param(ex.Name)

	case *MemberExpression:
		return &MemberExpression{
			BaseExpression: ex.BaseExpression,
			Object:         RenameParameter(ex.Object, oldName, newName),
			Field:          ex.Field,
		}

	case *ConstantExpression:
		// Constants carry no placeholder references.
		return Constant(ex.Value)

	case *ComparisonExpression:
		return &ComparisonExpression{
			BaseExpression: ex.BaseExpression,
			Left:           RenameParameter(ex.Left, oldName, newName),
			Right:          RenameParameter(ex.Right, oldName, newName),
		}

	case *ConjunctionExpression:
		children := make([]Expression, len(ex.Children))
		for i, child := range ex.Children {
			children[i] = RenameParameter(child, oldName, newName)
		}
		return &ConjunctionExpression{
			BaseExpression: ex.BaseExpression,
			Children:       children,
		}

	case *FunctionExpression:
		children := make([]Expression, len(ex.Children))
		for i, child := range ex.Children {
			children[i] = RenameParameter(child, oldName, newName)
		}
		return &FunctionExpression{
			BaseExpression: ex.BaseExpression,
			Name:           ex.Name,
			Children:       children,
		}

	default:
		return e
	}
}
