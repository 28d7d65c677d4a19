package core

import (
	"github.com/sparvlang/sparv/internal/parse"
)

// A Function is a closure: a function expression and the scope chain that was active when the expression
// was evaluated. The frames of the chain are shared with the code that created them, so the function sees
// later changes to captured variables.
type Function struct {
	Node *parse.FunctionExpression

	// name of the variable the function was declared with, can be empty.
	Name string

	capturedScopes []map[string]Value
}

func (*Function) TypeName() string {
	return FUNCTION_TYPENAME
}

func (fn *Function) Arity() int {
	return len(fn.Node.Parameters)
}

func (fn *Function) ParameterNames() []string {
	return fn.Node.ParameterNames()
}
