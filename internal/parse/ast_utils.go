package parse

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

type TraversalAction int

const (
	ContinueTraversal TraversalAction = iota
	Prune
	StopTraversal
)

type NodeHandler = func(node Node, parent Node, scopeNode Node, ancestorChain []Node, after bool) (TraversalAction, error)

// This functions performs a pre-order traversal on an AST (depth first).
// postHandle is called on a node after all its descendants have been visited.
func Walk(node Node, handle, postHandle NodeHandler) (err error) {
	defer func() {
		v := recover()

		switch val := v.(type) {
		case error:
			err = fmt.Errorf("%s:%w", debug.Stack(), val)
		case nil:
		case TraversalAction:
		default:
			panic(v)
		}
	}()

	ancestorChain := make([]Node, 0)
	walk(node, nil, &ancestorChain, handle, postHandle)
	return
}

func walk(node, parent Node, ancestorChain *[]Node, fn, afterFn NodeHandler) {

	if node == nil || reflect.ValueOf(node).IsNil() {
		return
	}

	if ancestorChain != nil {
		*ancestorChain = append((*ancestorChain), parent)
		defer func() {
			*ancestorChain = (*ancestorChain)[:len(*ancestorChain)-1]
		}()
	}

	var scopeNode = parent
	for _, a := range *ancestorChain {
		if a != nil && IsScopeContainerNode(a) {
			scopeNode = a
		}
	}

	if fn != nil {
		action, err := fn(node, parent, scopeNode, *ancestorChain, false)

		if err != nil {
			panic(err)
		}

		switch action {
		case StopTraversal:
			panic(StopTraversal)
		case Prune:
			return
		}
	}

	switch n := node.(type) {
	case *Chunk:
		for _, stmt := range n.Statements {
			walk(stmt, node, ancestorChain, fn, afterFn)
		}
	case *Block:
		for _, stmt := range n.Statements {
			walk(stmt, node, ancestorChain, fn, afterFn)
		}
	case *ListLiteral:
		for _, elem := range n.Elements {
			walk(elem, node, ancestorChain, fn, afterFn)
		}
	case *ObjectLiteral:
		for _, prop := range n.Properties {
			walk(prop, node, ancestorChain, fn, afterFn)
		}
	case *ObjectProperty:
		walk(n.Value, node, ancestorChain, fn, afterFn)
	case *BinaryExpression:
		walk(n.Left, node, ancestorChain, fn, afterFn)
		walk(n.Right, node, ancestorChain, fn, afterFn)
	case *UnaryExpression:
		walk(n.Operand, node, ancestorChain, fn, afterFn)
	case *RangeExpression:
		walk(n.Lower, node, ancestorChain, fn, afterFn)
		walk(n.Upper, node, ancestorChain, fn, afterFn)
	case *AssignmentExpression:
		walk(n.Left, node, ancestorChain, fn, afterFn)
		walk(n.Right, node, ancestorChain, fn, afterFn)
	case *IndexExpression:
		walk(n.Indexed, node, ancestorChain, fn, afterFn)
		walk(n.Index, node, ancestorChain, fn, afterFn)
	case *MemberExpression:
		walk(n.Left, node, ancestorChain, fn, afterFn)
		walk(n.PropertyName, node, ancestorChain, fn, afterFn)
	case *ComputedMemberExpression:
		walk(n.Left, node, ancestorChain, fn, afterFn)
		walk(n.PropertyName, node, ancestorChain, fn, afterFn)
	case *FunctionExpression:
		for _, param := range n.Parameters {
			walk(param, node, ancestorChain, fn, afterFn)
		}
		walk(n.Body, node, ancestorChain, fn, afterFn)
	case *CallExpression:
		if n.IsPipe {
			for _, arg := range n.Arguments {
				walk(arg, node, ancestorChain, fn, afterFn)
			}
			walk(n.Callee, node, ancestorChain, fn, afterFn)
		} else {
			walk(n.Callee, node, ancestorChain, fn, afterFn)
			for _, arg := range n.Arguments {
				walk(arg, node, ancestorChain, fn, afterFn)
			}
		}
	case *NativeCallExpression:
		for _, arg := range n.Arguments {
			walk(arg, node, ancestorChain, fn, afterFn)
		}
	case *MatchExpression:
		walk(n.Discriminant, node, ancestorChain, fn, afterFn)
		for _, matchCase := range n.Cases {
			walk(matchCase, node, ancestorChain, fn, afterFn)
		}
	case *MatchCase:
		walk(n.Value, node, ancestorChain, fn, afterFn)
		walk(n.Result, node, ancestorChain, fn, afterFn)
	case *VariableDeclaration:
		walk(n.Name, node, ancestorChain, fn, afterFn)
		walk(n.Init, node, ancestorChain, fn, afterFn)
	case *ExpressionStatement:
		walk(n.Expr, node, ancestorChain, fn, afterFn)
	case *IfStatement:
		walk(n.Test, node, ancestorChain, fn, afterFn)
		walk(n.Consequent, node, ancestorChain, fn, afterFn)
		walk(n.Alternate, node, ancestorChain, fn, afterFn)
	case *WhileStatement:
		walk(n.Test, node, ancestorChain, fn, afterFn)
		walk(n.Body, node, ancestorChain, fn, afterFn)
	case *ForStatement:
		walk(n.Variable, node, ancestorChain, fn, afterFn)
		walk(n.Iterated, node, ancestorChain, fn, afterFn)
		walk(n.Body, node, ancestorChain, fn, afterFn)
	case *LoopStatement:
		walk(n.Count, node, ancestorChain, fn, afterFn)
		walk(n.Body, node, ancestorChain, fn, afterFn)
	case *ReturnStatement:
		walk(n.Expr, node, ancestorChain, fn, afterFn)
	case *ImportStatement:
		walk(n.Source, node, ancestorChain, fn, afterFn)
	}

	if afterFn != nil {
		action, err := afterFn(node, parent, scopeNode, *ancestorChain, true)

		if err != nil {
			panic(err)
		}

		switch action {
		case StopTraversal:
			panic(StopTraversal)
		}
	}
}

// FindNodes returns all the nodes of type T in root, in pre-order.
func FindNodes[T Node](root Node, typ T, handle func(n T) bool) []T {
	searchedType := reflect.TypeOf(typ)
	var found []T

	Walk(root, func(node, parent, scopeNode Node, ancestorChain []Node, _ bool) (TraversalAction, error) {
		if reflect.TypeOf(node) == searchedType {
			n := node.(T)
			if handle == nil || handle(n) {
				found = append(found, n)
			}
		}
		return ContinueTraversal, nil
	}, nil)

	return found
}

// FindNodeAt returns the deepest node whose span contains the 1-based line and 0-based column,
// the ancestors of the node are also returned.
func FindNodeAt(root Node, line, column int32) (found Node, ancestors []Node) {
	Walk(root, func(node, parent, scopeNode Node, ancestorChain []Node, _ bool) (TraversalAction, error) {
		span := node.Base().Span
		if span.Line == line && column >= span.Start && column <= span.End {
			found = node
			ancestors = append(ancestors[:0], ancestorChain...)
		}
		return ContinueTraversal, nil
	}, nil)

	return
}

// GetFunctionDeclarations returns the named functions (fun f() {} and var f = fun() {}) declared at the top
// level of the chunk and in its blocks.
func GetFunctionDeclarations(root Node) []*VariableDeclaration {
	return FindNodes(root, (*VariableDeclaration)(nil), func(decl *VariableDeclaration) bool {
		_, ok := decl.Init.(*FunctionExpression)
		return ok
	})
}
