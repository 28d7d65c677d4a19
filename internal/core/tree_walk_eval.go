package core

import (
	"errors"
	"fmt"
	"math"
	"runtime/debug"

	"github.com/sparvlang/sparv/internal/parse"
)

type ControlSignalKind int

const (
	Continue ControlSignalKind = iota
	Return
)

// A ControlSignal is returned by every statement executor, a Return signal stops the execution of the
// enclosing statement lists and loops until it is consumed by a function call.
type ControlSignal struct {
	Kind  ControlSignalKind
	Value Value //only set for Return
}

var continueSignal = ControlSignal{Kind: Continue}

func returnSignal(v Value) ControlSignal {
	return ControlSignal{Kind: Return, Value: v}
}

// TreeWalkEval evaluates a node, panics are always recovered so this function should not panic.
// For statements the returned value is the value of a return statement or nil.
func TreeWalkEval(node parse.Node, state *TreeWalkState) (result Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			if er, ok := e.(error); ok {
				err = fmt.Errorf("core: error: %w %s", er, debug.Stack())
			} else {
				err = fmt.Errorf("core: %#v", e)
			}
		}
	}()

	if node.Kind() == parse.Expr {
		return evalExpression(node, state)
	}

	signal, err := execStatement(node, state)
	if err != nil {
		return nil, err
	}
	if signal.Kind == Return {
		return signal.Value, nil
	}
	return Nil, nil
}

func execStatements(statements []parse.Node, state *TreeWalkState) (ControlSignal, error) {
	for _, stmt := range statements {
		signal, err := execStatement(stmt, state)
		if err != nil || signal.Kind == Return {
			return signal, err
		}
	}
	return continueSignal, nil
}

// execBlock executes the statements of a block in a new frame.
func execBlock(block *parse.Block, state *TreeWalkState) (ControlSignal, error) {
	state.PushScope()
	defer state.PopScope()

	return execStatements(block.Statements, state)
}

func execStatement(node parse.Node, state *TreeWalkState) (ControlSignal, error) {
	if err := state.checkCtx(); err != nil {
		return continueSignal, NewEvalError(node, err)
	}

	switch n := node.(type) {
	case *parse.Chunk:
		//the statements of the chunk are executed in the current frame.
		return execStatements(n.Statements, state)
	case *parse.ExpressionStatement:
		_, err := evalExpression(n.Expr, state)
		return continueSignal, err
	case *parse.VariableDeclaration:
		var value Value = Nil
		if n.Init != nil {
			v, err := evalExpression(n.Init, state)
			if err != nil {
				return continueSignal, err
			}
			value = v
		}
		if fn, ok := value.(*Function); ok && fn.Name == "" && n.Init == parse.Node(fn.Node) {
			fn.Name = n.Name.Name
		}
		state.Declare(n.Name.Name, value)
		return continueSignal, nil
	case *parse.Block:
		return execBlock(n, state)
	case *parse.IfStatement:
		test, err := evalExpression(n.Test, state)
		if err != nil {
			return continueSignal, err
		}
		if IsTruthy(test) {
			return execBlock(n.Consequent, state)
		}
		if n.Alternate != nil {
			return execStatement(n.Alternate, state)
		}
		return continueSignal, nil
	case *parse.WhileStatement:
		for {
			test, err := evalExpression(n.Test, state)
			if err != nil {
				return continueSignal, err
			}
			if !IsTruthy(test) {
				return continueSignal, nil
			}

			signal, err := execBlock(n.Body, state)
			if err != nil || signal.Kind == Return {
				return signal, err
			}
		}
	case *parse.ForStatement:
		return execForStatement(n, state)
	case *parse.LoopStatement:
		count, err := evalExpression(n.Count, state)
		if err != nil {
			return continueSignal, err
		}
		countNum, ok := count.(Number)
		if !ok {
			return continueSignal, NewEvalError(n.Count, errorf(ErrTypeError, "the loop count should be a number but is a %s", count.TypeName()))
		}

		if math.IsNaN(float64(countNum)) || countNum > MAX_LOOP_COUNT {
			return continueSignal, NewEvalError(n.Count, errorf(ErrInvalidLoopCount, "the loop count should be a finite number not greater than %d but is %s", int64(MAX_LOOP_COUNT), Stringify(countNum)))
		}

		iterations := int64(0)
		if countNum > 0 {
			iterations = int64(countNum)
		}
		for i := int64(0); i < iterations; i++ {
			if err := state.checkCtx(); err != nil {
				return continueSignal, err
			}
			signal, err := execBlock(n.Body, state)
			if err != nil || signal.Kind == Return {
				return signal, err
			}
		}
		return continueSignal, nil
	case *parse.ReturnStatement:
		if n.Expr == nil {
			return returnSignal(Nil), nil
		}
		value, err := evalExpression(n.Expr, state)
		if err != nil {
			return continueSignal, err
		}
		return returnSignal(value), nil
	case *parse.ImportStatement:
		state.logger.Debug().Str("source", n.Source.Value).Msg("import statements have no effect")
		return continueSignal, nil
	default:
		if node.Kind() == parse.Expr {
			_, err := evalExpression(node, state)
			return continueSignal, err
		}
		return continueSignal, fmt.Errorf("%w: cannot execute node of type %T", ErrUnreachable, node)
	}
}

func execForStatement(n *parse.ForStatement, state *TreeWalkState) (ControlSignal, error) {
	iterated, err := evalExpression(n.Iterated, state)
	if err != nil {
		return continueSignal, err
	}

	runIteration := func(elem Value) (ControlSignal, error) {
		state.PushScope()
		defer state.PopScope()

		state.Declare(n.Variable.Name, elem)
		return execStatements(n.Body.Statements, state)
	}

	switch val := iterated.(type) {
	case *List:
		//elements appended during the iteration are not visited.
		for _, elem := range val.Elements() {
			signal, err := runIteration(elem)
			if err != nil || signal.Kind == Return {
				return signal, err
			}
		}
	case String:
		for _, r := range string(val) {
			signal, err := runIteration(String(r))
			if err != nil || signal.Kind == Return {
				return signal, err
			}
		}
	default:
		return continueSignal, NewEvalError(n.Iterated, errorf(ErrTypeError, "%s", fmtCannotIterate(iterated)))
	}

	return continueSignal, nil
}

func evalExpression(node parse.Node, state *TreeWalkState) (Value, error) {
	switch n := node.(type) {
	case *parse.NumberLiteral:
		return Number(n.Value), nil
	case *parse.StringLiteral:
		return String(n.Value), nil
	case *parse.BooleanLiteral:
		return Bool(n.Value), nil
	case *parse.NilLiteral:
		return Nil, nil
	case *parse.IdentifierLiteral:
		value, ok := state.Get(n.Name)
		if !ok {
			return nil, NewEvalError(n, errorf(ErrUndeclaredVariable, "%s", fmtVariableNotDeclared(n.Name)))
		}
		return value, nil
	case *parse.ListLiteral:
		elements := make([]Value, 0, len(n.Elements))
		for _, elemNode := range n.Elements {
			elem, err := evalExpression(elemNode, state)
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
		}
		return NewList(elements...), nil
	case *parse.ObjectLiteral:
		obj := NewObject()
		for _, prop := range n.Properties {
			value, err := evalExpression(prop.Value, state)
			if err != nil {
				return nil, err
			}
			obj.Set(prop.Key, value)
		}
		return obj, nil
	case *parse.UnaryExpression:
		operand, err := evalExpression(n.Operand, state)
		if err != nil {
			return nil, err
		}

		switch n.Operator {
		case parse.NumberNegate:
			num, ok := operand.(Number)
			if !ok {
				return nil, NewEvalError(n, errorf(ErrTypeError, "operand of '-' should be a number but is a %s", operand.TypeName()))
			}
			return -num, nil
		case parse.BoolNegate:
			return Bool(!IsTruthy(operand)), nil
		}
		return nil, fmt.Errorf("%w: unknown unary operator", ErrUnreachable)
	case *parse.BinaryExpression:
		return evalBinaryExpression(n, state)
	case *parse.RangeExpression:
		return evalRangeExpression(n, state)
	case *parse.AssignmentExpression:
		return evalAssignment(n, state)
	case *parse.IndexExpression:
		indexed, err := evalExpression(n.Indexed, state)
		if err != nil {
			return nil, err
		}
		index, err := evalExpression(n.Index, state)
		if err != nil {
			return nil, err
		}
		return getIndex(n, indexed, index)
	case *parse.MemberExpression:
		left, err := evalExpression(n.Left, state)
		if err != nil {
			return nil, err
		}
		obj, ok := left.(*Object)
		if !ok {
			return nil, NewEvalError(n, errorf(ErrTypeError, "%s", fmtNotAnObject(left)))
		}
		return obj.Get(n.PropertyName.Name), nil
	case *parse.ComputedMemberExpression:
		obj, key, err := evalComputedMember(n, state)
		if err != nil {
			return nil, err
		}
		return obj.Get(key), nil
	case *parse.FunctionExpression:
		return &Function{
			Node:           n,
			capturedScopes: state.captureScopes(),
		}, nil
	case *parse.CallExpression:
		return evalCall(n, state)
	case *parse.NativeCallExpression:
		args := make([]Value, 0, len(n.Arguments))
		for _, argNode := range n.Arguments {
			arg, err := evalExpression(argNode, state)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}

		result, err := callNativeFunction(n.Function, args, state)
		if err != nil {
			var evalErr *EvalError
			if errors.As(err, &evalErr) {
				return nil, err
			}
			return nil, NewEvalError(n, err)
		}
		return result, nil
	case *parse.MatchExpression:
		discriminant, err := evalExpression(n.Discriminant, state)
		if err != nil {
			return nil, err
		}

		for _, matchCase := range n.Cases {
			value, err := evalExpression(matchCase.Value, state)
			if err != nil {
				return nil, err
			}
			if Equal(discriminant, value) {
				return evalExpression(matchCase.Result, state)
			}
		}
		return Nil, nil
	default:
		return nil, fmt.Errorf("%w: cannot evaluate node of type %T", ErrUnreachable, node)
	}
}

func evalRangeExpression(n *parse.RangeExpression, state *TreeWalkState) (Value, error) {
	lower, err := evalExpression(n.Lower, state)
	if err != nil {
		return nil, err
	}
	upper, err := evalExpression(n.Upper, state)
	if err != nil {
		return nil, err
	}

	lowerNum, ok := lower.(Number)
	if !ok {
		return nil, NewEvalError(n, errorf(ErrTypeError, "%s", fmtOperandShouldBeNumber("left", ":", lower)))
	}
	upperNum, ok := upper.(Number)
	if !ok {
		return nil, NewEvalError(n, errorf(ErrTypeError, "%s", fmtOperandShouldBeNumber("right", ":", upper)))
	}

	if math.IsNaN(float64(lowerNum)) || math.IsInf(float64(lowerNum), 0) ||
		math.IsNaN(float64(upperNum)) || math.IsInf(float64(upperNum), 0) {
		return nil, NewEvalError(n, errorf(ErrInvalidRange, "the bounds of a range should be finite numbers"))
	}

	length := math.Ceil(float64(upperNum - lowerNum))
	if length <= 0 {
		return NewList(), nil
	}
	if length > MAX_RANGE_LENGTH {
		return nil, NewEvalError(n, errorf(ErrInvalidRange, "the range %s:%s has more than %d elements", Stringify(lowerNum), Stringify(upperNum), MAX_RANGE_LENGTH))
	}
	if err := state.checkCtx(); err != nil {
		return nil, err
	}

	elements := make([]Value, int(length))
	for k := range elements {
		elements[k] = lowerNum + Number(k)
	}
	return NewList(elements...), nil
}

func evalComputedMember(n *parse.ComputedMemberExpression, state *TreeWalkState) (*Object, string, error) {
	left, err := evalExpression(n.Left, state)
	if err != nil {
		return nil, "", err
	}
	obj, ok := left.(*Object)
	if !ok {
		return nil, "", NewEvalError(n, errorf(ErrTypeError, "%s", fmtNotAnObject(left)))
	}

	name, err := evalExpression(n.PropertyName, state)
	if err != nil {
		return nil, "", err
	}
	key, ok := name.(String)
	if !ok {
		return nil, "", NewEvalError(n.PropertyName, errorf(ErrTypeError, "a field name should be a string but is a %s", name.TypeName()))
	}
	return obj, string(key), nil
}

// toIndex checks that the index is an integer in [0, length).
func toIndex(node parse.Node, index Value, length int) (int, error) {
	num, ok := index.(Number)
	if !ok {
		return 0, NewEvalError(node, errorf(ErrTypeError, "an index should be a number but is a %s", index.TypeName()))
	}
	if !num.IsInteger() {
		return 0, NewEvalError(node, errorf(ErrNonIntegerIndex, "an index should be an integer, %s is not", num.String()))
	}
	if num < 0 || num >= Number(length) {
		return 0, NewEvalError(node, errorf(ErrIndexOutOfRange, "%s", fmtIndexOutOfRange(int(num), length)))
	}
	return int(num), nil
}

func getIndex(node parse.Node, indexed Value, index Value) (Value, error) {
	switch val := indexed.(type) {
	case *List:
		i, err := toIndex(node, index, val.Len())
		if err != nil {
			return nil, err
		}
		return val.At(i), nil
	case String:
		runes := []rune(string(val))
		i, err := toIndex(node, index, len(runes))
		if err != nil {
			return nil, err
		}
		return String(runes[i]), nil
	default:
		return nil, NewEvalError(node, errorf(ErrTypeError, "%s", fmtCannotIndex(indexed)))
	}
}

func evalAssignment(n *parse.AssignmentExpression, state *TreeWalkState) (Value, error) {

	// computeValue returns the value to assign, current is only called for compound assignments.
	computeValue := func(current func() (Value, error)) (Value, error) {
		right, err := evalExpression(n.Right, state)
		if err != nil {
			return nil, err
		}

		operator, isCompound := n.Operator.BinaryOperator()
		if !isCompound {
			return right, nil
		}

		left, err := current()
		if err != nil {
			return nil, err
		}
		return applyBinaryOperator(n, operator, left, right)
	}

	switch target := n.Left.(type) {
	case *parse.IdentifierLiteral:
		value, err := computeValue(func() (Value, error) {
			return evalExpression(target, state)
		})
		if err != nil {
			return nil, err
		}
		if !state.Assign(target.Name, value) {
			return nil, NewEvalError(target, errorf(ErrUndeclaredVariable, "%s", fmtVariableNotDeclared(target.Name)))
		}
		return value, nil
	case *parse.IndexExpression:
		indexed, err := evalExpression(target.Indexed, state)
		if err != nil {
			return nil, err
		}
		index, err := evalExpression(target.Index, state)
		if err != nil {
			return nil, err
		}

		list, ok := indexed.(*List)
		if !ok {
			return nil, NewEvalError(target, errorf(ErrTypeError, "only the elements of lists can be assigned, not the elements of a %s", indexed.TypeName()))
		}

		value, err := computeValue(func() (Value, error) {
			return getIndex(target, list, index)
		})
		if err != nil {
			return nil, err
		}

		i, err := toIndex(target, index, list.Len())
		if err != nil {
			return nil, err
		}
		list.Set(i, value)
		return value, nil
	case *parse.MemberExpression:
		left, err := evalExpression(target.Left, state)
		if err != nil {
			return nil, err
		}
		obj, ok := left.(*Object)
		if !ok {
			return nil, NewEvalError(target, errorf(ErrTypeError, "%s", fmtNotAnObject(left)))
		}
		key := target.PropertyName.Name

		value, err := computeValue(func() (Value, error) {
			return obj.Get(key), nil
		})
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
		return value, nil
	case *parse.ComputedMemberExpression:
		obj, key, err := evalComputedMember(target, state)
		if err != nil {
			return nil, err
		}

		value, err := computeValue(func() (Value, error) {
			return obj.Get(key), nil
		})
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
		return value, nil
	default:
		return nil, fmt.Errorf("%w: invalid assignment target %T", ErrUnreachable, n.Left)
	}
}
