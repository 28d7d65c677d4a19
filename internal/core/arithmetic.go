package core

import (
	"math"
	"strings"

	"github.com/sparvlang/sparv/internal/parse"
)

const (
	MAX_REPEATED_STRING_LENGTH = 100_000_000
)

func evalBinaryExpression(n *parse.BinaryExpression, state *TreeWalkState) (Value, error) {
	left, err := evalExpression(n.Left, state)
	if err != nil {
		return nil, err
	}

	//short-circuit evaluation
	switch n.Operator {
	case parse.And:
		if !IsTruthy(left) {
			return False, nil
		}
		right, err := evalExpression(n.Right, state)
		if err != nil {
			return nil, err
		}
		return Bool(IsTruthy(right)), nil
	case parse.Or:
		if IsTruthy(left) {
			return True, nil
		}
		right, err := evalExpression(n.Right, state)
		if err != nil {
			return nil, err
		}
		return Bool(IsTruthy(right)), nil
	}

	right, err := evalExpression(n.Right, state)
	if err != nil {
		return nil, err
	}

	return applyBinaryOperator(n, n.Operator, left, right)
}

// applyBinaryOperator applies a non short-circuiting operator, node is used to locate errors.
func applyBinaryOperator(node parse.Node, operator parse.BinaryOperator, left, right Value) (Value, error) {
	switch operator {
	case parse.Add:
		return add(left, right), nil
	case parse.Mul:
		return multiply(node, left, right)
	case parse.Equal:
		return Bool(Equal(left, right)), nil
	case parse.NotEqual:
		return Bool(!Equal(left, right)), nil
	case parse.And:
		return Bool(IsTruthy(left) && IsTruthy(right)), nil
	case parse.Or:
		return Bool(IsTruthy(left) || IsTruthy(right)), nil
	}

	leftNum, ok := left.(Number)
	if !ok {
		return nil, NewEvalError(node, errorf(ErrTypeError, "%s", fmtOperandShouldBeNumber("left", operator.String(), left)))
	}
	rightNum, ok := right.(Number)
	if !ok {
		return nil, NewEvalError(node, errorf(ErrTypeError, "%s", fmtOperandShouldBeNumber("right", operator.String(), right)))
	}

	switch operator {
	case parse.Sub:
		return leftNum - rightNum, nil
	case parse.Div:
		return leftNum / rightNum, nil
	case parse.Mod:
		return Number(math.Mod(float64(leftNum), float64(rightNum))), nil
	case parse.LessThan:
		return Bool(leftNum < rightNum), nil
	case parse.LessOrEqual:
		return Bool(leftNum <= rightNum), nil
	case parse.GreaterThan:
		return Bool(leftNum > rightNum), nil
	case parse.GreaterOrEqual:
		return Bool(leftNum >= rightNum), nil
	}

	return nil, NewEvalError(node, errorf(ErrUnreachable, "unknown binary operator %s", operator))
}

// add adds two numbers, concatenates two lists, or concatenates the string representations of the operands.
func add(left, right Value) Value {
	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return l + r
		}
	case *List:
		if r, ok := right.(*List); ok {
			return l.Concat(r)
		}
	}
	return String(Stringify(left) + Stringify(right))
}

// multiply multiplies two numbers or repeats a string.
func multiply(node parse.Node, left, right Value) (Value, error) {
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return l * r, nil
		case String:
			return repeatString(node, r, l)
		}
	case String:
		if r, ok := right.(Number); ok {
			return repeatString(node, l, r)
		}
	}

	if _, ok := left.(Number); !ok {
		if _, ok := left.(String); !ok {
			return nil, NewEvalError(node, errorf(ErrTypeError, "left operand of '*' should be a number or a string but is a %s", left.TypeName()))
		}
	}
	return nil, NewEvalError(node, errorf(ErrTypeError, "%s", fmtOperandShouldBeNumber("right", "*", right)))
}

func repeatString(node parse.Node, s String, count Number) (Value, error) {
	if count < 0 || math.IsNaN(float64(count)) {
		return nil, NewEvalError(node, errorf(ErrInvalidRepetitionCount, "a string cannot be repeated %s times", count.String()))
	}
	if len(s) == 0 {
		return s, nil
	}
	if count > MAX_REPEATED_STRING_LENGTH || len(s)*int(count) > MAX_REPEATED_STRING_LENGTH {
		return nil, NewEvalError(node, errorf(ErrInvalidRepetitionCount, "the repeated string would be too long"))
	}
	return String(strings.Repeat(string(s), int(count))), nil
}
