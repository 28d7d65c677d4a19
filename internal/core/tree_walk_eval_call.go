package core

import (
	"github.com/sparvlang/sparv/internal/parse"
)

func evalCall(n *parse.CallExpression, state *TreeWalkState) (Value, error) {
	var (
		callee Value
		args   = make([]Value, 0, len(n.Arguments))
		err    error
	)

	evalArgs := func() error {
		for _, argNode := range n.Arguments {
			arg, err := evalExpression(argNode, state)
			if err != nil {
				return err
			}
			args = append(args, arg)
		}
		return nil
	}

	//the left side of a pipe is evaluated first.
	if n.IsPipe {
		if err := evalArgs(); err != nil {
			return nil, err
		}
		callee, err = evalExpression(n.Callee, state)
	} else {
		callee, err = evalExpression(n.Callee, state)
		if err == nil {
			err = evalArgs()
		}
	}
	if err != nil {
		return nil, err
	}

	fn, ok := callee.(*Function)
	if !ok {
		return nil, NewEvalError(n, errorf(ErrNotCallable, "%s", fmtNotCallable(callee)))
	}

	return CallFunction(n, fn, args, state)
}

// CallFunction calls fn with already evaluated arguments, callNode is used to locate errors. The body is
// executed on a stack made of the frames captured by the function and a new frame binding the parameters,
// the stack of the caller is restored afterwards.
func CallFunction(callNode parse.Node, fn *Function, args []Value, state *TreeWalkState) (Value, error) {
	if len(args) != fn.Arity() {
		return nil, NewEvalError(callNode, errorf(ErrWrongArgumentCount, "%s", fmtWrongArgumentCount(fn.Arity(), len(args))))
	}

	if state.callDepth >= MAX_CALL_DEPTH {
		return nil, NewEvalError(callNode, ErrStackOverflow)
	}

	parameterFrame := make(map[string]Value, len(args))
	for i, param := range fn.Node.Parameters {
		parameterFrame[param.Name] = args[i]
	}

	callerStack := state.LocalScopeStack

	calleeStack := make([]map[string]Value, 0, len(fn.capturedScopes)+1)
	calleeStack = append(calleeStack, fn.capturedScopes...)
	calleeStack = append(calleeStack, parameterFrame)

	state.LocalScopeStack = calleeStack
	state.callDepth++

	defer func() {
		state.LocalScopeStack = callerStack
		state.callDepth--
	}()

	state.logger.Debug().Str("function", fn.Name).Int("depth", state.callDepth).Msg("call")

	signal, err := execStatements(fn.Node.Body.Statements, state)
	if err != nil {
		return nil, err
	}

	if signal.Kind == Return {
		return signal.Value, nil
	}
	return Nil, nil
}
