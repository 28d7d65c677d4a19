package core

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
)

type StateConfig struct {
	// defaults to io.Discard
	Out io.Writer

	// defaults to an empty reader
	In io.Reader

	// used by read_file, if nil read_file fails
	Filesystem billy.Filesystem

	// defaults to zerolog.Nop()
	Logger *zerolog.Logger

	// optional, the evaluation stops with the context's error when the context is done.
	Ctx context.Context
}

// A TreeWalkState stores all the data accessed during the tree walking evaluation. The first frame of
// LocalScopeStack is the module frame, it is never popped. A state should not be used by several goroutines.
type TreeWalkState struct {
	LocalScopeStack []map[string]Value

	out        io.Writer
	in         *bufio.Reader
	filesystem billy.Filesystem
	logger     zerolog.Logger
	ctx        context.Context
	startTime  time.Time
	callDepth  int
}

func NewTreeWalkState(config StateConfig) *TreeWalkState {
	state := &TreeWalkState{
		LocalScopeStack: []map[string]Value{{}},
		out:             config.Out,
		filesystem:      config.Filesystem,
		ctx:             config.Ctx,
		startTime:       time.Now(),
	}

	if state.out == nil {
		state.out = io.Discard
	}

	if config.In != nil {
		state.in = bufio.NewReader(config.In)
	} else {
		state.in = bufio.NewReader(strings.NewReader(""))
	}

	if config.Logger != nil {
		state.logger = *config.Logger
	} else {
		state.logger = zerolog.Nop()
	}

	return state
}

func (state *TreeWalkState) Get(name string) (Value, bool) {
	for i := len(state.LocalScopeStack) - 1; i >= 0; i-- {
		if v, ok := state.LocalScopeStack[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign sets the value of the variable in the innermost frame declaring it, false is returned if no frame
// declares the variable.
func (state *TreeWalkState) Assign(name string, value Value) bool {
	for i := len(state.LocalScopeStack) - 1; i >= 0; i-- {
		frame := state.LocalScopeStack[i]
		if _, ok := frame[name]; ok {
			frame[name] = value
			return true
		}
	}
	return false
}

// Declare binds the variable in the innermost frame.
func (state *TreeWalkState) Declare(name string, value Value) {
	state.CurrentLocalScope()[name] = value
}

func (state *TreeWalkState) CurrentLocalScope() map[string]Value {
	return state.LocalScopeStack[len(state.LocalScopeStack)-1]
}

// ModuleScope returns the outermost frame.
func (state *TreeWalkState) ModuleScope() map[string]Value {
	return state.LocalScopeStack[0]
}

func (state *TreeWalkState) PushScope() {
	state.LocalScopeStack = append(state.LocalScopeStack, make(map[string]Value))
}

func (state *TreeWalkState) PopScope() {
	if len(state.LocalScopeStack) == 1 {
		panic(ErrUnreachable)
	}
	state.LocalScopeStack = state.LocalScopeStack[:len(state.LocalScopeStack)-1]
}

// captureScopes returns a copy of the stack, the frames themselves are shared.
func (state *TreeWalkState) captureScopes() []map[string]Value {
	scopes := make([]map[string]Value, len(state.LocalScopeStack))
	copy(scopes, state.LocalScopeStack)
	return scopes
}

func (state *TreeWalkState) Logger() zerolog.Logger {
	return state.logger
}

func (state *TreeWalkState) checkCtx() error {
	if state.ctx == nil {
		return nil
	}
	select {
	case <-state.ctx.Done():
		return state.ctx.Err()
	default:
		return nil
	}
}
