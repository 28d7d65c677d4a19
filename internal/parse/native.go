package parse

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type NativeFunctionId int

const (
	PrintFn NativeFunctionId = iota + 1
	LenFn
	TypeofFn
	ParseFn
	SplitFn
	ReadFileFn
	ReadInputFn
	AbsFn
	TimeFn
	XorFn
	SortFn
	LinesFn
)

// A NativeFunction is a built-in function, calls to native functions are resolved when parsing.
type NativeFunction struct {
	Id         NativeFunctionId
	Name       string
	Parameters []string
}

func (f *NativeFunction) Arity() int {
	return len(f.Parameters)
}

var (
	NATIVE_FUNCTIONS = map[string]*NativeFunction{
		"print":      {Id: PrintFn, Name: "print", Parameters: []string{"value"}},
		"len":        {Id: LenFn, Name: "len", Parameters: []string{"value"}},
		"typeof":     {Id: TypeofFn, Name: "typeof", Parameters: []string{"value"}},
		"parse":      {Id: ParseFn, Name: "parse", Parameters: []string{"text"}},
		"split":      {Id: SplitFn, Name: "split", Parameters: []string{"text", "separator"}},
		"read_file":  {Id: ReadFileFn, Name: "read_file", Parameters: []string{"path"}},
		"read_input": {Id: ReadInputFn, Name: "read_input"},
		"abs":        {Id: AbsFn, Name: "abs", Parameters: []string{"number"}},
		"time":       {Id: TimeFn, Name: "time"},
		"xor":        {Id: XorFn, Name: "xor", Parameters: []string{"a", "b"}},
		"sort":       {Id: SortFn, Name: "sort", Parameters: []string{"list"}},
		"lines":      {Id: LinesFn, Name: "lines", Parameters: []string{"text"}},
	}

	NATIVE_FUNCTION_NAMES = func() []string {
		names := maps.Keys(NATIVE_FUNCTIONS)
		slices.Sort(names)
		return names
	}()
)

func GetNativeFunction(name string) (*NativeFunction, bool) {
	fn, ok := NATIVE_FUNCTIONS[name]
	return fn, ok
}

func IsNativeFunctionName(name string) bool {
	_, ok := NATIVE_FUNCTIONS[name]
	return ok
}

// makeCall returns a *NativeCallExpression if callee is the name of a native function, a *CallExpression
// otherwise. It panics with a diagnostic if the arity of the native function is not respected.
func makeCall(span NodeSpan, callee Node, args []Node, isPipe bool) Node {
	if ident, ok := callee.(*IdentifierLiteral); ok {
		if fn, ok := NATIVE_FUNCTIONS[ident.Name]; ok {
			if len(args) != fn.Arity() {
				panic(newParsingError(fmtNativeArity(fn.Name, fn.Arity()), ident.Span))
			}
			return &NativeCallExpression{
				NodeBase:  NodeBase{Span: ident.Span},
				Function:  fn,
				Arguments: args,
				IsPipe:    isPipe,
			}
		}
	}

	return &CallExpression{
		NodeBase:  NodeBase{Span: span},
		Callee:    callee,
		Arguments: args,
		IsPipe:    isPipe,
	}
}
