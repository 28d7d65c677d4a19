package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/sparvlang/sparv/internal/parse"
	"github.com/sparvlang/sparv/internal/sourcecode"
	"github.com/sparvlang/sparv/internal/utils"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	MAX_SUGGESTION_DISTANCE = 2
)

// AnalysisData is the result of the static analysis of a chunk.
type AnalysisData struct {
	Errors   []*sourcecode.Diagnostic
	Warnings []*sourcecode.Diagnostic

	//name of declared function -> parameter names
	Functions map[string][]string

	//names of all declared variables (any scope), in declaration order and without duplicates.
	DeclaredNames []string
}

func (d *AnalysisData) HasErrors() bool {
	return len(d.Errors) != 0
}

// FunctionNames returns the sorted names of the declared functions.
func (d *AnalysisData) FunctionNames() []string {
	names := maps.Keys(d.Functions)
	slices.Sort(names)
	return names
}

type AnalysisOption func(*checker)

// WithPredeclared makes the analysis consider that the names are declared in a frame enclosing the module.
func WithPredeclared(names ...string) AnalysisOption {
	return func(c *checker) {
		frame := c.frames[0]
		for _, name := range names {
			frame[name] = c.addDeclaration(nil, name, false)
		}
	}
}

// Analyze walks the chunk once and reports undeclared variables, duplicate declarations in a same scope and
// unused variables. Analysis never stops at the first error, all errors are accumulated.
func Analyze(chunk *parse.Chunk, opts ...AnalysisOption) *AnalysisData {
	checker := &checker{
		frames: []map[string]int{{}},
		used:   bitset.New(64),
		data: &AnalysisData{
			Functions: map[string][]string{},
		},
		declaredNames: map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(checker)
	}

	//module frame
	checker.pushFrame()
	checker.checkStatements(chunk.Statements)
	checker.popFrame()

	checker.reportUnusedVariables()
	return checker.data
}

// checker holds the state of a single analysis, it is not reused.
type checker struct {
	//innermost frame is the last one, name -> declaration index
	frames []map[string]int

	declarations []declaration
	used         *bitset.BitSet

	declaredNames map[string]struct{}
	data          *AnalysisData
}

type declaration struct {
	name         string
	node         *parse.IdentifierLiteral //nil for predeclared names
	reportUnused bool
}

func (c *checker) pushFrame() {
	c.frames = append(c.frames, map[string]int{})
}

func (c *checker) popFrame() {
	if len(c.frames) <= 1 {
		panic(fmt.Errorf("%w: no frame to pop", ErrUnreachable))
	}
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *checker) addError(node parse.Node, msg string) {
	c.data.Errors = append(c.data.Errors, makeCheckError(node, msg))
}

func (c *checker) addDeclaration(node *parse.IdentifierLiteral, name string, reportUnused bool) int {
	c.declarations = append(c.declarations, declaration{
		name:         name,
		node:         node,
		reportUnused: reportUnused,
	})
	return len(c.declarations) - 1
}

// declare adds a variable to the innermost frame, a variable cannot be declared twice in the same frame.
func (c *checker) declare(ident *parse.IdentifierLiteral, reportUnused bool) {
	frame := c.frames[len(c.frames)-1]
	name := ident.Name

	if _, ok := frame[name]; ok {
		c.addError(ident, fmtVariableAlreadyDeclared(name))
		return
	}

	frame[name] = c.addDeclaration(ident, name, reportUnused && !strings.HasPrefix(name, "_"))

	if _, ok := c.declaredNames[name]; !ok {
		c.declaredNames[name] = struct{}{}
		c.data.DeclaredNames = append(c.data.DeclaredNames, name)
	}
}

// resolve searches the declaration of a variable from the innermost frame to the outermost one.
func (c *checker) resolve(name string) (int, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if index, ok := c.frames[i][name]; ok {
			return index, true
		}
	}
	return -1, false
}

func (c *checker) checkReference(ident *parse.IdentifierLiteral, markUsed bool) {
	index, ok := c.resolve(ident.Name)
	if ok {
		if markUsed {
			c.used.Set(uint(index))
		}
		return
	}

	if parse.IsNativeFunctionName(ident.Name) {
		c.addError(ident, fmtNativeFunctionCanOnlyBeCalled(ident.Name))
		return
	}

	if suggestion, ok := c.suggestName(ident.Name); ok {
		c.addError(ident, fmtVariableNotDeclaredDidYouMean(ident.Name, suggestion))
	} else {
		c.addError(ident, fmtVariableNotDeclared(ident.Name))
	}
}

func (c *checker) suggestName(name string) (string, bool) {
	var candidates []string
	for _, frame := range c.frames {
		candidates = append(candidates, maps.Keys(frame)...)
	}
	candidates = append(candidates, parse.NATIVE_FUNCTION_NAMES...)
	slices.Sort(candidates)

	suggestion, _, ok := utils.FindClosestString(context.Background(), candidates, name, MAX_SUGGESTION_DISTANCE)
	return suggestion, ok
}

func (c *checker) reportUnusedVariables() {
	for i, decl := range c.declarations {
		if !decl.reportUnused || c.used.Test(uint(i)) {
			continue
		}
		c.data.Warnings = append(c.data.Warnings, makeCheckWarning(decl.node, fmtVariableDeclaredButNotUsed(decl.name)))
	}
}

func (c *checker) checkStatements(statements []parse.Node) {
	for _, stmt := range statements {
		c.check(stmt)
	}
}

// checkBlock checks the statements of a block in a new frame.
func (c *checker) checkBlock(block *parse.Block) {
	c.pushFrame()
	defer c.popFrame()
	c.checkStatements(block.Statements)
}

func (c *checker) check(node parse.Node) {
	switch n := node.(type) {
	case *parse.Chunk:
		c.checkStatements(n.Statements)
	case *parse.Block:
		c.checkBlock(n)
	case *parse.ExpressionStatement:
		c.check(n.Expr)
	case *parse.VariableDeclaration:
		fn, isFunction := n.Init.(*parse.FunctionExpression)
		if isFunction {
			c.data.Functions[n.Name.Name] = fn.ParameterNames()
		}

		//the name is declared before checking the initializer so that functions can call themselves.
		c.declare(n.Name, !isFunction)
		if n.Init != nil {
			c.check(n.Init)
		}
	case *parse.IfStatement:
		c.check(n.Test)
		c.checkBlock(n.Consequent)
		switch alternate := n.Alternate.(type) {
		case *parse.Block:
			c.checkBlock(alternate)
		case *parse.IfStatement:
			c.check(alternate)
		}
	case *parse.WhileStatement:
		c.check(n.Test)
		c.checkBlock(n.Body)
	case *parse.ForStatement:
		c.check(n.Iterated)

		//the loop variable and the body share the same frame.
		c.pushFrame()
		c.declare(n.Variable, false)
		c.checkStatements(n.Body.Statements)
		c.popFrame()
	case *parse.LoopStatement:
		c.check(n.Count)
		c.checkBlock(n.Body)
	case *parse.ReturnStatement:
		if n.Expr != nil {
			c.check(n.Expr)
		}
	case *parse.ImportStatement:
	case *parse.NumberLiteral, *parse.StringLiteral, *parse.BooleanLiteral, *parse.NilLiteral:
	case *parse.IdentifierLiteral:
		c.checkReference(n, true)
	case *parse.ListLiteral:
		for _, elem := range n.Elements {
			c.check(elem)
		}
	case *parse.ObjectLiteral:
		for _, prop := range n.Properties {
			c.check(prop.Value)
		}
	case *parse.BinaryExpression:
		c.check(n.Left)
		c.check(n.Right)
	case *parse.UnaryExpression:
		c.check(n.Operand)
	case *parse.RangeExpression:
		c.check(n.Lower)
		c.check(n.Upper)
	case *parse.AssignmentExpression:
		//a plain assignment to a variable is not a use of the variable.
		if ident, ok := n.Left.(*parse.IdentifierLiteral); ok && n.Operator == parse.Assign {
			c.checkReference(ident, false)
		} else {
			c.check(n.Left)
		}
		c.check(n.Right)
	case *parse.IndexExpression:
		c.check(n.Indexed)
		c.check(n.Index)
	case *parse.MemberExpression:
		c.check(n.Left)
	case *parse.ComputedMemberExpression:
		c.check(n.Left)
		c.check(n.PropertyName)
	case *parse.FunctionExpression:
		//the parameters and the body share the same frame.
		c.pushFrame()
		for _, param := range n.Parameters {
			c.declare(param, false)
		}
		c.checkStatements(n.Body.Statements)
		c.popFrame()
	case *parse.CallExpression:
		c.check(n.Callee)
		for _, arg := range n.Arguments {
			c.check(arg)
		}
	case *parse.NativeCallExpression:
		for _, arg := range n.Arguments {
			c.check(arg)
		}
	case *parse.MatchExpression:
		c.check(n.Discriminant)
		for _, matchCase := range n.Cases {
			c.check(matchCase.Value)
			c.check(matchCase.Result)
		}
	default:
		panic(fmt.Errorf("%w: cannot analyze a %T", ErrUnreachable, n))
	}
}
