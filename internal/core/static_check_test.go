package core

import (
	"testing"

	"github.com/sparvlang/sparv/internal/parse"
	"github.com/sparvlang/sparv/internal/sourcecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {

	analyze := func(code string, opts ...AnalysisOption) *AnalysisData {
		return Analyze(parse.MustParseChunk(code), opts...)
	}

	messages := func(diagnostics []*sourcecode.Diagnostic) []string {
		var msgs []string
		for _, d := range diagnostics {
			msgs = append(msgs, d.Message)
		}
		return msgs
	}

	t.Run("duplicate declaration", func(t *testing.T) {
		t.Run("same block", func(t *testing.T) {
			data := analyze("var x = 1; var x = 2;")

			require.Len(t, data.Errors, 1)
			assert.Equal(t, fmtVariableAlreadyDeclared("x"), data.Errors[0].Message)
			assert.EqualValues(t, 1, data.Errors[0].Line)
			assert.EqualValues(t, 15, data.Errors[0].Start)
			assert.EqualValues(t, 16, data.Errors[0].End)
		})

		t.Run("nested if block", func(t *testing.T) {
			data := analyze("var x = 1; if true { var x = 2; print(x); } print(x);")
			assert.Empty(t, data.Errors)
		})

		t.Run("sibling blocks", func(t *testing.T) {
			data := analyze("if true { var y = 1; print(y); } else { var y = 2; print(y); }")
			assert.Empty(t, data.Errors)
		})

		t.Run("function declared twice", func(t *testing.T) {
			data := analyze("fun f() 1; fun f() 2;")
			assert.Equal(t, []string{fmtVariableAlreadyDeclared("f")}, messages(data.Errors))
		})

		t.Run("parameter redeclared in the body", func(t *testing.T) {
			data := analyze("fun f(a) { var a = 1; return a; }")
			assert.Equal(t, []string{fmtVariableAlreadyDeclared("a")}, messages(data.Errors))
		})

		t.Run("loop variable redeclared in the body", func(t *testing.T) {
			data := analyze("for i in [1] { var i = 2; print(i); }")
			assert.Equal(t, []string{fmtVariableAlreadyDeclared("i")}, messages(data.Errors))
		})

		t.Run("while bodies", func(t *testing.T) {
			data := analyze("var a = 0; while a < 1 { var a = 2; print(a); }")
			assert.Empty(t, data.Errors)
		})
	})

	t.Run("undeclared variable", func(t *testing.T) {
		t.Run("no suggestion", func(t *testing.T) {
			data := analyze("print(y);")

			require.Len(t, data.Errors, 1)
			assert.Equal(t, fmtVariableNotDeclared("y"), data.Errors[0].Message)
			assert.EqualValues(t, 6, data.Errors[0].Start)
			assert.EqualValues(t, 7, data.Errors[0].End)
		})

		t.Run("suggestion", func(t *testing.T) {
			data := analyze("var count = 1; print(coutn);")
			assert.Equal(t, []string{fmtVariableNotDeclaredDidYouMean("coutn", "count")}, messages(data.Errors))
		})

		t.Run("native function name suggested", func(t *testing.T) {
			data := analyze("pirnt(1);")
			assert.Equal(t, []string{fmtVariableNotDeclaredDidYouMean("pirnt", "print")}, messages(data.Errors))
		})

		t.Run("errors are accumulated", func(t *testing.T) {
			data := analyze("print(undefinedA); print(undefinedB);")
			assert.Equal(t, []string{fmtVariableNotDeclared("undefinedA"), fmtVariableNotDeclared("undefinedB")}, messages(data.Errors))
		})

		t.Run("loop variable is not visible after the loop", func(t *testing.T) {
			data := analyze("for i in [1, 2] { print(i); } print(i);")
			assert.Equal(t, []string{fmtVariableNotDeclared("i")}, messages(data.Errors))
		})

		t.Run("block variable is not visible after the block", func(t *testing.T) {
			data := analyze("if true { var blockVar = 1; print(blockVar); } print(blockVar);")
			assert.Equal(t, []string{fmtVariableNotDeclared("blockVar")}, messages(data.Errors))
		})

		t.Run("use before declaration", func(t *testing.T) {
			data := analyze("print(laterVar); var laterVar = 1;")
			assert.Equal(t, []string{fmtVariableNotDeclared("laterVar")}, messages(data.Errors))
		})

		t.Run("assignment", func(t *testing.T) {
			data := analyze("undefinedVar = 1;")
			assert.Equal(t, []string{fmtVariableNotDeclared("undefinedVar")}, messages(data.Errors))
		})

		t.Run("property names are not references", func(t *testing.T) {
			data := analyze("var o = {a: 1}; o.b = o.a;")
			assert.Empty(t, data.Errors)
		})

		t.Run("native function used as a value", func(t *testing.T) {
			data := analyze("var f = print;")
			assert.Equal(t, []string{fmtNativeFunctionCanOnlyBeCalled("print")}, messages(data.Errors))
		})
	})

	t.Run("functions", func(t *testing.T) {
		t.Run("recursion", func(t *testing.T) {
			data := analyze("fun fact(n) { if n < 2 { return 1; } return n * fact(n - 1); } print(fact(5));")
			assert.Empty(t, data.Errors)
		})

		t.Run("closure over an outer variable", func(t *testing.T) {
			data := analyze("var n = 0; fun inc() { n += 1; return n; } inc();")
			assert.Empty(t, data.Errors)
			assert.Empty(t, data.Warnings)
		})

		t.Run("function table and declared names", func(t *testing.T) {
			data := analyze("fun add(a, b) { return a + b; } var x = add(1, 2); if x > 1 { var y = x; print(y); } var g = fun() 1;")

			assert.Empty(t, data.Errors)
			assert.Equal(t, map[string][]string{
				"add": {"a", "b"},
				"g":   {},
			}, data.Functions)
			assert.Equal(t, []string{"add", "g"}, data.FunctionNames())
			assert.Equal(t, []string{"add", "a", "b", "x", "y", "g"}, data.DeclaredNames)
		})

		t.Run("declared names are not duplicated", func(t *testing.T) {
			data := analyze("var a = 1; if a { var a = 2; print(a); }")
			assert.Equal(t, []string{"a"}, data.DeclaredNames)
		})
	})

	t.Run("unused variables", func(t *testing.T) {
		t.Run("only variables are reported", func(t *testing.T) {
			data := analyze("var a = 1; var _b = 2; fun f(x) { return 1; } for i in [1] { }")

			assert.Empty(t, data.Errors)
			require.Len(t, data.Warnings, 1)
			assert.Equal(t, fmtVariableDeclaredButNotUsed("a"), data.Warnings[0].Message)
			assert.True(t, data.Warnings[0].IsWarning())
		})

		t.Run("assignment is not a use", func(t *testing.T) {
			data := analyze("var a = 1; a = 2;")
			assert.Equal(t, []string{fmtVariableDeclaredButNotUsed("a")}, messages(data.Warnings))
		})

		t.Run("compound assignment is a use", func(t *testing.T) {
			data := analyze("var a = 1; a += 2;")
			assert.Empty(t, data.Warnings)
		})
	})

	t.Run("predeclared names", func(t *testing.T) {
		data := analyze("x + 1;", WithPredeclared("x"))
		assert.Empty(t, data.Errors)

		data = analyze("var x = 2; print(x);", WithPredeclared("x"))
		assert.Empty(t, data.Errors)
		assert.Equal(t, []string{"x"}, data.DeclaredNames)
	})
}

func TestParse(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		result := Parse("var x = 1;\nvar y = ;")

		assert.Nil(t, result.Chunk)
		assert.Nil(t, result.Analysis)
		require.Len(t, result.Errors, 1)
		assert.EqualValues(t, 2, result.Errors[0].Line)
		assert.NotEmpty(t, result.Tokens)
	})

	t.Run("lexical error", func(t *testing.T) {
		result := Parse("var x = 1; @")

		assert.Nil(t, result.Chunk)
		require.Len(t, result.Errors, 1)
		assert.Len(t, result.Tokens, 5)
	})

	t.Run("analysis errors are merged", func(t *testing.T) {
		result := Parse("print(y);")

		require.NotNil(t, result.Chunk)
		assert.True(t, result.HasErrors())
		assert.Equal(t, result.Analysis.Errors, result.Errors)
	})

	t.Run("no errors", func(t *testing.T) {
		result := Parse("// comment\nvar a = 1; print(a);")

		require.NotNil(t, result.Chunk)
		assert.False(t, result.HasErrors())
		assert.Len(t, result.Chunk.Statements, 2)
	})
}

func TestRun(t *testing.T) {
	t.Run("analysis errors prevent the execution", func(t *testing.T) {
		state := NewTreeWalkState(StateConfig{})
		_, err := Run("print(1); print(y);", state)

		var aggregation *sourcecode.DiagnosticAggregation
		require.ErrorAs(t, err, &aggregation)
		assert.Len(t, aggregation.Diagnostics, 1)
	})
}
