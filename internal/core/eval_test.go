package core_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eval parses, analyzes and executes the code, the analysis is expected to report no error.
func eval(t *testing.T, code string, config ...core.StateConfig) (core.Value, string, error) {
	t.Helper()

	result := core.Parse(code)
	require.Empty(t, result.Errors)

	var cfg core.StateConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	out := bytes.NewBuffer(nil)
	cfg.Out = out

	state := core.NewTreeWalkState(cfg)
	value, err := core.Interpret(result.Chunk, state)
	return value, out.String(), err
}

func TestTreeWalkEval(t *testing.T) {

	t.Run("operators", func(t *testing.T) {
		testCases := []struct {
			code   string
			result string
			err    error
		}{
			//precedence & associativity
			{"return 1 + 2 * 3;", "7", nil},
			{"return (1 + 2) * 3;", "9", nil},
			{"return 10 - 4 - 3;", "3", nil},
			{"return 2 * 3 % 4;", "2", nil},
			{"return -2 * 3;", "-6", nil},
			{"return 7 / 2;", "3.5", nil},
			{"return !true or true;", "true", nil},
			{"return 1 < 2 and 3 > 4;", "false", nil},
			{"return 1 + 1 == 2;", "true", nil},
			{"return 2 >= 2 and 1 <= 0;", "false", nil},

			//addition & concatenation
			{`return "ab" + 1;`, "ab1", nil},
			{"return 1 + [2];", "1[2]", nil},
			{`return "n: " + nil;`, "n: nil", nil},
			{`return true + "!";`, "true!", nil},
			{"return [1] + [2, 3];", "[1, 2, 3]", nil},

			//repetition
			{`return "ab" * 3;`, "ababab", nil},
			{`return 2 * "x";`, "xx", nil},
			{`return "ab" * 0;`, "", nil},
			{`return "ab" * -1;`, "", core.ErrInvalidRepetitionCount},
			{`return [1] * 2;`, "", core.ErrTypeError},

			//numeric operators
			{`return 1 - "a";`, "", core.ErrTypeError},
			{`return "a" < 1;`, "", core.ErrTypeError},
			{`return nil % 2;`, "", core.ErrTypeError},
			{`return -"a";`, "", core.ErrTypeError},

			//truthiness
			{"return !nil;", "true", nil},
			{"return !0;", "false", nil},
			{`return "" and [];`, "true", nil},
			{"return nil or false;", "false", nil},

			//equality
			{"return [1, 2] == [1, 2];", "true", nil},
			{"return [1, 2] == [2, 1];", "false", nil},
			{"return {a: 1} == {a: 1};", "true", nil},
			{`return 1 == "1";`, "false", nil},
			{"return nil == nil;", "true", nil},
			{"return nil == false;", "false", nil},
			{"return 1 != 2;", "true", nil},
		}

		for _, testCase := range testCases {
			t.Run(testCase.code, func(t *testing.T) {
				res, _, err := eval(t, testCase.code)

				if testCase.err != nil {
					assert.ErrorIs(t, err, testCase.err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, testCase.result, core.Stringify(res))
			})
		}
	})

	t.Run("type error message names the failing side", func(t *testing.T) {
		_, _, err := eval(t, `return 1 - "a";`)
		require.Error(t, err)
		assert.Equal(t, "right operand of '-' should be a number but is a <string>", err.Error())

		_, _, err = eval(t, `return "a" - 1;`)
		require.Error(t, err)
		assert.Equal(t, "left operand of '-' should be a number but is a <string>", err.Error())
	})

	t.Run("and/or short-circuit", func(t *testing.T) {
		_, out, err := eval(t, `false and print("a"); true or print("b"); true and print("c");`)
		require.NoError(t, err)
		assert.Equal(t, "c\n", out)
	})

	t.Run("variables", func(t *testing.T) {
		t.Run("declaration without initializer", func(t *testing.T) {
			res, _, err := eval(t, "var a; return a;")
			require.NoError(t, err)
			assert.Equal(t, core.Nil, res)
		})

		t.Run("assignment is an expression", func(t *testing.T) {
			res, _, err := eval(t, "var a; var b; a = b = 3; return a + b;")
			require.NoError(t, err)
			assert.Equal(t, core.Number(6), res)
		})

		t.Run("compound assignment", func(t *testing.T) {
			res, _, err := eval(t, `var a = 1; a += 2; a -= 0.5; var s = "a"; s += 1; return s + a;`)
			require.NoError(t, err)
			assert.Equal(t, core.String("a12.5"), res)
		})

		t.Run("assignment mutates the nearest frame declaring the variable", func(t *testing.T) {
			res, _, err := eval(t, "var a = 1; if true { a = 2; var b = 0; } return a;")
			require.NoError(t, err)
			assert.Equal(t, core.Number(2), res)
		})

		t.Run("shadowing in a nested block", func(t *testing.T) {
			res, _, err := eval(t, "var a = 1; if true { var a = 2; print(a); } return a;")
			require.NoError(t, err)
			assert.Equal(t, core.Number(1), res)
		})

		t.Run("assigning an undeclared variable", func(t *testing.T) {
			chunk := parse.MustParseChunk("y = 1;")
			state := core.NewTreeWalkState(core.StateConfig{})

			_, err := core.Interpret(chunk, state)
			assert.ErrorIs(t, err, core.ErrUndeclaredVariable)
		})

		t.Run("reading an undeclared variable", func(t *testing.T) {
			chunk := parse.MustParseChunk("return y;")
			state := core.NewTreeWalkState(core.StateConfig{})

			_, err := core.Interpret(chunk, state)
			assert.ErrorIs(t, err, core.ErrUndeclaredVariable)
		})
	})

	t.Run("functions", func(t *testing.T) {
		t.Run("closure returned by a function", func(t *testing.T) {
			res, _, err := eval(t, "fun make(n) { return fun() { return n; }; }; var f = make(5); return f() == 5;")
			require.NoError(t, err)
			assert.Equal(t, core.True, res)
		})

		t.Run("counter", func(t *testing.T) {
			code := `
				fun counter() {
					var c = 0;
					return fun() {
						c += 1;
						return c;
					};
				}
				var next = counter();
				var other = counter();
				next();
				next();
				other();
				return next();
			`
			res, _, err := eval(t, code)
			require.NoError(t, err)
			assert.Equal(t, core.Number(3), res)
		})

		t.Run("closures capture the frame, not a copy", func(t *testing.T) {
			res, _, err := eval(t, "var x = 1; fun get() x; x = 2; return get();")
			require.NoError(t, err)
			assert.Equal(t, core.Number(2), res)
		})

		t.Run("parameters shadow outer variables", func(t *testing.T) {
			res, _, err := eval(t, "var n = 1; fun f(n) n * 10; return f(2) + n;")
			require.NoError(t, err)
			assert.Equal(t, core.Number(21), res)
		})

		t.Run("recursion", func(t *testing.T) {
			res, _, err := eval(t, "fun fact(n) { if n < 2 { return 1; } return n * fact(n - 1); } return fact(10);")
			require.NoError(t, err)
			assert.Equal(t, core.Number(3628800), res)
		})

		t.Run("expression body", func(t *testing.T) {
			res, _, err := eval(t, "fun double(x) x * 2; return double(double(3));")
			require.NoError(t, err)
			assert.Equal(t, core.Number(12), res)
		})

		t.Run("function without return statement", func(t *testing.T) {
			res, _, err := eval(t, "fun f() { var a = 1; } return f();")
			require.NoError(t, err)
			assert.Equal(t, core.Nil, res)
		})

		t.Run("empty return", func(t *testing.T) {
			res, _, err := eval(t, "fun f() { return; } return f();")
			require.NoError(t, err)
			assert.Equal(t, core.Nil, res)
		})

		t.Run("return from nested loops pops every frame", func(t *testing.T) {
			code := `
				fun find(l, v) {
					for x in l {
						var i = 0;
						while i < 3 {
							if x == v {
								return "found";
							}
							i += 1;
						}
					}
					return "missing";
				}
				return find([1, 2], 2) + find([1], 3);
			`
			result := core.Parse(code)
			require.Empty(t, result.Errors)

			state := core.NewTreeWalkState(core.StateConfig{})
			res, err := core.Interpret(result.Chunk, state)
			require.NoError(t, err)
			assert.Equal(t, core.String("foundmissing"), res)
			assert.Len(t, state.LocalScopeStack, 1)
		})

		t.Run("top-level return stops the execution", func(t *testing.T) {
			res, out, err := eval(t, `print("a"); return 1; print("b");`)
			require.NoError(t, err)
			assert.Equal(t, core.Number(1), res)
			assert.Equal(t, "a\n", out)
		})

		t.Run("named function value", func(t *testing.T) {
			res, out, err := eval(t, "fun f() 1; print(f); return typeof(f);")
			require.NoError(t, err)
			assert.Equal(t, core.String("<function>"), res)
			assert.Equal(t, "<function>\n", out)
		})

		t.Run("wrong number of arguments", func(t *testing.T) {
			_, _, err := eval(t, "fun f(a) a; f(1, 2);")
			assert.ErrorIs(t, err, core.ErrWrongArgumentCount)
		})

		t.Run("calling a non function", func(t *testing.T) {
			_, _, err := eval(t, "var x = 1; x();")
			assert.ErrorIs(t, err, core.ErrNotCallable)
		})

		t.Run("infinite recursion", func(t *testing.T) {
			_, _, err := eval(t, "fun f(n) f(n + 1); f(0);")
			assert.ErrorIs(t, err, core.ErrStackOverflow)
		})
	})

	t.Run("control flow", func(t *testing.T) {
		testCases := []struct {
			name   string
			code   string
			result core.Value
		}{
			{"for over list", "var s = 0; for x in [1, 2, 3] { s += x; } return s;", core.Number(6)},
			{"for over string", `var s = ""; for c in "abc" { s = c + s; } return s;`, core.String("cba")},
			{"for over range", "var s = 0; for i in 0:5 { s += i; } return s;", core.Number(10)},
			{"while", "var i = 0; while i < 5 { i += 1; } return i;", core.Number(5)},
			{"loop", "var n = 0; loop 4 { n += 2; } return n;", core.Number(8)},
			{"loop zero times", "var n = 0; loop 0 { n += 2; } return n;", core.Number(0)},
			{"if", "if 1 > 0 { return 1; } return 2;", core.Number(1)},
			{"else", "if nil { return 1; } else { return 2; }", core.Number(2)},
			{"else if", "var a = 3; if a == 1 { return 1; } else if a == 3 { return 3; } else { return 0; }", core.Number(3)},
			{"zero is truthy", "if 0 { return 1; } return 2;", core.Number(1)},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				res, _, err := eval(t, testCase.code)
				require.NoError(t, err)
				assert.Equal(t, testCase.result, res)
			})
		}

		t.Run("each iteration has its own frame", func(t *testing.T) {
			res, _, err := eval(t, "var fns = []; for i in [1, 2] { fns = fns + [fun() i]; } return fns[0]() + fns[1]();")
			require.NoError(t, err)
			assert.Equal(t, core.Number(3), res)
		})

		t.Run("iterating over a number", func(t *testing.T) {
			_, _, err := eval(t, "for x in 3 { print(x); }")
			assert.ErrorIs(t, err, core.ErrTypeError)
		})

		t.Run("non-number loop count", func(t *testing.T) {
			_, _, err := eval(t, `loop "a" { print(1); }`)
			assert.ErrorIs(t, err, core.ErrTypeError)
		})

		t.Run("loop count", func(t *testing.T) {
			_, out, err := eval(t, "loop 2.5 { print(1); } loop -1 { print(2); }")
			require.NoError(t, err)
			assert.Equal(t, "1\n1\n", out)

			_, _, err = eval(t, "var n = 1000000000; loop n * n * n { }")
			assert.ErrorIs(t, err, core.ErrInvalidLoopCount)

			_, _, err = eval(t, "loop 0 / 0 { }")
			assert.ErrorIs(t, err, core.ErrInvalidLoopCount)
		})

		t.Run("cancelled context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, _, err := eval(t, "while true { }", core.StateConfig{Ctx: ctx})
			assert.ErrorIs(t, err, context.Canceled)
		})
	})

	t.Run("lists and strings", func(t *testing.T) {
		t.Run("index assignment", func(t *testing.T) {
			res, _, err := eval(t, "var l = [1, 2, 3]; l[0] = 10; l[1] += 5; return l;")
			require.NoError(t, err)
			assert.Equal(t, "[10, 7, 3]", core.Stringify(res))
		})

		t.Run("lists are shared", func(t *testing.T) {
			res, _, err := eval(t, "var a = [1]; var b = a; b[0] = 2; return a[0];")
			require.NoError(t, err)
			assert.Equal(t, core.Number(2), res)
		})

		t.Run("string index", func(t *testing.T) {
			res, _, err := eval(t, `return "héllo"[1];`)
			require.NoError(t, err)
			assert.Equal(t, core.String("é"), res)
		})

		t.Run("index errors", func(t *testing.T) {
			_, _, err := eval(t, "return [1][1];")
			assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

			_, _, err = eval(t, "return [1][-1];")
			assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

			_, _, err = eval(t, `return "a"[3];`)
			assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

			_, _, err = eval(t, "return [1][0.5];")
			assert.ErrorIs(t, err, core.ErrNonIntegerIndex)

			_, _, err = eval(t, `return [1]["0"];`)
			assert.ErrorIs(t, err, core.ErrTypeError)

			_, _, err = eval(t, "return nil[0];")
			assert.ErrorIs(t, err, core.ErrTypeError)

			_, _, err = eval(t, `var s = "a"; s[0] = "b";`)
			assert.ErrorIs(t, err, core.ErrTypeError)
		})

		t.Run("range", func(t *testing.T) {
			res, _, err := eval(t, "return 0:4;")
			require.NoError(t, err)
			assert.Equal(t, "[0, 1, 2, 3]", core.Stringify(res))

			res, _, err = eval(t, "return 3:1;")
			require.NoError(t, err)
			assert.Equal(t, "[]", core.Stringify(res))

			_, _, err = eval(t, `return 0:"a";`)
			assert.ErrorIs(t, err, core.ErrTypeError)
		})

		t.Run("range bounds", func(t *testing.T) {
			res, _, err := eval(t, "return 0.5:3;")
			require.NoError(t, err)
			assert.Equal(t, "[0.5, 1.5, 2.5]", core.Stringify(res))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			res, _, err = eval(t, "var l = 10000000000000000:10000000000000002; return len(l);", core.StateConfig{Ctx: ctx})
			require.NoError(t, err)
			assert.Equal(t, core.Number(2), res)

			_, _, err = eval(t, "return 0:1000000000000;", core.StateConfig{Ctx: ctx})
			assert.ErrorIs(t, err, core.ErrInvalidRange)

			_, _, err = eval(t, "return 0:(1 / 0);")
			assert.ErrorIs(t, err, core.ErrInvalidRange)
		})
	})

	t.Run("objects", func(t *testing.T) {
		t.Run("fields", func(t *testing.T) {
			res, _, err := eval(t, "var o = {a: 1}; o.b = 2; o.a += 1; return o.a + o.b;")
			require.NoError(t, err)
			assert.Equal(t, core.Number(4), res)
		})

		t.Run("missing field", func(t *testing.T) {
			res, _, err := eval(t, "var o = {a: 1}; return o.missing;")
			require.NoError(t, err)
			assert.Equal(t, core.Nil, res)
		})

		t.Run("computed member", func(t *testing.T) {
			res, _, err := eval(t, `var k = "a"; var o = {a: 3}; o.[k + "b"] = 4; return o.[k] + o.ab;`)
			require.NoError(t, err)
			assert.Equal(t, core.Number(7), res)
		})

		t.Run("non-string computed member", func(t *testing.T) {
			_, _, err := eval(t, "var o = {a: 3}; return o.[1];")
			assert.ErrorIs(t, err, core.ErrTypeError)
		})

		t.Run("member of a non-object", func(t *testing.T) {
			_, _, err := eval(t, "var l = [1]; return l.a;")
			assert.ErrorIs(t, err, core.ErrTypeError)
		})

		t.Run("rendering keeps the insertion order", func(t *testing.T) {
			res, _, err := eval(t, `var o = {b: 1, "a": "x"}; o.c = [1]; return o;`)
			require.NoError(t, err)
			assert.Equal(t, "{ b: 1, a: x, c: [1] }", core.Stringify(res))
		})

		t.Run("cycle", func(t *testing.T) {
			res, _, err := eval(t, "var o = {}; o.self = o; return o;")
			require.NoError(t, err)
			assert.Equal(t, "{ self: ... }", core.Stringify(res))
		})
	})

	t.Run("match", func(t *testing.T) {
		code := `
			fun name(n) match n {
				1 | "one",
				2 | "two",
			}
			return [name(1), name(2), name(3)];
		`
		res, _, err := eval(t, code)
		require.NoError(t, err)
		assert.Equal(t, "[one, two, nil]", core.Stringify(res))
	})

	t.Run("pipe", func(t *testing.T) {
		res, _, err := eval(t, "return [3, 1, 2] -> len;")
		require.NoError(t, err)
		assert.Equal(t, core.Number(3), res)

		res, _, err = eval(t, "fun double(x) x * 2; return 4 -> double -> double;")
		require.NoError(t, err)
		assert.Equal(t, core.Number(16), res)
	})

	t.Run("error location", func(t *testing.T) {
		_, _, err := eval(t, "var a = 1;\nvar b = a - \"x\";")
		require.Error(t, err)

		var evalErr *core.EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.EqualValues(t, 2, evalErr.Diagnostic.Line)
		assert.EqualValues(t, 10, evalErr.Diagnostic.Start)
		assert.EqualValues(t, 11, evalErr.Diagnostic.End)
	})

	t.Run("import statements do nothing", func(t *testing.T) {
		res, _, err := eval(t, `import "lib.sparv"; return 1;`)
		require.NoError(t, err)
		assert.Equal(t, core.Number(1), res)
	})
}

func TestNativeFunctions(t *testing.T) {

	t.Run("print", func(t *testing.T) {
		res, out, err := eval(t, `print("hi"); print(1.5); print([1, "a", nil]); return print(true);`)
		require.NoError(t, err)
		assert.Equal(t, "hi\n1.5\n[1, a, nil]\ntrue\n", out)
		assert.Equal(t, core.True, res)
	})

	t.Run("len", func(t *testing.T) {
		res, _, err := eval(t, `return len("héllo") + len([1, 2]) + len({a: 1});`)
		require.NoError(t, err)
		assert.Equal(t, core.Number(8), res)

		_, _, err = eval(t, "return len(1);")
		assert.ErrorIs(t, err, core.ErrTypeError)
	})

	t.Run("typeof", func(t *testing.T) {
		res, _, err := eval(t, `return typeof(1) + typeof("a") + typeof(nil) + typeof({}) + typeof([]) + typeof(true) + typeof(fun() 1);`)
		require.NoError(t, err)
		assert.Equal(t, core.String("<number><string><nil><object><list><bool><function>"), res)
	})

	t.Run("parse", func(t *testing.T) {
		res, _, err := eval(t, `return parse(" 42 ") + 1;`)
		require.NoError(t, err)
		assert.Equal(t, core.Number(43), res)

		_, _, err = eval(t, `return parse("abc");`)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)

		_, _, err = eval(t, `return parse(1);`)
		assert.ErrorIs(t, err, core.ErrTypeError)
	})

	t.Run("split", func(t *testing.T) {
		res, _, err := eval(t, `return split("a,b,,c", ",");`)
		require.NoError(t, err)
		assert.Equal(t, "[a, b, c]", core.Stringify(res))

		res, _, err = eval(t, `return split(12, "");`)
		require.NoError(t, err)
		assert.Equal(t, "[12]", core.Stringify(res))

		res, _, err = eval(t, "return split(\"a\nb\", \"\\n\");")
		require.NoError(t, err)
		assert.Equal(t, "[a, b]", core.Stringify(res))

		_, _, err = eval(t, `return split("a", 1);`)
		assert.ErrorIs(t, err, core.ErrTypeError)
	})

	t.Run("lines", func(t *testing.T) {
		res, _, err := eval(t, "return lines(\"a\n\nb\n\");")
		require.NoError(t, err)
		assert.Equal(t, "[a, b]", core.Stringify(res))
	})

	t.Run("sort", func(t *testing.T) {
		res, _, err := eval(t, "var l = [3, 1, 2]; var r = sort(l); return [l, r];")
		require.NoError(t, err)
		assert.Equal(t, "[[1, 2, 3], nil]", core.Stringify(res))

		res, _, err = eval(t, `var l = ["b", "a10", "a2"]; sort(l); return l;`)
		require.NoError(t, err)
		assert.Equal(t, "[a2, a10, b]", core.Stringify(res))

		_, _, err = eval(t, `sort([1, "a"]);`)
		assert.ErrorIs(t, err, core.ErrTypeError)

		_, _, err = eval(t, `sort([[1]]);`)
		assert.ErrorIs(t, err, core.ErrTypeError)
	})

	t.Run("xor", func(t *testing.T) {
		res, _, err := eval(t, "return xor(5, 3);")
		require.NoError(t, err)
		assert.Equal(t, core.Number(6), res)
	})

	t.Run("abs", func(t *testing.T) {
		res, _, err := eval(t, "return abs(-2.5);")
		require.NoError(t, err)
		assert.Equal(t, core.Number(2.5), res)
	})

	t.Run("time", func(t *testing.T) {
		res, _, err := eval(t, "return time() >= 0;")
		require.NoError(t, err)
		assert.Equal(t, core.True, res)
	})

	t.Run("read_input", func(t *testing.T) {
		code := "var a = read_input(); var b = read_input(); var c = read_input(); return [a, b, c];"
		res, _, err := eval(t, code, core.StateConfig{In: strings.NewReader("first\r\nsecond")})
		require.NoError(t, err)
		assert.Equal(t, "[first, second, nil]", core.Stringify(res))
	})

	t.Run("read_file", func(t *testing.T) {
		fls := memfs.New()
		require.NoError(t, util.WriteFile(fls, "data.txt", []byte("content"), 0o644))

		res, _, err := eval(t, `return read_file("data.txt");`, core.StateConfig{Filesystem: fls})
		require.NoError(t, err)
		assert.Equal(t, core.String("content"), res)

		_, _, err = eval(t, `return read_file("missing.txt");`, core.StateConfig{Filesystem: fls})
		assert.ErrorIs(t, err, core.ErrNativeFunctionIO)

		_, _, err = eval(t, `return read_file("data.txt");`)
		assert.ErrorIs(t, err, core.ErrNoFilesystem)
	})

	t.Run("error is located at the native call", func(t *testing.T) {
		_, _, err := eval(t, "\n  len(1);")

		var evalErr *core.EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.EqualValues(t, 2, evalErr.Diagnostic.Line)
		assert.EqualValues(t, 2, evalErr.Diagnostic.Start)
		assert.EqualValues(t, 5, evalErr.Diagnostic.End)
	})
}
