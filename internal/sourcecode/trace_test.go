package sourcecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTrace(t *testing.T) {

	t.Run("first line", func(t *testing.T) {
		src := NewChunkSource("a.sparv", "print(b);")
		d := NewDiagnostic("variable 'b' is not declared", 1, 6, 7)

		trace := FormatTraceString(src, d, TraceConfig{})
		expected := strings.Join([]string{
			"   |",
			"1  | print(b);",
			"   |       ^",
			"   |",
			">>> variable 'b' is not declared at 1:6",
			"",
		}, "\n")

		assert.Equal(t, expected, trace)
	})

	t.Run("previous line is shown", func(t *testing.T) {
		src := NewChunkSource("a.sparv", "var a = 1;\r\nprint(bb);")
		d := NewDiagnostic("variable 'bb' is not declared", 2, 6, 8)

		trace := FormatTraceString(src, d, TraceConfig{ShowSourceName: true})
		expected := strings.Join([]string{
			"Error in a.sparv",
			"1  | var a = 1;",
			"   |",
			"2  | print(bb);",
			"   |       ^^",
			"   |",
			">>> variable 'bb' is not declared at 2:6",
			"",
		}, "\n")

		assert.Equal(t, expected, trace)
	})

	t.Run("empty span is rendered with a single caret", func(t *testing.T) {
		src := NewChunkSource("", "var a = ")
		d := NewDiagnostic("unexpected end of input", 1, 8, 8)

		trace := FormatTraceString(src, d, TraceConfig{})
		assert.Contains(t, trace, "   |         ^\n")
	})

	t.Run("two-digit line numbers widen the gutter", func(t *testing.T) {
		src := NewChunkSource("", strings.Repeat("\n", 9)+"x;")
		d := NewDiagnostic("error", 10, 0, 1)

		trace := FormatTraceString(src, d, TraceConfig{})
		assert.Contains(t, trace, "9   | \n")
		assert.Contains(t, trace, "10  | x;\n")
		assert.Contains(t, trace, "    | ^\n")
	})

	t.Run("emphasize", func(t *testing.T) {
		src := NewChunkSource("", "x;")
		d := NewDiagnostic("error", 1, 0, 1)

		trace := FormatTraceString(src, d, TraceConfig{
			Emphasize: func(s string) string { return "<" + s + ">" },
		})
		assert.Contains(t, trace, "<^>")
		assert.Contains(t, trace, ">>> <error> at 1:0")
	})
}

func TestAggregateDiagnostics(t *testing.T) {
	assert.NoError(t, AggregateDiagnostics("a", nil))

	err := AggregateDiagnostics("a.sparv", []*Diagnostic{
		NewDiagnostic("first", 1, 0, 1),
		NewDiagnostic("second", 2, 3, 4),
	})

	if !assert.Error(t, err) {
		return
	}
	assert.Equal(t, "a.sparv:1:0: first\na.sparv:2:3: second", err.Error())
	assert.Len(t, err.(*DiagnosticAggregation).Diagnostics, 2)
}
