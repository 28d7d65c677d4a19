package lsp

import (
	"testing"

	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "one statement per line",
			input:    "var a = 1; var b = 2;",
			expected: "var a = 1;\nvar b = 2;",
		},
		{
			name:     "block on a single line",
			input:    "if a {print(a);}",
			expected: "if a {\n    print(a);\n}",
		},
		{
			name:     "repeated spaces and commas",
			input:    "var   x  =  [1,2,  3];",
			expected: "var x = [1, 2, 3];",
		},
		{
			name:     "reindentation",
			input:    "fun f(x) {\nif x {\n        return 1;\n}\n  return 2;\n}",
			expected: "fun f(x) {\n    if x {\n        return 1;\n    }\n    return 2;\n}",
		},
		{
			name:     "else on the closing line",
			input:    "if a {\nprint(1);\n} else {\nprint(2);\n}",
			expected: "if a {\n    print(1);\n} else {\n    print(2);\n}",
		},
		{
			name:     "multiline list",
			input:    "var l = [\n1,\n2\n];",
			expected: "var l = [\n    1,\n    2\n];",
		},
		{
			name:     "arrow at the end of a line",
			input:    "var r = [1, 2] ->\nprint;\nvar y = 1;",
			expected: "var r = [1, 2] ->\n    print;\nvar y = 1;",
		},
		{
			name:     "match arms are aligned",
			input:    "print(match x {\n1 | \"one\",\n100|\"hundred\",\n});",
			expected: "print(match x {\n    1   | \"one\",\n    100 | \"hundred\",\n});",
		},
		{
			name:     "comments are preserved",
			input:    "var a = 1;   // a  comment\nif a { // b\n}",
			expected: "var a = 1; // a  comment\nif a { // b\n}",
		},
		{
			name:     "strings are preserved",
			input:    "var s = \"a  ,b;\";",
			expected: "var s = \"a  ,b;\";",
		},
		{
			name:     "multiline strings are preserved",
			input:    "if a {\nvar s = \"x\n   y\";\n}",
			expected: "if a {\n    var s = \"x\n   y\";\n}",
		},
		{
			name:     "empty block",
			input:    "fun f() {}",
			expected: "fun f() {}",
		},
		{
			name:     "blank lines are kept and emptied",
			input:    "var a = 1;\n   \nvar b = 2;\n",
			expected: "var a = 1;\n\nvar b = 2;\n",
		},
		{
			name:     "carriage returns are removed",
			input:    "var a = 1;\r\nvar b = 2;",
			expected: "var a = 1;\nvar b = 2;",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			formatted := Format(testCase.input)
			assert.Equal(t, testCase.expected, formatted)
			assert.Equal(t, formatted, Format(formatted))
		})
	}
}

func TestFormattingEdits(t *testing.T) {
	t.Run("formatted source", func(t *testing.T) {
		assert.Empty(t, FormattingEdits("var a = 1;\n"))
	})

	t.Run("source to format", func(t *testing.T) {
		edits := FormattingEdits("var a = 1; var b = 2;\nprint(a,b);")
		require.Len(t, edits, 1)

		assert.Equal(t, defines.Range{
			Start: defines.Position{Line: 0, Character: 0},
			End:   defines.Position{Line: 1, Character: 11},
		}, edits[0].Range)
		assert.Equal(t, "var a = 1;\nvar b = 2;\nprint(a, b);", edits[0].NewText)
	})
}
