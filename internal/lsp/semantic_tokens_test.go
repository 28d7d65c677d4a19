package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTokens(t *testing.T) {
	t.Run("function declaration and calls", func(t *testing.T) {
		tokens := classifyTokens("fun add(a, b) { return a + b; }\nprint(add(x, 1)); // c")

		assert.Equal(t, []classifiedToken{
			{0, 0, 3, keywordToken},
			{0, 4, 3, functionToken},
			{0, 8, 1, parameterToken},
			{0, 11, 1, parameterToken},
			{0, 16, 6, keywordToken},
			{0, 23, 1, parameterToken},
			{0, 25, 1, operatorToken},
			{0, 27, 1, parameterToken},
			{1, 0, 5, macroToken},
			{1, 6, 3, functionToken},
			{1, 10, 1, variableToken},
			{1, 13, 1, numberToken},
			{1, 18, 4, commentToken},
		}, tokens)
	})

	t.Run("expression body ends at the semicolon", func(t *testing.T) {
		tokens := classifyTokens("fun(x) x * 2; x;")

		assert.Equal(t, []classifiedToken{
			{0, 0, 3, keywordToken},
			{0, 4, 1, parameterToken},
			{0, 7, 1, parameterToken},
			{0, 9, 1, operatorToken},
			{0, 11, 1, numberToken},
			{0, 14, 1, variableToken},
		}, tokens)
	})

	t.Run("multi-line string", func(t *testing.T) {
		tokens := classifyTokens("var s = \"a\nbc\";")

		assert.Equal(t, []classifiedToken{
			{0, 0, 3, keywordToken},
			{0, 4, 1, variableToken},
			{0, 6, 1, operatorToken},
			{0, 8, 2, stringToken},
			{1, 0, 3, stringToken},
		}, tokens)
	})

	t.Run("tokens preceding a lexical error", func(t *testing.T) {
		tokens := classifyTokens("var a @ 1")

		assert.Equal(t, []classifiedToken{
			{0, 0, 3, keywordToken},
			{0, 4, 1, variableToken},
		}, tokens)
	})
}

func TestEncodeSemanticTokens(t *testing.T) {
	data := encodeSemanticTokens([]classifiedToken{
		{0, 0, 3, keywordToken},
		{0, 4, 1, variableToken},
		{2, 1, 2, numberToken},
	})

	assert.Equal(t, []uint{
		0, 0, 3, 7, 0,
		0, 4, 1, 1, 0,
		2, 1, 2, 5, 0,
	}, data)
}
