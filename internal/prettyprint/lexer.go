package prettyprint

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/sparvlang/sparv/internal/parse"
)

var (
	CONTROL_KEYWORDS = []string{
		parse.IF_KEYWORD_STRING, parse.ELSE_KEYWORD_STRING, parse.WHILE_KEYWORD_STRING, parse.FOR_KEYWORD_STRING,
		parse.IN_KEYWORD_STRING, parse.LOOP_KEYWORD_STRING, parse.RETURN_KEYWORD_STRING, parse.MATCH_KEYWORD_STRING,
	}
	OTHER_KEYWORDS = []string{
		parse.VAR_KEYWORD_STRING, parse.FUN_KEYWORD_STRING, parse.IMPORT_KEYWORD_STRING,
		parse.AND_KEYWORD_STRING, parse.OR_KEYWORD_STRING,
	}
	CONSTANT_KEYWORDS = []string{
		parse.TRUE_KEYWORD_STRING, parse.FALSE_KEYWORD_STRING, parse.NIL_KEYWORD_STRING,
	}

	// SparvLexer is a chroma lexer for Sparv source code.
	SparvLexer = chroma.MustNewLexer(
		&chroma.Config{
			Name:      "Sparv",
			Aliases:   []string{"sparv"},
			Filenames: []string{"*.sparv"},
			MimeTypes: []string{"text/x-sparv"},
		},
		sparvRules,
	)
)

func sparvRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			{Pattern: `\s+`, Type: chroma.Text},
			{Pattern: `//[^\n]*`, Type: chroma.CommentSingle},
			{Pattern: `"[^"]*"?`, Type: chroma.LiteralString},
			{Pattern: `[0-9][0-9_.]*`, Type: chroma.LiteralNumber},
			{Pattern: chroma.Words(`\b`, `\b`, CONTROL_KEYWORDS...), Type: chroma.Keyword},
			{Pattern: chroma.Words(`\b`, `\b`, OTHER_KEYWORDS...), Type: chroma.KeywordDeclaration},
			{Pattern: chroma.Words(`\b`, `\b`, CONSTANT_KEYWORDS...), Type: chroma.KeywordConstant},
			{Pattern: chroma.Words(`\b`, `\b`, parse.NATIVE_FUNCTION_NAMES...), Type: chroma.NameBuiltin},
			{Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Type: chroma.Name},
			{Pattern: `->|==|!=|<=|>=|\+=|-=|[-+*/%<>=!:|.]`, Type: chroma.Operator},
			{Pattern: `[(){}\[\],;]`, Type: chroma.Punctuation},
			{Pattern: `.`, Type: chroma.Error},
		},
	}
}
