package parse

import (
	"fmt"
)

const (
	VAR_KEYWORD_STRING    = "var"
	TRUE_KEYWORD_STRING   = "true"
	FALSE_KEYWORD_STRING  = "false"
	NIL_KEYWORD_STRING    = "nil"
	AND_KEYWORD_STRING    = "and"
	OR_KEYWORD_STRING     = "or"
	IF_KEYWORD_STRING     = "if"
	ELSE_KEYWORD_STRING   = "else"
	WHILE_KEYWORD_STRING  = "while"
	FOR_KEYWORD_STRING    = "for"
	LOOP_KEYWORD_STRING   = "loop"
	FUN_KEYWORD_STRING    = "fun"
	IN_KEYWORD_STRING     = "in"
	RETURN_KEYWORD_STRING = "return"
	IMPORT_KEYWORD_STRING = "import"
	MATCH_KEYWORD_STRING  = "match"
)

// A Token is the smallest lexical unit, tokens are immutable.
// Line is 1-based, Start and End are 0-based columns (End is exclusive).
type Token struct {
	Type  TokenType `json:"type"`
	Raw   string    `json:"raw"`
	Line  int32     `json:"line"`
	Start int32     `json:"start"`
	End   int32     `json:"end"`
}

func (t Token) Str() string {
	if t.Raw != "" {
		return t.Raw
	}
	return tokenStrings[t.Type]
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) %d:%d", t.Type, t.Raw, t.Line, t.Start)
}

type TokenType uint16

const (
	// single-character tokens
	OPENING_PARENTHESIS TokenType = iota + 1
	CLOSING_PARENTHESIS
	OPENING_BRACKET
	CLOSING_BRACKET
	OPENING_CURLY_BRACKET
	CLOSING_CURLY_BRACKET
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	ASTERISK
	COLON
	PERCENT
	PIPE

	// one or two-character tokens
	EXCLAMATION_MARK
	EXCLAMATION_MARK_EQUAL
	EQUAL
	EQUAL_EQUAL
	GREATER_THAN
	GREATER_OR_EQUAL
	LESS_THAN
	LESS_OR_EQUAL
	ARROW
	PLUS_EQUAL
	MINUS_EQUAL

	// literals
	IDENTIFIER
	STRING_LITERAL
	NUMBER_LITERAL

	// keywords
	VAR_KEYWORD
	AND_KEYWORD
	ELSE_KEYWORD
	FALSE_KEYWORD
	FOR_KEYWORD
	LOOP_KEYWORD
	FUN_KEYWORD
	IF_KEYWORD
	NIL_KEYWORD
	OR_KEYWORD
	RETURN_KEYWORD
	TRUE_KEYWORD
	IN_KEYWORD
	WHILE_KEYWORD
	IMPORT_KEYWORD
	MATCH_KEYWORD

	EOF
	COMMENT
)

var (
	tokenStrings = [...]string{
		OPENING_PARENTHESIS:    "(",
		CLOSING_PARENTHESIS:    ")",
		OPENING_BRACKET:        "[",
		CLOSING_BRACKET:        "]",
		OPENING_CURLY_BRACKET:  "{",
		CLOSING_CURLY_BRACKET:  "}",
		COMMA:                  ",",
		DOT:                    ".",
		MINUS:                  "-",
		PLUS:                   "+",
		SEMICOLON:              ";",
		SLASH:                  "/",
		ASTERISK:               "*",
		COLON:                  ":",
		PERCENT:                "%",
		PIPE:                   "|",
		EXCLAMATION_MARK:       "!",
		EXCLAMATION_MARK_EQUAL: "!=",
		EQUAL:                  "=",
		EQUAL_EQUAL:            "==",
		GREATER_THAN:           ">",
		GREATER_OR_EQUAL:       ">=",
		LESS_THAN:              "<",
		LESS_OR_EQUAL:          "<=",
		ARROW:                  "->",
		PLUS_EQUAL:             "+=",
		MINUS_EQUAL:            "-=",
		VAR_KEYWORD:            VAR_KEYWORD_STRING,
		AND_KEYWORD:            AND_KEYWORD_STRING,
		ELSE_KEYWORD:           ELSE_KEYWORD_STRING,
		FALSE_KEYWORD:          FALSE_KEYWORD_STRING,
		FOR_KEYWORD:            FOR_KEYWORD_STRING,
		LOOP_KEYWORD:           LOOP_KEYWORD_STRING,
		FUN_KEYWORD:            FUN_KEYWORD_STRING,
		IF_KEYWORD:             IF_KEYWORD_STRING,
		NIL_KEYWORD:            NIL_KEYWORD_STRING,
		OR_KEYWORD:             OR_KEYWORD_STRING,
		RETURN_KEYWORD:         RETURN_KEYWORD_STRING,
		TRUE_KEYWORD:           TRUE_KEYWORD_STRING,
		IN_KEYWORD:             IN_KEYWORD_STRING,
		WHILE_KEYWORD:          WHILE_KEYWORD_STRING,
		IMPORT_KEYWORD:         IMPORT_KEYWORD_STRING,
		MATCH_KEYWORD:          MATCH_KEYWORD_STRING,
		EOF:                    "",
	}

	tokenTypenames = [...]string{
		OPENING_PARENTHESIS:    "OPENING_PARENTHESIS",
		CLOSING_PARENTHESIS:    "CLOSING_PARENTHESIS",
		OPENING_BRACKET:        "OPENING_BRACKET",
		CLOSING_BRACKET:        "CLOSING_BRACKET",
		OPENING_CURLY_BRACKET:  "OPENING_CURLY_BRACKET",
		CLOSING_CURLY_BRACKET:  "CLOSING_CURLY_BRACKET",
		COMMA:                  "COMMA",
		DOT:                    "DOT",
		MINUS:                  "MINUS",
		PLUS:                   "PLUS",
		SEMICOLON:              "SEMICOLON",
		SLASH:                  "SLASH",
		ASTERISK:               "ASTERISK",
		COLON:                  "COLON",
		PERCENT:                "PERCENT",
		PIPE:                   "PIPE",
		EXCLAMATION_MARK:       "EXCLAMATION_MARK",
		EXCLAMATION_MARK_EQUAL: "EXCLAMATION_MARK_EQUAL",
		EQUAL:                  "EQUAL",
		EQUAL_EQUAL:            "EQUAL_EQUAL",
		GREATER_THAN:           "GREATER_THAN",
		GREATER_OR_EQUAL:       "GREATER_OR_EQUAL",
		LESS_THAN:              "LESS_THAN",
		LESS_OR_EQUAL:          "LESS_OR_EQUAL",
		ARROW:                  "ARROW",
		PLUS_EQUAL:             "PLUS_EQUAL",
		MINUS_EQUAL:            "MINUS_EQUAL",
		IDENTIFIER:             "IDENTIFIER",
		STRING_LITERAL:         "STRING_LITERAL",
		NUMBER_LITERAL:         "NUMBER_LITERAL",
		VAR_KEYWORD:            "VAR_KEYWORD",
		AND_KEYWORD:            "AND_KEYWORD",
		ELSE_KEYWORD:           "ELSE_KEYWORD",
		FALSE_KEYWORD:          "FALSE_KEYWORD",
		FOR_KEYWORD:            "FOR_KEYWORD",
		LOOP_KEYWORD:           "LOOP_KEYWORD",
		FUN_KEYWORD:            "FUN_KEYWORD",
		IF_KEYWORD:             "IF_KEYWORD",
		NIL_KEYWORD:            "NIL_KEYWORD",
		OR_KEYWORD:             "OR_KEYWORD",
		RETURN_KEYWORD:         "RETURN_KEYWORD",
		TRUE_KEYWORD:           "TRUE_KEYWORD",
		IN_KEYWORD:             "IN_KEYWORD",
		WHILE_KEYWORD:          "WHILE_KEYWORD",
		IMPORT_KEYWORD:         "IMPORT_KEYWORD",
		MATCH_KEYWORD:          "MATCH_KEYWORD",
		EOF:                    "EOF",
		COMMENT:                "COMMENT",
	}

	KEYWORDS = map[string]TokenType{
		VAR_KEYWORD_STRING:    VAR_KEYWORD,
		TRUE_KEYWORD_STRING:   TRUE_KEYWORD,
		FALSE_KEYWORD_STRING:  FALSE_KEYWORD,
		NIL_KEYWORD_STRING:    NIL_KEYWORD,
		AND_KEYWORD_STRING:    AND_KEYWORD,
		OR_KEYWORD_STRING:     OR_KEYWORD,
		IF_KEYWORD_STRING:     IF_KEYWORD,
		ELSE_KEYWORD_STRING:   ELSE_KEYWORD,
		WHILE_KEYWORD_STRING:  WHILE_KEYWORD,
		FOR_KEYWORD_STRING:    FOR_KEYWORD,
		LOOP_KEYWORD_STRING:   LOOP_KEYWORD,
		FUN_KEYWORD_STRING:    FUN_KEYWORD,
		IN_KEYWORD_STRING:     IN_KEYWORD,
		RETURN_KEYWORD_STRING: RETURN_KEYWORD,
		IMPORT_KEYWORD_STRING: IMPORT_KEYWORD,
		MATCH_KEYWORD_STRING:  MATCH_KEYWORD,
	}

	// two-character operators, the key is the operator's text.
	twoCharOperators = map[string]TokenType{
		"!=": EXCLAMATION_MARK_EQUAL,
		"==": EQUAL_EQUAL,
		">=": GREATER_OR_EQUAL,
		"<=": LESS_OR_EQUAL,
		"->": ARROW,
		"+=": PLUS_EQUAL,
		"-=": MINUS_EQUAL,
	}

	singleCharTokens = map[rune]TokenType{
		'(': OPENING_PARENTHESIS,
		')': CLOSING_PARENTHESIS,
		'[': OPENING_BRACKET,
		']': CLOSING_BRACKET,
		'{': OPENING_CURLY_BRACKET,
		'}': CLOSING_CURLY_BRACKET,
		',': COMMA,
		'.': DOT,
		'-': MINUS,
		'+': PLUS,
		';': SEMICOLON,
		'/': SLASH,
		'*': ASTERISK,
		':': COLON,
		'%': PERCENT,
		'|': PIPE,
		'!': EXCLAMATION_MARK,
		'=': EQUAL,
		'>': GREATER_THAN,
		'<': LESS_THAN,
	}
)

func (t TokenType) String() string {
	if int(t) >= len(tokenTypenames) || tokenTypenames[t] == "" {
		return fmt.Sprintf("TokenType(%d)", t)
	}
	return tokenTypenames[t]
}

func IsKeyword(str string) bool {
	_, ok := KEYWORDS[str]
	return ok
}

// IsOperator reports whether the token is an operator or a punctuation mark.
func (t TokenType) IsOperator() bool {
	return t >= OPENING_PARENTHESIS && t <= MINUS_EQUAL
}

func (t TokenType) IsKeyword() bool {
	return t >= VAR_KEYWORD && t <= MATCH_KEYWORD
}
