package parse

import (
	"strings"

	"github.com/sparvlang/sparv/internal/sourcecode"
)

// A Scanner produces the tokens of a piece of source code on demand. The sequence always ends with an EOF
// token; once EOF has been returned Next keeps returning it. A Scanner cannot be rewound, create a new one to
// restart from the beginning.
type Scanner struct {
	src []rune

	i      int
	line   int32
	column int32

	done bool
	eof  Token
}

func NewScanner(src string) *Scanner {
	return &Scanner{
		src:  []rune(strings.ReplaceAll(src, "\r", "")),
		line: 1,
	}
}

// Scan returns all the tokens of src, the last token is always EOF. If an error occurs the tokens scanned so
// far are returned alongside a *sourcecode.Diagnostic.
func Scan(src string) ([]Token, error) {
	s := NewScanner(src)
	var tokens []Token

	for {
		token, err := s.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			return tokens, nil
		}
	}
}

func (s *Scanner) Next() (Token, error) {
	if s.done {
		return s.eof, nil
	}

	s.eatSpace()

	if s.i >= len(s.src) {
		s.done = true
		s.eof = Token{Type: EOF, Line: s.line, Start: s.column, End: s.column}
		return s.eof, nil
	}

	start := s.i
	startLine := s.line
	startColumn := s.column
	r := s.advance()

	makeToken := func(tokenType TokenType) Token {
		return Token{
			Type:  tokenType,
			Raw:   string(s.src[start:s.i]),
			Line:  startLine,
			Start: startColumn,
			End:   startColumn + int32(s.i-start),
		}
	}

	switch {
	case isIdentFirstChar(r):
		for s.i < len(s.src) && IsIdentChar(s.src[s.i]) {
			s.advance()
		}
		tokenType := IDENTIFIER
		if keyword, ok := KEYWORDS[string(s.src[start:s.i])]; ok {
			tokenType = keyword
		}
		return makeToken(tokenType), nil
	case isDecDigit(r):
		for s.i < len(s.src) && (isDecDigit(s.src[s.i]) || s.src[s.i] == '_' || s.src[s.i] == '.') {
			s.advance()
		}
		return makeToken(NUMBER_LITERAL), nil
	case r == '"':
		for {
			if s.i >= len(s.src) {
				return Token{}, sourcecode.NewDiagnostic(UNTERMINATED_STRING, startLine, startColumn, startColumn+1)
			}
			if s.advance() == '"' {
				break
			}
		}
		return makeToken(STRING_LITERAL), nil
	case r == '/' && s.i < len(s.src) && s.src[s.i] == '/':
		for s.i < len(s.src) && s.src[s.i] != '\n' {
			s.advance()
		}
		return makeToken(COMMENT), nil
	}

	if s.i < len(s.src) {
		if tokenType, ok := twoCharOperators[string([]rune{r, s.src[s.i]})]; ok {
			s.advance()
			return makeToken(tokenType), nil
		}
	}

	if tokenType, ok := singleCharTokens[r]; ok {
		return makeToken(tokenType), nil
	}

	return Token{}, sourcecode.NewDiagnostic(fmtUnexpectedChar(r), startLine, startColumn, startColumn+1)
}

func (s *Scanner) advance() rune {
	r := s.src[s.i]
	s.i++
	if r == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}
	return r
}

func (s *Scanner) eatSpace() {
	for s.i < len(s.src) && isSpace(s.src[s.i]) {
		s.advance()
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f':
		return true
	}
	return false
}

func isDecDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentFirstChar(r rune) bool {
	return isAlpha(r) || r == '_'
}

func IsIdentChar(r rune) bool {
	return isAlpha(r) || isDecDigit(r) || r == '_'
}

// IsValidIdentifier reports whether s could be scanned as a single non-keyword identifier.
func IsValidIdentifier(s string) bool {
	if s == "" || IsKeyword(s) {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentFirstChar(r) || !IsIdentChar(r) {
			return false
		}
	}
	return true
}
