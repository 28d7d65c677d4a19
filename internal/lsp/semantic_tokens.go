package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/parse"
)

type semanticTokenType uint

const (
	parameterToken semanticTokenType = iota
	variableToken
	functionToken
	commentToken
	stringToken
	numberToken
	operatorToken
	keywordToken
	macroToken //native functions
)

var SEMANTIC_TOKEN_LEGEND = defines.SemanticTokensLegend{
	TokenTypes:     []string{"parameter", "variable", "function", "comment", "string", "number", "operator", "keyword", "macro"},
	TokenModifiers: []string{},
}

type classifiedToken struct {
	line, start, length uint
	tokenType           semanticTokenType
}

// functionScope is the body of a function, identifiers inside it that are parameter names are parameters.
type functionScope struct {
	params map[string]bool

	//depth of curly brackets outside the body
	depth int

	//the body is a single expression ending at the next ';' at depth
	exprBody bool
}

// classifyTokens classifies the tokens of a source, the source does not need to be valid: tokens preceding a
// lexical error are classified.
func classifyTokens(src string) []classifiedToken {
	tokens, _ := parse.Scan(src)
	var classified []classifiedToken

	var scopes []functionScope
	depth := 0

	//parameters of the function being declared, nil outside parameter lists
	var pendingParams map[string]bool
	inParams := false

	add := func(token parse.Token, tokenType semanticTokenType) {
		lines := strings.Split(token.Raw, "\n")
		for i, part := range lines {
			start := uint(token.Start)
			if i > 0 {
				start = 0
			}
			length := uint(utf8.RuneCountInString(part))
			if length == 0 {
				continue
			}
			classified = append(classified, classifiedToken{
				line:      uint(token.Line-1) + uint(i),
				start:     start,
				length:    length,
				tokenType: tokenType,
			})
		}
	}

	isParameter := func(name string) bool {
		for i := len(scopes) - 1; i >= 0; i-- {
			if scopes[i].params[name] {
				return true
			}
		}
		return false
	}

	for i, token := range tokens {
		next := parse.EOF
		if i+1 < len(tokens) {
			next = tokens[i+1].Type
		}

		switch token.Type {
		case parse.EOF:
			continue
		case parse.COMMENT:
			add(token, commentToken)
		case parse.STRING_LITERAL:
			add(token, stringToken)
		case parse.NUMBER_LITERAL:
			add(token, numberToken)
		case parse.IDENTIFIER:
			switch {
			case inParams:
				pendingParams[token.Raw] = true
				add(token, parameterToken)
			case next == parse.OPENING_PARENTHESIS && parse.IsNativeFunctionName(token.Raw):
				add(token, macroToken)
			case next == parse.OPENING_PARENTHESIS:
				add(token, functionToken)
			case i > 0 && tokens[i-1].Type == parse.FUN_KEYWORD:
				add(token, functionToken)
			case isParameter(token.Raw):
				add(token, parameterToken)
			default:
				add(token, variableToken)
			}
		case parse.OPENING_PARENTHESIS:
			if i > 0 && (tokens[i-1].Type == parse.FUN_KEYWORD || (i > 1 && tokens[i-1].Type == parse.IDENTIFIER && tokens[i-2].Type == parse.FUN_KEYWORD)) {
				inParams = true
				pendingParams = map[string]bool{}
			}
		case parse.CLOSING_PARENTHESIS:
			if inParams {
				inParams = false
				scopes = append(scopes, functionScope{
					params:   pendingParams,
					depth:    depth,
					exprBody: next != parse.OPENING_CURLY_BRACKET,
				})
				pendingParams = nil
			}
		case parse.OPENING_CURLY_BRACKET:
			depth++
		case parse.CLOSING_CURLY_BRACKET:
			depth--
			for len(scopes) > 0 {
				top := scopes[len(scopes)-1]
				if top.depth > depth || (!top.exprBody && top.depth == depth) {
					scopes = scopes[:len(scopes)-1]
					continue
				}
				break
			}
		case parse.SEMICOLON:
			for len(scopes) > 0 && scopes[len(scopes)-1].exprBody && scopes[len(scopes)-1].depth == depth {
				scopes = scopes[:len(scopes)-1]
			}
		case parse.COMMA, parse.DOT, parse.OPENING_BRACKET, parse.CLOSING_BRACKET:
		default:
			if token.Type >= parse.VAR_KEYWORD && token.Type <= parse.MATCH_KEYWORD {
				add(token, keywordToken)
			} else {
				add(token, operatorToken)
			}
		}
	}

	return classified
}

// encodeSemanticTokens encodes tokens with the relative format of the protocol: deltaLine, deltaStart, length,
// type, modifiers.
func encodeSemanticTokens(tokens []classifiedToken) []uint {
	data := make([]uint, 0, 5*len(tokens))
	var prevLine, prevStart uint

	for _, token := range tokens {
		deltaLine := token.line - prevLine
		deltaStart := token.start
		if deltaLine == 0 {
			deltaStart = token.start - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.length, uint(token.tokenType), 0)
		prevLine, prevStart = token.line, token.start
	}

	return data
}

func (s *Server) semanticTokens(state *sessionState, params *defines.SemanticTokensParams) (*defines.SemanticTokens, error) {
	text, _, err := state.getDocument(params.TextDocument.Uri)
	if err != nil {
		return nil, err
	}

	return &defines.SemanticTokens{
		Data: encodeSemanticTokens(classifyTokens(text)),
	}, nil
}
