package lsp

import (
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/parse"
	"golang.org/x/exp/slices"
)

// tokenAt returns the token containing the 0-based line and column, a token ending at the column is also
// returned to support hovering the end of a word.
func tokenAt(tokens []parse.Token, line, column uint) (parse.Token, bool) {
	tokenLine := int32(line) + 1
	col := int32(column)

	for i, token := range tokens {
		if token.Type == parse.EOF || token.Line != tokenLine {
			continue
		}
		if col >= token.Start && col < token.End {
			return token, true
		}
		if col == token.End {
			//prefer the next token if it starts at the column
			if i+1 < len(tokens) && tokens[i+1].Line == tokenLine && tokens[i+1].Start == col && tokens[i+1].Type == parse.IDENTIFIER {
				return tokens[i+1], true
			}
			return token, true
		}
	}
	return parse.Token{}, false
}

func (s *Server) hover(state *sessionState, params *defines.HoverParams) (*defines.Hover, error) {
	uri := params.TextDocument.Uri

	result, text, _, err := state.parse(uri)
	if err != nil {
		return nil, err
	}

	tokens, _ := parse.Scan(text)
	token, ok := tokenAt(tokens, params.Position.Line, params.Position.Character)
	if !ok || token.Type != parse.IDENTIFIER {
		return nil, nil
	}

	analysis := result.Analysis
	if analysis == nil {
		analysis = state.lastAnalysis(uri)
	}

	content, ok := s.hoverContent(token.Raw, analysis)
	if !ok {
		return nil, nil
	}

	tokenRange := spanToLspRange(token.Line, token.Start, token.End)
	return &defines.Hover{
		Contents: defines.MarkupContent{
			Kind:  defines.MarkupKindMarkdown,
			Value: content,
		},
		Range: &tokenRange,
	}, nil
}

func (s *Server) hoverContent(name string, analysis *core.AnalysisData) (string, bool) {
	if parse.IsNativeFunctionName(name) {
		doc, _ := s.opts.Docs.Get(name)
		return doc.Markdown(), true
	}

	if analysis == nil {
		return "", false
	}

	if params, ok := analysis.Functions[name]; ok {
		return "```sparv\nfun " + functionSignature(name, params) + "\n```", true
	}

	if slices.Contains(analysis.DeclaredNames, name) {
		return "```sparv\nvar " + name + "\n```", true
	}

	return "", false
}
