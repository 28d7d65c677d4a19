package lsp

import (
	"fmt"
	"strings"

	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/parse"
	"github.com/tidwall/btree"
)

var KEYWORDS = []string{
	parse.VAR_KEYWORD_STRING, parse.FUN_KEYWORD_STRING, parse.IF_KEYWORD_STRING, parse.ELSE_KEYWORD_STRING,
	parse.WHILE_KEYWORD_STRING, parse.FOR_KEYWORD_STRING, parse.IN_KEYWORD_STRING, parse.LOOP_KEYWORD_STRING,
	parse.RETURN_KEYWORD_STRING, parse.MATCH_KEYWORD_STRING, parse.IMPORT_KEYWORD_STRING,
	parse.AND_KEYWORD_STRING, parse.OR_KEYWORD_STRING,
	parse.TRUE_KEYWORD_STRING, parse.FALSE_KEYWORD_STRING, parse.NIL_KEYWORD_STRING,
}

// completionIndex is a set of completion items ordered by label, adding an item with an existing label
// replaces the previous item.
type completionIndex struct {
	items btree.Map[string, defines.CompletionItem]
}

func newCompletionIndex(docs Docs, analysis *core.AnalysisData) *completionIndex {
	index := &completionIndex{}

	for _, keyword := range KEYWORDS {
		index.add(defines.CompletionItem{
			Label: keyword,
			Kind:  defines.CompletionItemKindKeyword,
		})
	}

	for _, name := range parse.NATIVE_FUNCTION_NAMES {
		doc, _ := docs.Get(name)
		item := defines.CompletionItem{
			Label:         name,
			Kind:          defines.CompletionItemKindFunction,
			LabelDetails:  &defines.CompletionItemLabelDetails{Description: "native function"},
			Detail:        doc.Detail,
			Documentation: &defines.MarkupContent{Kind: defines.MarkupKindMarkdown, Value: doc.Markdown()},
			InsertText:    doc.InsertText,
		}
		if strings.Contains(doc.InsertText, "$") {
			item.InsertTextFormat = defines.InsertTextFormatSnippet
		}
		index.add(item)
	}

	if analysis == nil {
		return index
	}

	for _, name := range analysis.DeclaredNames {
		index.add(defines.CompletionItem{
			Label: name,
			Kind:  defines.CompletionItemKindVariable,
		})
	}

	for _, name := range analysis.FunctionNames() {
		signature := functionSignature(name, analysis.Functions[name])
		index.add(defines.CompletionItem{
			Label:        name,
			Kind:         defines.CompletionItemKindFunction,
			LabelDetails: &defines.CompletionItemLabelDetails{Detail: signature[len(name):]},
			Detail:       "fun " + signature,
		})
	}

	return index
}

func (index *completionIndex) add(item defines.CompletionItem) {
	index.items.Set(item.Label, item)
}

// search returns the items whose label starts with prefix, in label order.
func (index *completionIndex) search(prefix string) []defines.CompletionItem {
	items := []defines.CompletionItem{}

	index.items.Ascend(prefix, func(label string, item defines.CompletionItem) bool {
		if !strings.HasPrefix(label, prefix) {
			return false
		}
		item.SortText = fmt.Sprintf("%04d", len(items))
		items = append(items, item)
		return true
	})

	return items
}

func functionSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ", ") + ")"
}

// wordBefore returns the identifier characters preceding the 0-based column of a line.
func wordBefore(text string, line, column uint) string {
	lines := strings.Split(text, "\n")
	if int(line) >= len(lines) {
		return ""
	}

	runes := []rune(strings.TrimSuffix(lines[line], "\r"))
	end := min(int(column), len(runes))
	start := end
	for start > 0 && parse.IsIdentChar(runes[start-1]) {
		start--
	}
	return string(runes[start:end])
}

func (s *Server) complete(state *sessionState, params *defines.CompletionParams) (*defines.CompletionList, error) {
	uri := params.TextDocument.Uri

	result, text, _, err := state.parse(uri)
	if err != nil {
		return nil, err
	}

	analysis := result.Analysis
	if analysis == nil {
		analysis = state.lastAnalysis(uri)
	}

	prefix := wordBefore(text, params.Position.Line, params.Position.Character)
	items := newCompletionIndex(s.opts.Docs, analysis).search(prefix)

	return &defines.CompletionList{
		Items: items,
	}, nil
}
