package prettyprint

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/sparvlang/sparv/internal/core"
)

// Highlighter colorizes source code and values, a Highlighter with nil colors writes plain text.
type Highlighter struct {
	Colors *PrettyPrintColors
}

func (h Highlighter) colorFor(tokenType chroma.TokenType) []byte {
	switch {
	case tokenType == chroma.Keyword:
		return h.Colors.ControlKeyword
	case tokenType == chroma.KeywordDeclaration:
		return h.Colors.OtherKeyword
	case tokenType == chroma.KeywordConstant:
		return h.Colors.Constant
	case tokenType == chroma.NameBuiltin:
		return h.Colors.NativeFunction
	case tokenType.InCategory(chroma.Comment):
		return h.Colors.Comment
	case tokenType.InSubCategory(chroma.LiteralString):
		return h.Colors.StringLiteral
	case tokenType.InSubCategory(chroma.LiteralNumber):
		return h.Colors.NumberLiteral
	case tokenType == chroma.Error:
		return h.Colors.ErrorColor
	}
	return nil
}

// Formatter returns a chroma formatter using the colors of the highlighter, the chroma style is ignored.
func (h Highlighter) Formatter() chroma.Formatter {
	return chroma.FormatterFunc(func(w io.Writer, _ *chroma.Style, iterator chroma.Iterator) error {
		for token := iterator(); token != chroma.EOF; token = iterator() {
			var s string
			if h.Colors == nil {
				s = token.Value
			} else {
				s = Colorize(token.Value, h.colorFor(token.Type))
			}
			if _, err := io.WriteString(w, s); err != nil {
				return err
			}
		}
		return nil
	})
}

// HighlightCode returns the colorized code, the code is returned unchanged if the highlighter has no colors.
func (h Highlighter) HighlightCode(code string) string {
	if h.Colors == nil {
		return code
	}

	iterator, err := SparvLexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var b strings.Builder
	if err := h.Formatter().Format(&b, nil, iterator); err != nil {
		return code
	}
	return b.String()
}

// Emphasize colors s with the error color.
func (h Highlighter) Emphasize(s string) string {
	if h.Colors == nil {
		return s
	}
	return Colorize(s, h.Colors.ErrorColor)
}

func (h Highlighter) Warn(s string) string {
	if h.Colors == nil {
		return s
	}
	return Colorize(s, h.Colors.WarnColor)
}

func (h Highlighter) Discrete(s string) string {
	if h.Colors == nil {
		return s
	}
	return Colorize(s, h.Colors.DiscreteColor)
}

// FormatValue returns the representation of a value displayed by the REPL: strings are quoted, other values
// are rendered like print() does.
func (h Highlighter) FormatValue(v core.Value) string {
	var s string
	var color []byte

	switch val := v.(type) {
	case core.String:
		s = `"` + string(val) + `"`
		if h.Colors != nil {
			color = h.Colors.StringLiteral
		}
	case core.Number:
		s = val.String()
		if h.Colors != nil {
			color = h.Colors.NumberLiteral
		}
	case core.Bool, *core.NilT:
		s = core.Stringify(v)
		if h.Colors != nil {
			color = h.Colors.Constant
		}
	default:
		s = core.Stringify(v)
	}

	return Colorize(s, color)
}
