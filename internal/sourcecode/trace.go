package sourcecode

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

const (
	TRACE_SEPARATOR     = "| "
	TRACE_EMPTY_GUTTER  = "|"
	TRACE_MESSAGE_START = ">>> "
)

type TraceConfig struct {
	ShowSourceName bool

	// optional, applied to the previous line and the erroneous line.
	HighlightLine func(line string) string

	// optional, applied to the carets and to the message.
	Emphasize func(s string) string
}

// FormatTrace writes a caret view of a diagnostic:
//
//	Error in script.sparv
//	1  | var a = 1;
//	   |
//	2  | print(b);
//	   |       ^
//	   |
//	>>> variable 'b' is not declared at 2:6
func FormatTrace(w io.Writer, src *ChunkSource, d *Diagnostic, config TraceConfig) error {
	highlight := config.HighlightLine
	if highlight == nil {
		highlight = identity
	}
	emphasize := config.Emphasize
	if emphasize == nil {
		emphasize = identity
	}

	lineNumber := strconv.Itoa(int(d.Line))
	gutterWidth := len(lineNumber) + 2
	emptyGutter := strings.Repeat(" ", gutterWidth)

	var buf bytes.Buffer

	if config.ShowSourceName && src.Name() != "" {
		buf.WriteString("Error in ")
		buf.WriteString(src.Name())
		buf.WriteByte('\n')
	}

	if d.Line > 1 {
		prev, _ := src.Line(d.Line - 1)
		buf.WriteString(padRight(strconv.Itoa(int(d.Line-1)), gutterWidth))
		buf.WriteString(TRACE_SEPARATOR)
		buf.WriteString(highlight(prev))
		buf.WriteByte('\n')
	}

	buf.WriteString(emptyGutter)
	buf.WriteString(TRACE_EMPTY_GUTTER)
	buf.WriteByte('\n')

	line, _ := src.Line(d.Line)
	buf.WriteString(padRight(lineNumber, gutterWidth))
	buf.WriteString(TRACE_SEPARATOR)
	buf.WriteString(highlight(line))
	buf.WriteByte('\n')

	caretCount := int(d.End - d.Start)
	if caretCount < 1 {
		caretCount = 1
	}
	start := int(d.Start)
	if start < 0 {
		start = 0
	}

	buf.WriteString(emptyGutter)
	buf.WriteString(TRACE_SEPARATOR)
	buf.WriteString(strings.Repeat(" ", start))
	buf.WriteString(emphasize(strings.Repeat("^", caretCount)))
	buf.WriteByte('\n')

	buf.WriteString(emptyGutter)
	buf.WriteString(TRACE_EMPTY_GUTTER)
	buf.WriteByte('\n')

	buf.WriteString(TRACE_MESSAGE_START)
	buf.WriteString(emphasize(d.Message))
	buf.WriteString(" at ")
	buf.WriteString(d.Location())
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

func FormatTraceString(src *ChunkSource, d *Diagnostic, config TraceConfig) string {
	var b strings.Builder
	FormatTrace(&b, src, d, config)
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func identity(s string) string {
	return s
}
