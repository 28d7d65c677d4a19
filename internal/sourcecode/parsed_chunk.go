package sourcecode

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ChunkSource is a named piece of source code. Lines are computed lazily, '\r' characters are ignored.
type ChunkSource struct {
	// unique name | path, can be empty
	NameString string
	CodeString string

	lines     []string
	linesLock sync.Mutex
}

func NewChunkSource(name, code string) *ChunkSource {
	return &ChunkSource{NameString: name, CodeString: code}
}

func (c *ChunkSource) Name() string {
	return c.NameString
}

func (c *ChunkSource) Code() string {
	return c.CodeString
}

// Lines returns the lines of the source, the result should not be modified.
func (c *ChunkSource) Lines() []string {
	c.linesLock.Lock()
	defer c.linesLock.Unlock()

	if c.lines == nil {
		c.lines = strings.Split(strings.ReplaceAll(c.CodeString, "\r", ""), "\n")
	}
	return c.lines
}

// Line returns the line at the given 1-based index.
func (c *ChunkSource) Line(line int32) (string, bool) {
	lines := c.Lines()
	if line < 1 || int(line) > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

func (c *ChunkSource) LineCount() int32 {
	return int32(len(c.Lines()))
}

func (c *ChunkSource) FormatDiagnosticLocation(w io.Writer, d *Diagnostic) (int, error) {
	return fmt.Fprintf(w, "%s:%d:%d:", c.Name(), d.Line, d.Start)
}

// GetLineCut returns the text before and after a column of a line.
func (c *ChunkSource) GetLineCut(line, column int32) (before string, after string) {
	text, ok := c.Line(line)
	if !ok {
		return "", ""
	}
	runes := []rune(text)
	if column < 0 {
		column = 0
	}
	if int(column) > len(runes) {
		column = int32(len(runes))
	}
	return string(runes[:column]), string(runes[column:])
}
