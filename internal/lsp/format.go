package lsp

import (
	"strings"

	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/parse"
)

const INDENT_SIZE = 4

// Format returns the formatted version of a Sparv source: blocks and lists are indented by 4 spaces, statements
// following a ';' are moved to their own line, a space follows each ',', repeated spaces are collapsed, lines
// following a line ending with '->' get an extra indentation and the '|' of match arms are aligned.
// Comments and string literals are left untouched. The source does not need to be valid.
func Format(src string) string {
	f := &formatter{}

	for _, line := range strings.Split(strings.ReplaceAll(src, "\r", ""), "\n") {
		f.formatLine([]rune(line))
	}

	f.alignMatchArms()
	return f.String()
}

// FormattingEdits returns the edits transforming src into its formatted version, the result is empty if src is
// already formatted.
func FormattingEdits(src string) []defines.TextEdit {
	formatted := Format(src)
	if formatted == src {
		return []defines.TextEdit{}
	}

	lines := strings.Split(src, "\n")
	lastLine := lines[len(lines)-1]

	return []defines.TextEdit{
		{
			Range: defines.Range{
				End: defines.Position{
					Line:      uint(len(lines) - 1),
					Character: uint(len([]rune(lastLine))),
				},
			},
			NewText: formatted,
		},
	}
}

type formattedLine struct {
	indent  int
	content []rune
	started bool

	//the line ends inside a multiline string, trailing space is preserved
	raw bool

	//index of the separator of a match arm, -1 if none
	pipe  int
	match int
}

type matchBlock struct {
	id    int
	depth int
}

type formatter struct {
	lines   []*formattedLine
	current *formattedLine

	depth       int
	arrowIndent bool
	inString    bool

	word         []rune
	pendingMatch bool
	matchBlocks  []matchBlock
	matchCount   int
}

func (f *formatter) formatLine(line []rune) {
	f.newLine()
	if f.inString {
		f.current.started = true
	}

	for i := 0; i < len(line); i++ {
		r := line[i]

		if f.inString {
			f.write(r)
			if r == '"' {
				f.inString = false
			}
			continue
		}

		if parse.IsIdentChar(r) {
			f.word = append(f.word, r)
			f.write(r)
			continue
		}
		f.endWord()

		switch {
		case r == ' ' || r == '\t':
			if f.current.started && !f.endsWithSpace() {
				f.write(' ')
			}
		case r == '"':
			f.inString = true
			f.write(r)
		case r == '/' && i+1 < len(line) && line[i+1] == '/':
			f.writeString(strings.TrimRight(string(line[i:]), " \t"))
			i = len(line)
		case r == '{':
			f.write('{')
			f.depth++
			if f.pendingMatch {
				f.pendingMatch = false
				f.matchCount++
				f.matchBlocks = append(f.matchBlocks, matchBlock{id: f.matchCount, depth: f.depth})
			}

			j := nextNonSpace(line, i+1)
			if j < len(line) && line[j] == '}' {
				//empty block
				f.closeBlock()
				f.write('}')
				i = j
			} else if j < len(line) && !isCommentStart(line, j) {
				f.breakLine()
			}
		case r == '}':
			if f.current.started {
				f.breakLine()
			}
			f.closeBlock()
			f.write('}')
		case r == '[':
			f.write('[')
			f.depth++
		case r == ']':
			f.depth = max(f.depth-1, 0)
			f.write(']')
		case r == ';':
			f.write(';')
			f.arrowIndent = false
			f.pendingMatch = false

			j := nextNonSpace(line, i+1)
			if j < len(line) && !isCommentStart(line, j) {
				f.breakLine()
			}
		case r == ',':
			f.write(',')
			if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
				f.write(' ')
			}
		case r == '-' && i+1 < len(line) && line[i+1] == '>':
			f.writeString("->")
			i++
			j := nextNonSpace(line, i+1)
			if j >= len(line) || isCommentStart(line, j) {
				f.arrowIndent = true
			}
		case r == '|':
			if n := len(f.matchBlocks); n > 0 && f.matchBlocks[n-1].depth == f.depth && f.current.pipe < 0 {
				if f.current.started && !f.endsWithSpace() {
					f.write(' ')
				}
				f.current.pipe = len(f.current.content)
				f.current.match = f.matchBlocks[n-1].id
				f.write('|')
				if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
					f.write(' ')
				}
			} else {
				f.write('|')
			}
		default:
			f.write(r)
		}
	}

	f.endWord()
	f.current.raw = f.inString
}

func (f *formatter) newLine() {
	f.current = &formattedLine{pipe: -1}
	f.lines = append(f.lines, f.current)
}

func (f *formatter) breakLine() {
	f.trimCurrent()
	f.newLine()
}

func (f *formatter) trimCurrent() {
	content := f.current.content
	for len(content) > 0 && content[len(content)-1] == ' ' {
		content = content[:len(content)-1]
	}
	f.current.content = content
}

func (f *formatter) write(r rune) {
	if !f.current.started {
		f.current.started = true
		f.current.indent = f.depth * INDENT_SIZE
		if f.arrowIndent {
			f.current.indent += INDENT_SIZE
		}
	}
	f.current.content = append(f.current.content, r)
}

func (f *formatter) writeString(s string) {
	for _, r := range s {
		f.write(r)
	}
}

func (f *formatter) endsWithSpace() bool {
	content := f.current.content
	return len(content) > 0 && content[len(content)-1] == ' '
}

func (f *formatter) endWord() {
	if string(f.word) == "match" {
		f.pendingMatch = true
	}
	f.word = f.word[:0]
}

func (f *formatter) closeBlock() {
	if n := len(f.matchBlocks); n > 0 && f.matchBlocks[n-1].depth == f.depth {
		f.matchBlocks = f.matchBlocks[:n-1]
	}
	f.depth = max(f.depth-1, 0)
}

func (f *formatter) alignMatchArms() {
	columns := map[int]int{}
	for _, line := range f.lines {
		if line.pipe >= 0 {
			columns[line.match] = max(columns[line.match], line.indent+line.pipe)
		}
	}

	for _, line := range f.lines {
		if line.pipe < 0 {
			continue
		}
		padding := columns[line.match] - (line.indent + line.pipe)
		if padding <= 0 {
			continue
		}
		content := make([]rune, 0, len(line.content)+padding)
		content = append(content, line.content[:line.pipe]...)
		content = append(content, []rune(strings.Repeat(" ", padding))...)
		content = append(content, line.content[line.pipe:]...)
		line.content = content
		line.pipe += padding
	}
}

func (f *formatter) String() string {
	var b strings.Builder

	for i, line := range f.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		content := string(line.content)
		if !line.raw {
			content = strings.TrimRight(content, " ")
		}
		if content == "" {
			continue
		}
		b.WriteString(strings.Repeat(" ", line.indent))
		b.WriteString(content)
	}

	return b.String()
}

func nextNonSpace(line []rune, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func isCommentStart(line []rune, i int) bool {
	return i+1 < len(line) && line[i] == '/' && line[i+1] == '/'
}
