package lsp

import (
	"fmt"
	"strings"

	"github.com/sparvlang/sparv/internal/parse"
)

// Docs maps the name of native functions to their documentation.
type Docs map[string]NativeFunctionDoc

type NativeFunctionDoc struct {
	Title string

	// {return type} name({params})
	Detail      string
	Description []string
	Parameters  []ParameterDoc
	Returns     ReturnDoc
	Examples    []string

	// snippet inserted by completion, $1 and $2 are tab stops.
	InsertText string
}

type ParameterDoc struct {
	Name, Type, Description string
}

type ReturnDoc struct {
	Type, Description string
}

// Markdown returns the documentation shown by hover and completion.
func (doc NativeFunctionDoc) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# **%s**\n", doc.Title)
	b.WriteString("```sparv\n" + doc.Detail + "\n```\n")
	b.WriteString(strings.Join(doc.Description, "\n"))
	b.WriteString("\n")

	if len(doc.Parameters) > 0 {
		b.WriteString("\n**Parameters**\n")
		for _, param := range doc.Parameters {
			fmt.Fprintf(&b, "- `%s` *(%s)*: %s\n", param.Name, param.Type, param.Description)
		}
	}

	fmt.Fprintf(&b, "\n**Returns**\n- *(%s)*: %s\n", doc.Returns.Type, doc.Returns.Description)

	if len(doc.Examples) > 0 {
		b.WriteString("\n**Examples**\n```sparv\n")
		b.WriteString(strings.Join(doc.Examples, "\n"))
		b.WriteString("\n```\n")
	}

	return b.String()
}

// Get returns the documentation of a native function, functions missing from the table get a documentation
// made of their signature.
func (docs Docs) Get(name string) (NativeFunctionDoc, bool) {
	if doc, ok := docs[name]; ok {
		return doc, true
	}

	fn, ok := parse.GetNativeFunction(name)
	if !ok {
		return NativeFunctionDoc{}, false
	}

	return NativeFunctionDoc{
		Title:      name,
		Detail:     fmt.Sprintf("%s(%s)", name, strings.Join(fn.Parameters, ", ")),
		Returns:    ReturnDoc{Type: "any"},
		InsertText: name + "()",
	}, true
}

var DEFAULT_DOCS = Docs{
	"print": {
		Title:       "Print",
		Detail:      "any print(message: any)",
		Description: []string{"Prints a value followed by a newline.", "Returns the argument to enable chaining."},
		Parameters:  []ParameterDoc{{"message", "any", "The value to print."}},
		Returns:     ReturnDoc{"any", "The value that was passed as argument."},
		Examples:    []string{`print("Hello, world!");`, `[1, 2, 3] -> print -> print;`},
		InsertText:  "print($1)",
	},
	"len": {
		Title:       "Len",
		Detail:      "number len(item: string | list | object)",
		Description: []string{"Returns the length of a string (in characters), a list or an object."},
		Parameters:  []ParameterDoc{{"item", "string | list | object", "The item to measure."}},
		Returns:     ReturnDoc{"number", "The length of the item."},
		Examples:    []string{`len("foo"); // 3`, `len([1, 2, 3]); // 3`},
		InsertText:  "len($1)",
	},
	"typeof": {
		Title:       "Typeof",
		Detail:      "string typeof(item: any)",
		Description: []string{"Returns the name of the type of the argument."},
		Parameters:  []ParameterDoc{{"item", "any", "The value whose type is returned."}},
		Returns:     ReturnDoc{"string", "One of <number>, <string>, <bool>, <nil>, <list>, <object>, <function>."},
		Examples:    []string{`typeof("9"); // <string>`, `typeof(9); // <number>`},
		InsertText:  "typeof($1)",
	},
	"parse": {
		Title:       "Parse",
		Detail:      "number parse(item: string)",
		Description: []string{"Parses a string into a number, surrounding whitespace is ignored."},
		Parameters:  []ParameterDoc{{"item", "string", "The string to parse."}},
		Returns:     ReturnDoc{"number", "The parsed number."},
		Examples:    []string{`var nine = parse("9");`},
		InsertText:  "parse($1)",
	},
	"split": {
		Title:       "Split",
		Detail:      "list split(input: any, separator: string)",
		Description: []string{"Splits the string representation of the input at each separator, empty parts are dropped."},
		Parameters: []ParameterDoc{
			{"input", "any", "The value to split."},
			{"separator", "string", `The separator, \n and \r are replaced by a newline and a carriage return.`},
		},
		Returns:    ReturnDoc{"list", "The parts."},
		Examples:   []string{`split("a, b", ", "); // [a, b]`},
		InsertText: "split($1, $2)",
	},
	"lines": {
		Title:       "Lines",
		Detail:      "list lines(input: string)",
		Description: []string{"Splits a string into lines, empty lines are dropped."},
		Parameters:  []ParameterDoc{{"input", "string", "The string to split."}},
		Returns:     ReturnDoc{"list", "The non-empty lines."},
		Examples:    []string{`read_file("input.txt") -> lines;`},
		InsertText:  "lines($1)",
	},
	"read_file": {
		Title:       "Read File",
		Detail:      "string read_file(path: string)",
		Description: []string{"Reads the file at the given path."},
		Parameters:  []ParameterDoc{{"path", "string", "The path of the file, relative to the directory of the running script."}},
		Returns:     ReturnDoc{"string", "The content of the file."},
		Examples:    []string{`var content = read_file("./foo.txt");`},
		InsertText:  "read_file($1)",
	},
	"read_input": {
		Title:       "Read Input",
		Detail:      "string read_input()",
		Description: []string{"Reads a line from the standard input."},
		Returns:     ReturnDoc{"string | nil", "The line without its terminator, nil at the end of the input."},
		Examples:    []string{`var s = read_input();`},
		InsertText:  "read_input()",
	},
	"abs": {
		Title:       "Abs",
		Detail:      "number abs(n: number)",
		Description: []string{"Returns the absolute value of a number."},
		Parameters:  []ParameterDoc{{"n", "number", "A number."}},
		Returns:     ReturnDoc{"number", "The absolute value."},
		Examples:    []string{`abs(-2); // 2`},
		InsertText:  "abs($1)",
	},
	"time": {
		Title:       "Time",
		Detail:      "number time()",
		Description: []string{"Returns the number of milliseconds elapsed since the start of the program."},
		Returns:     ReturnDoc{"number", "Elapsed milliseconds."},
		Examples:    []string{`var start = time();`},
		InsertText:  "time()",
	},
	"xor": {
		Title:       "Xor",
		Detail:      "number xor(a: number, b: number)",
		Description: []string{"Returns the bitwise exclusive or of two numbers converted to 64-bit integers."},
		Parameters:  []ParameterDoc{{"a", "number", "First operand."}, {"b", "number", "Second operand."}},
		Returns:     ReturnDoc{"number", "The result."},
		Examples:    []string{`xor(5, 3); // 6`},
		InsertText:  "xor($1, $2)",
	},
	"sort": {
		Title:       "Sort",
		Detail:      "nil sort(list: list)",
		Description: []string{"Sorts a list of numbers or a list of strings in place, strings are sorted in natural order."},
		Parameters:  []ParameterDoc{{"list", "list", "The list to sort."}},
		Returns:     ReturnDoc{"nil", ""},
		Examples:    []string{`var l = [3, 1, 2]; sort(l); // l is [1, 2, 3]`},
		InsertText:  "sort($1)",
	},
}
