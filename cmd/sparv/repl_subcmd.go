package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/lsp"
	"github.com/sparvlang/sparv/internal/parse"
	"github.com/sparvlang/sparv/internal/prettyprint"
	"github.com/sparvlang/sparv/internal/sourcecode"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	REPL_PROMPT              = "> "
	REPL_CONTINUATION_PROMPT = ". "
	REPL_QUIT_COMMAND        = ":quit"
	REPL_VARS_COMMAND        = ":vars"
)

// lineReader reads the lines typed by the user, io.EOF is returned at the end of the input.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type scannerLineReader struct {
	scanner *bufio.Scanner
}

func (r scannerLineReader) Prompt(prompt string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (scannerLineReader) AppendHistory(item string) {}

func StartREPL(env *cliEnv, mainSubCommand string, mainSubCommandArgs []string) (exitCode int) {
	flags := newFlagSet(mainSubCommand, env.errOut)
	if showHelp(flags, mainSubCommandArgs, env.out) {
		return
	}
	if err := flags.Parse(mainSubCommandArgs); err != nil {
		return ERROR_STATUS_CODE
	}

	r := newREPL(env)

	if !isTerminal(env.in) || !isTerminal(env.out) {
		r.loop(scannerLineReader{scanner: bufio.NewScanner(env.in)})
		return 0
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(r.complete)

	historyPath, err := env.userConfig.REPLHistoryPath()
	if err != nil {
		env.logger.Warn().Err(err).Msg("no history file")
	} else if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(env.out, "type %s to exit, %s to list the variables\n", REPL_QUIT_COMMAND, REPL_VARS_COMMAND)
	r.loop(line)

	if historyPath != "" {
		f, err := os.Create(historyPath)
		if err != nil {
			env.logger.Warn().Err(err).Msg("failed to write the history file")
			return
		}
		defer f.Close()
		line.WriteHistory(f)
	}
	return 0
}

// repl evaluates the inputs in a single interpreter state, the variables declared by an input are visible in the
// following inputs.
type repl struct {
	env         *cliEnv
	out         io.Writer
	state       *core.TreeWalkState
	highlighter prettyprint.Highlighter
}

func newREPL(env *cliEnv) *repl {
	return &repl{
		env: env,
		out: env.out,
		state: core.NewTreeWalkState(core.StateConfig{
			Out:    env.out,
			In:     env.in,
			Logger: &env.logger,
		}),
		highlighter: env.highlighter(env.out),
	}
}

func (r *repl) loop(reader lineReader) {
	var buffer strings.Builder

	for {
		prompt := REPL_PROMPT
		if buffer.Len() > 0 {
			prompt = REPL_CONTINUATION_PROMPT
		}

		line, err := reader.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buffer.Reset()
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.env.logger.Err(err).Msg("failed to read input")
			}
			return
		}

		if buffer.Len() > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(line)

		input := buffer.String()
		if isIncompleteInput(input) {
			continue
		}
		buffer.Reset()

		if strings.TrimSpace(input) != "" {
			reader.AppendHistory(input)
		}
		if !r.eval(input) {
			return
		}
	}
}

// eval evaluates an input and prints the value of its last statement if it is an expression, false is returned if
// the REPL should stop.
func (r *repl) eval(input string) bool {
	trimmed := strings.TrimSpace(input)

	switch trimmed {
	case "":
		return true
	case REPL_QUIT_COMMAND:
		return false
	case REPL_VARS_COMMAND:
		r.printVariables()
		return true
	}

	src := sourcecode.NewChunkSource("", input)
	result := core.Parse(input, core.WithPredeclared(maps.Keys(r.state.ModuleScope())...))
	if result.HasErrors() {
		r.env.printDiagnostics(r.out, src, result.Errors, false)
		return true
	}

	statements := result.Chunk.Statements
	var lastExpr parse.Node

	if len(statements) > 0 {
		if stmt, ok := statements[len(statements)-1].(*parse.ExpressionStatement); ok && isDisplayedExpression(stmt.Expr) {
			lastExpr = stmt.Expr
			statements = statements[:len(statements)-1]
		}
	}

	chunk := &parse.Chunk{NodeBase: result.Chunk.NodeBase, Statements: statements}
	returned, err := core.Interpret(chunk, r.state)
	if err != nil {
		r.printError(src, err)
		return true
	}

	if returned != core.Nil {
		fmt.Fprintln(r.out, r.highlighter.FormatValue(returned))
		return true
	}

	if lastExpr != nil {
		value, err := core.TreeWalkEval(lastExpr, r.state)
		if err != nil {
			r.printError(src, err)
			return true
		}
		fmt.Fprintln(r.out, r.highlighter.FormatValue(value))
	}
	return true
}

func (r *repl) printError(src *sourcecode.ChunkSource, err error) {
	var evalErr *core.EvalError
	if errors.As(err, &evalErr) {
		r.env.printDiagnostics(r.out, src, []*sourcecode.Diagnostic{evalErr.Diagnostic}, false)
		return
	}
	fmt.Fprintln(r.out, err)
}

func (r *repl) printVariables() {
	scope := r.state.ModuleScope()
	names := maps.Keys(scope)
	slices.Sort(names)

	for _, name := range names {
		fmt.Fprintf(r.out, "%s = %s\n", name, r.highlighter.FormatValue(scope[name]))
	}
}

// complete returns the completions of the last word of line.
func (r *repl) complete(line string) (completions []string) {
	start := len(line)
	for start > 0 && parse.IsIdentChar(rune(line[start-1])) {
		start--
	}
	prefix := line[start:]
	if prefix == "" {
		return nil
	}

	candidates := slices.Clone(lsp.KEYWORDS)
	candidates = append(candidates, parse.NATIVE_FUNCTION_NAMES...)
	candidates = append(candidates, maps.Keys(r.state.ModuleScope())...)
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)

	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, prefix) && candidate != prefix {
			completions = append(completions, line[:start]+candidate)
		}
	}
	return
}

// isDisplayedExpression tells whether the value of an expression statement is printed, print calls and
// assignments are not displayed.
func isDisplayedExpression(expr parse.Node) bool {
	switch e := expr.(type) {
	case *parse.AssignmentExpression:
		return false
	case *parse.NativeCallExpression:
		return e.Function.Name != "print"
	}
	return true
}

// isIncompleteInput tells whether more lines are expected: a string literal is not terminated or a bracket is
// not closed.
func isIncompleteInput(input string) bool {
	tokens, err := parse.Scan(input)
	if err != nil {
		var diagnostic *sourcecode.Diagnostic
		return errors.As(err, &diagnostic) && diagnostic.Message == parse.UNTERMINATED_STRING
	}

	depth := 0
	for _, token := range tokens {
		switch token.Type {
		case parse.OPENING_CURLY_BRACKET, parse.OPENING_BRACKET, parse.OPENING_PARENTHESIS:
			depth++
		case parse.CLOSING_CURLY_BRACKET, parse.CLOSING_BRACKET, parse.CLOSING_PARENTHESIS:
			depth--
		}
	}
	return depth > 0
}
