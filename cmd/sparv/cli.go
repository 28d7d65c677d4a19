package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/muesli/termenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/prettyprint"
	"github.com/sparvlang/sparv/internal/sourcecode"
)

const (
	RUN_SUBCMD                   = "run"
	CHECK_SUBCMD                 = "check"
	FMT_SUBCMD                   = "fmt"
	REPL_SUBCMD                  = "repl"
	LSP_SUBCMD                   = "lsp"
	VERSION_SUBCMD               = "version"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
	HELP_SUBCMD                  = "help"
)

var (
	SUBCOMMANDS = []string{
		RUN_SUBCMD, CHECK_SUBCMD, FMT_SUBCMD, REPL_SUBCMD, LSP_SUBCMD, VERSION_SUBCMD,
		INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD, HELP_SUBCMD,
	}

	HELP_SUBCMD_EQUIVALENTS = []string{"--help", "-help", "-h"}

	SUBCOMMAND_DESCRIPTIONS = [][2]string{
		{RUN_SUBCMD, "run a script"},
		{CHECK_SUBCMD, "report the errors and warnings of the scripts matching the patterns (default: the patterns of sparv.yaml)"},
		{FMT_SUBCMD, "format scripts"},
		{REPL_SUBCMD, "start the REPL (default command)"},
		{LSP_SUBCMD, "start the language server"},
		{VERSION_SUBCMD, "print the version"},

		{INSTALL_COMPLETIONS_SUBCMD, "install CLI completions by addding the completion command to the detected rc file (supported shells are bash, zsh and fish)"},
		{UNINSTALL_COMPLETIONS_SUBCMD, "uninstall CLI completions by removing the completion command from the detected rc file"},
		{HELP_SUBCMD, "show the general help or command-specific help"},
	}

	SUBCOMMAND_DESCRIPTION_MAP = map[string]string{}

	SPARV_CMD_HELP = "commands:\n"

	predictScripts = predict.Files("*" + config.SCRIPT_EXTENSION)

	completer = &complete.Command{
		Sub: map[string]*complete.Command{
			RUN_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"watch": predict.Nothing,
				},
				Args: predictScripts,
			},
			CHECK_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"json": predict.Nothing,
				},
				Args: predictScripts,
			},
			FMT_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"check": predict.Nothing,
					"w":     predict.Nothing,
				},
				Args: predictScripts,
			},
			REPL_SUBCMD: {},
			LSP_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"ws":  predict.Set{"localhost:" + strconv.Itoa(DEFAULT_LSP_PORT)},
					"log": predict.Files("*.log"),
				},
			},
			VERSION_SUBCMD:               {},
			INSTALL_COMPLETIONS_SUBCMD:   {},
			UNINSTALL_COMPLETIONS_SUBCMD: {},
			HELP_SUBCMD: {
				Args: predict.Set(SUBCOMMANDS),
			},
		},
	}
)

func init() {
	for _, entry := range SUBCOMMAND_DESCRIPTIONS {
		cmd, desc := entry[0], entry[1]
		SUBCOMMAND_DESCRIPTION_MAP[cmd] = desc
		SPARV_CMD_HELP += "\t" + cmd + " - " + desc + "\n"
	}
	SPARV_CMD_HELP += "\nType `sparv help <command>` to get command-specific help.\n"
}

// moveFlagsStart moves the flags before the positional arguments because the flag package stops parsing at the
// first positional argument.
func moveFlagsStart(args []string) {
	index := 0

	for i := range args {
		if args[i] == "--" {
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			temp := args[i]
			args[i] = args[index]
			args[index] = temp
			index++
		}
	}
}

func showHelp(flags *flag.FlagSet, args []string, out io.Writer) bool {
	//only show help
	if slices.Contains(args, "-h") || slices.Contains(args, "--help") {

		cmd := flags.Name()
		if desc, ok := SUBCOMMAND_DESCRIPTION_MAP[cmd]; ok {
			fmt.Fprintln(out, desc)
		}

		flags.SetOutput(out)
		fmt.Fprint(out, "\noptions:\n")
		flags.PrintDefaults()

		return true
	}

	return false
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, errW io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(errW)
	return flags
}

// highlighter returns a highlighter for the output w, its colors are nil if w should not be colorized.
func (env *cliEnv) highlighter(w io.Writer) prettyprint.Highlighter {
	if !env.colorize(w) {
		return prettyprint.Highlighter{}
	}

	f, ok := w.(*os.File)
	if !ok {
		return prettyprint.Highlighter{Colors: &prettyprint.DEFAULT_DARKMODE_PRINT_COLORS}
	}
	output := termenv.NewOutput(f, termenv.WithProfile(config.ColorProfile(f, true)))
	return prettyprint.Highlighter{Colors: prettyprint.GetColors(output)}
}

// printDiagnostics writes the trace of each diagnostic, warnings are only printed if showWarnings is true.
func (env *cliEnv) printDiagnostics(w io.Writer, src *sourcecode.ChunkSource, diagnostics []*sourcecode.Diagnostic, showWarnings bool) {
	h := env.highlighter(w)

	for _, d := range diagnostics {
		emphasize := h.Emphasize
		if d.IsWarning() {
			if !showWarnings {
				continue
			}
			emphasize = h.Warn
		}

		sourcecode.FormatTrace(w, src, d, sourcecode.TraceConfig{
			ShowSourceName: true,
			HighlightLine:  h.HighlightCode,
			Emphasize:      emphasize,
		})
		fmt.Fprintln(w)
	}
}
