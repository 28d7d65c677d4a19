package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"unicode"

	"github.com/posener/complete/v2/install"
	"github.com/rs/zerolog"
	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/utils"
)

const (
	ERROR_STATUS_CODE = 1
	COMMAND_NAME      = config.APP_NAME

	MAX_SUBCOMMAND_SUGGESTION_DISTANCE = 2
)

func main() {
	//handle completions
	completer.Complete(COMMAND_NAME)

	statusCode := _main(os.Args, os.Stdin, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(args []string, inR io.Reader, outW io.Writer, errW io.Writer) (statusCode int) {
	mainSubCommand := ""
	var mainSubCommandArgs []string

	if len(args) == 1 { //no subcommand specified
		mainSubCommand = REPL_SUBCMD
	} else {
		mainSubCommand = args[1]
		mainSubCommandArgs = args[2:]
	}

	//if the command has the shape help <subcommand> ... we modify the arguments to ask the subcommand to print its help message.
	if mainSubCommand == HELP_SUBCMD && len(mainSubCommandArgs) > 0 && mainSubCommandArgs[0] != "" && unicode.IsLetter(rune(mainSubCommandArgs[0][0])) {
		mainSubCommand = mainSubCommandArgs[0]
		mainSubCommandArgs = []string{"-h"}
	}

	if slices.Contains(HELP_SUBCMD_EQUIVALENTS, mainSubCommand) {
		mainSubCommand = HELP_SUBCMD
	}

	//unknown command
	if !slices.Contains(SUBCOMMANDS, mainSubCommand) {
		fmt.Fprintf(errW, "unknown command '%s'", mainSubCommand)

		closest, _, ok := utils.FindClosestString(context.Background(), SUBCOMMANDS, mainSubCommand, MAX_SUBCOMMAND_SUGGESTION_DISTANCE)
		if ok {
			fmt.Fprintf(errW, ", did you mean '%s' ?\n", closest)
		} else {
			fmt.Fprint(errW, "\n"+SPARV_CMD_HELP)
		}
		return ERROR_STATUS_CODE
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	env := &cliEnv{
		in:         inR,
		out:        outW,
		errOut:     errW,
		userConfig: userConfig,
		logger:     newLogger(errW, userConfig),
	}

	switch mainSubCommand {
	case HELP_SUBCMD:
		fmt.Fprint(outW, SPARV_CMD_HELP)
		return
	case VERSION_SUBCMD:
		fmt.Fprintln(outW, config.APP_NAME, config.VERSION)
		return
	case INSTALL_COMPLETIONS_SUBCMD:
		err := install.Install(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "installed")
		return
	case UNINSTALL_COMPLETIONS_SUBCMD:
		err := install.Uninstall(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "uninstalled")
		return
	case RUN_SUBCMD:
		return RunProgram(env, mainSubCommand, mainSubCommandArgs)
	case CHECK_SUBCMD:
		return CheckFiles(env, mainSubCommand, mainSubCommandArgs)
	case FMT_SUBCMD:
		return FormatFiles(env, mainSubCommand, mainSubCommandArgs)
	case REPL_SUBCMD:
		return StartREPL(env, mainSubCommand, mainSubCommandArgs)
	case LSP_SUBCMD:
		return StartLanguageServer(env, mainSubCommand, mainSubCommandArgs)
	default:
		panic(fmt.Errorf("unhandled command %q", mainSubCommand))
	}
}

// cliEnv is the environment shared by the subcommands.
type cliEnv struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	userConfig *config.UserConfig
	logger     zerolog.Logger
}

// isTerminal tells whether w is a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && config.IsTerminal(f)
}

func (env *cliEnv) colorize(w io.Writer) bool {
	return env.userConfig.Colorize(isTerminal(w))
}

func newLogger(errW io.Writer, userConfig *config.UserConfig) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:     errW,
		NoColor: !userConfig.Colorize(isTerminal(errW)),
	}
	return zerolog.New(writer).Level(userConfig.Level()).With().Timestamp().Logger()
}
