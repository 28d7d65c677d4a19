package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sparvlang/sparv/internal/lsp"
)

func FormatFiles(env *cliEnv, mainSubCommand string, mainSubCommandArgs []string) (exitCode int) {
	flags := newFlagSet(mainSubCommand, env.errOut)
	var check, write bool
	flags.BoolVar(&check, "check", false, "list the files that are not formatted, the exit code is 1 if there is at least one")
	flags.BoolVar(&write, "w", false, "write the formatted code to the files instead of printing it")

	if showHelp(flags, mainSubCommandArgs, env.out) {
		return
	}

	moveFlagsStart(mainSubCommandArgs)
	if err := flags.Parse(mainSubCommandArgs); err != nil {
		return ERROR_STATUS_CODE
	}

	if flags.NArg() == 0 {
		fmt.Fprintf(env.errOut, "missing script path\n")
		return ERROR_STATUS_CODE
	}

	for _, fpath := range flags.Args() {
		info, err := os.Stat(fpath)
		if err != nil {
			fmt.Fprintln(env.errOut, err)
			exitCode = ERROR_STATUS_CODE
			continue
		}

		content, err := os.ReadFile(fpath)
		if err != nil {
			fmt.Fprintln(env.errOut, err)
			exitCode = ERROR_STATUS_CODE
			continue
		}

		code := string(content)
		formatted := lsp.Format(code)

		switch {
		case check:
			if formatted != code {
				fmt.Fprintln(env.out, fpath)
				exitCode = ERROR_STATUS_CODE
			}
		case write:
			if formatted == code {
				continue
			}
			if err := os.WriteFile(fpath, []byte(formatted), info.Mode().Perm()); err != nil {
				fmt.Fprintln(env.errOut, err)
				exitCode = ERROR_STATUS_CODE
			}
		default:
			fmt.Fprint(env.out, formatted)
			if !strings.HasSuffix(formatted, "\n") {
				fmt.Fprintln(env.out)
			}
		}
	}

	return
}
