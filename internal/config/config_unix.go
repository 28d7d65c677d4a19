//go:build unix

package config

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	UNIX = true
)

func targetSpecificInit() {
	// HOME

	HOME, err := os.UserHomeDir()
	if err == nil {
		if HOME[len(HOME)-1] != '/' {
			HOME += "/"
		}
		USER_HOME = HOME
	}

	// FORCE COLOR

	if s, ok := os.LookupEnv("FORCE_COLOR"); ok {
		FORCE_COLOR = len(s) != 0 && s != "false" && s != "0"
	}

	//TERMCOLOR

	TRUECOLOR_COLORTERM = os.Getenv("COLORTERM") == "truecolor"

	//NO_COLOR

	if s, ok := os.LookupEnv("NO_COLOR"); ok {
		NO_COLOR = len(s) != 0 && s != "false" && s != "0"
	}

	//TERM

	term := os.Getenv("TERM")
	if strings.Contains(term, "256color") {
		TERM_256COLOR_CAPABLE = true
	}

	//

	SHOULD_COLORIZE = !NO_COLOR && (FORCE_COLOR || TRUECOLOR_COLORTERM || TERM_256COLOR_CAPABLE)
}

// IsTerminal tells whether the file is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ColorProfile returns the color profile used to colorize the output written to f.
func ColorProfile(f *os.File, colorize bool) termenv.Profile {
	if !colorize {
		return termenv.Ascii
	}
	if TRUECOLOR_COLORTERM {
		return termenv.TrueColor
	}
	if profile := termenv.NewOutput(f).EnvColorProfile(); profile != termenv.Ascii {
		return profile
	}
	return termenv.ANSI256
}
