package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/lsp"
	"github.com/sparvlang/sparv/internal/utils"
)

const (
	DEFAULT_LSP_PORT   = 8305
	LSP_LOG_FILE_PERMS = 0o600
)

// StartLanguageServer serves a single client on stdio, or websocket clients if the -ws flag is set.
// The logs are written to a file because stdout is used by the protocol.
func StartLanguageServer(env *cliEnv, mainSubCommand string, mainSubCommandArgs []string) (exitCode int) {
	flags := newFlagSet(mainSubCommand, env.errOut)
	var wsAddr, logFile string
	flags.StringVar(&wsAddr, "ws", "", fmt.Sprintf("accept websocket connections on the address (e.g. localhost:%d) instead of using stdio", DEFAULT_LSP_PORT))
	flags.StringVar(&logFile, "log", "", "log file, defaults to $XDG_STATE_HOME/sparv/lsp.log")

	if showHelp(flags, mainSubCommandArgs, env.out) {
		return
	}
	if err := flags.Parse(mainSubCommandArgs); err != nil {
		return ERROR_STATUS_CODE
	}

	if logFile == "" {
		path, err := config.LSPLogFilePath()
		if err != nil {
			fmt.Fprintln(env.errOut, err)
			return ERROR_STATUS_CODE
		}
		logFile = path
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, LSP_LOG_FILE_PERMS)
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}
	defer f.Close()

	logger := zerolog.New(f).Level(env.userConfig.Level()).With().Timestamp().Logger()

	defer func() {
		if e := recover(); e != nil {
			err := utils.ConvertPanicValueToError(e)
			logger.Err(err).Bytes("stack", debug.Stack()).Msg("language server crashed")
			exitCode = ERROR_STATUS_CODE
		}
	}()

	server := lsp.NewServer(lsp.Options{
		Docs:     lsp.DEFAULT_DOCS,
		Debounce: env.userConfig.LSPDebounce(),
		Logger:   logger,
	})

	if wsAddr == "" {
		logger.Info().Msg("serve on stdio")
		if err := server.ServeStdio(env.in, env.out); err != nil {
			logger.Err(err).Send()
			fmt.Fprintln(env.errOut, err)
			return ERROR_STATUS_CODE
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := server.ListenWebsocket(ctx, wsAddr); err != nil {
		logger.Err(err).Send()
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}
	return 0
}
