package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/sourcecode"
)

const WATCH_DEBOUNCE = 100 * time.Millisecond

var ErrNotAScript = errors.New("not a " + config.SCRIPT_EXTENSION + " file")

func RunProgram(env *cliEnv, mainSubCommand string, mainSubCommandArgs []string) (exitCode int) {
	flags := newFlagSet(mainSubCommand, env.errOut)
	var watch bool
	flags.BoolVar(&watch, "watch", false, "run the script again each time it is modified")

	if showHelp(flags, mainSubCommandArgs, env.out) {
		return
	}

	moveFlagsStart(mainSubCommandArgs)
	if err := flags.Parse(mainSubCommandArgs); err != nil {
		return ERROR_STATUS_CODE
	}

	fpath := flags.Arg(0)
	if fpath == "" {
		fmt.Fprintf(env.errOut, "missing script path\n")
		return ERROR_STATUS_CODE
	}

	if filepath.Ext(fpath) != config.SCRIPT_EXTENSION {
		fmt.Fprintf(env.errOut, "%s: %s\n", fpath, ErrNotAScript)
		return ERROR_STATUS_CODE
	}

	absPath, err := filepath.Abs(fpath)
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if watch {
		return watchScript(ctx, env, absPath)
	}
	return runScript(ctx, env, absPath)
}

// runScript runs the script at the absolute path fpath, read_file reads files relatively to the directory
// of the script.
func runScript(ctx context.Context, env *cliEnv, fpath string) (exitCode int) {
	dir := filepath.Dir(fpath)

	content, err := os.ReadFile(fpath)
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	projectConfig, err := config.FindProjectConfig(osfs.New("/"), dir)
	if err == nil && projectConfig != nil {
		err = projectConfig.CheckVersion(config.VERSION)
	}
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	src := sourcecode.NewChunkSource(filepath.Base(fpath), string(content))

	result := core.Parse(src.Code())
	if result.HasErrors() {
		env.printDiagnostics(env.errOut, src, result.Errors, false)
		return ERROR_STATUS_CODE
	}

	env.logger.Debug().Str("script", fpath).Msg("run")

	state := core.NewTreeWalkState(core.StateConfig{
		Out:        env.out,
		In:         env.in,
		Filesystem: osfs.New(dir),
		Logger:     &env.logger,
		Ctx:        ctx,
	})

	_, err = core.Interpret(result.Chunk, state)
	if err != nil {
		var evalErr *core.EvalError
		if errors.As(err, &evalErr) {
			env.printDiagnostics(env.errOut, src, []*sourcecode.Diagnostic{evalErr.Diagnostic}, false)
		} else {
			fmt.Fprintln(env.errOut, err)
		}
		return ERROR_STATUS_CODE
	}

	return 0
}

// watchScript runs the script each time it is modified until ctx is done, a run is cancelled if the script
// is modified during its execution.
func watchScript(ctx context.Context, env *cliEnv, fpath string) (exitCode int) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}
	defer watcher.Close()

	//the directory is watched because editors often replace files instead of writing them.
	if err := watcher.Add(filepath.Dir(fpath)); err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	rerun := make(chan struct{}, 1)
	debounced := debounce.New(WATCH_DEBOUNCE)

	var cancelRun context.CancelFunc
	var runDone chan struct{}

	startRun := func() {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		cancelRun, runDone = cancel, done

		go func() {
			defer close(done)
			runScript(runCtx, env, fpath)
		}()
	}

	stopRun := func() {
		if cancelRun != nil {
			cancelRun()
			<-runDone
		}
	}
	defer stopRun()

	startRun()

	for {
		select {
		case <-ctx.Done():
			return 0
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if filepath.Clean(event.Name) != fpath || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounced(func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case <-rerun:
			stopRun()
			env.logger.Info().Str("script", fpath).Msg("script modified, run again")
			startRun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			env.logger.Err(err).Msg("watch error")
		}
	}
}
