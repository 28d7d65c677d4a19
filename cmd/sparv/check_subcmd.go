package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/goccy/go-json"
	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/sourcecode"
	"github.com/sparvlang/sparv/internal/utils"
)

type CheckReport struct {
	Files        []FileCheckReport `json:"files"`
	ErrorCount   int               `json:"errorCount"`
	WarningCount int               `json:"warningCount"`
}

type FileCheckReport struct {
	Path        string                   `json:"path"`
	Diagnostics []*sourcecode.Diagnostic `json:"diagnostics"`
}

func CheckFiles(env *cliEnv, mainSubCommand string, mainSubCommandArgs []string) (exitCode int) {
	flags := newFlagSet(mainSubCommand, env.errOut)
	var jsonOutput bool
	flags.BoolVar(&jsonOutput, "json", false, "print a JSON report")

	if showHelp(flags, mainSubCommandArgs, env.out) {
		return
	}

	moveFlagsStart(mainSubCommandArgs)
	if err := flags.Parse(mainSubCommandArgs); err != nil {
		return ERROR_STATUS_CODE
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	projectConfig, err := config.FindProjectConfig(osfs.New("/"), wd)
	if err == nil && projectConfig != nil {
		err = projectConfig.CheckVersion(config.VERSION)
	}
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	root := wd
	patterns := flags.Args()
	if len(patterns) == 0 {
		patterns = projectConfig.IncludePatterns()
		if projectConfig != nil {
			root = projectConfig.Dir
		}
	}

	paths, err := findScripts(root, patterns)
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		return ERROR_STATUS_CODE
	}

	report, err := checkScripts(paths)
	if err != nil {
		fmt.Fprintln(env.errOut, err)
		exitCode = ERROR_STATUS_CODE
	}

	if jsonOutput {
		fmt.Fprintf(env.out, "%s\n", utils.Must(json.MarshalIndent(report, "", "  ")))
	} else {
		for _, file := range report.Files {
			content, err := os.ReadFile(file.Path)
			if err != nil {
				continue
			}
			src := sourcecode.NewChunkSource(file.Path, string(content))
			env.printDiagnostics(env.out, src, file.Diagnostics, true)
		}
		fmt.Fprintf(env.out, "%d file(s) checked: %d error(s), %d warning(s)\n", len(paths), report.ErrorCount, report.WarningCount)
	}

	if report.ErrorCount > 0 {
		exitCode = ERROR_STATUS_CODE
	}
	return
}

// findScripts returns the sorted paths of the files matching the glob patterns, relative patterns are resolved
// from root.
func findScripts(root string, patterns []string) ([]string, error) {
	var paths []string

	for _, pattern := range patterns {
		base := root
		if filepath.IsAbs(pattern) {
			base, pattern = doublestar.SplitPattern(filepath.ToSlash(pattern))
		} else {
			pattern = filepath.ToSlash(filepath.Clean(pattern))
		}

		matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			path := filepath.Join(base, filepath.FromSlash(match))
			if !slices.Contains(paths, path) {
				paths = append(paths, path)
			}
		}
	}

	slices.Sort(paths)
	return paths, nil
}

// checkScripts parses and analyzes the scripts, files that cannot be read are skipped and reported in the
// returned error.
func checkScripts(paths []string) (CheckReport, error) {
	report := CheckReport{
		Files: []FileCheckReport{},
	}
	var errs []error

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		result := core.Parse(string(content))

		diagnostics := slices.Clone(result.Errors)
		if result.Analysis != nil {
			diagnostics = append(diagnostics, result.Analysis.Warnings...)
		}
		if len(diagnostics) == 0 {
			continue
		}

		for _, d := range diagnostics {
			if d.IsWarning() {
				report.WarningCount++
			} else {
				report.ErrorCount++
			}
		}

		report.Files = append(report.Files, FileCheckReport{
			Path:        path,
			Diagnostics: diagnostics,
		})
	}

	if len(errs) != 0 {
		return report, utils.CombineErrors(errs...)
	}
	return report, nil
}
