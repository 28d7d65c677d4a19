package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

const (
	APP_NAME = "sparv"
	VERSION  = "0.1.0"

	SCRIPT_EXTENSION = ".sparv"

	USER_CONFIG_RELPATH    = APP_NAME + "/config.yaml"
	LSP_LOG_RELPATH        = APP_NAME + "/lsp.log"
	REPL_HISTORY_RELPATH   = APP_NAME + "/repl_history"
	PROJECT_CONFIG_NAME    = APP_NAME + ".yaml"
	LOG_LEVEL_ENV_VARNAME  = "SPARV_LOG_LEVEL"
	DEFAULT_LOG_LEVEL      = zerolog.WarnLevel
	DEFAULT_LSP_DEBOUNCE   = 500 * time.Millisecond
	DEFAULT_CHECK_PATTERN  = "**/*" + SCRIPT_EXTENSION
	MAX_PROJECT_DIR_ASCENT = 50

	COLOR_AUTO   = "auto"
	COLOR_ALWAYS = "always"
	COLOR_NEVER  = "never"
)

var (
	USER_HOME             string
	FORCE_COLOR           bool
	TRUECOLOR_COLORTERM   bool
	TERM_256COLOR_CAPABLE bool
	NO_COLOR              bool
	SHOULD_COLORIZE       bool

	ErrVersionNotSatisfied = errors.New("version constraint not satisfied")
)

func init() {
	targetSpecificInit()
}

// UserConfig is read from $XDG_CONFIG_HOME/sparv/config.yaml, all fields are optional.
type UserConfig struct {
	LogLevel string `yaml:"log_level"`
	Color    string `yaml:"color"`

	LSP struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"lsp"`

	REPL struct {
		History string `yaml:"history"`
	} `yaml:"repl"`
}

// LoadUserConfig reads the user configuration, a missing file is not an error.
func LoadUserConfig() (*UserConfig, error) {
	cfg := &UserConfig{}

	path, err := xdg.SearchConfigFile(USER_CONFIG_RELPATH)
	if err != nil {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return cfg, ParseUserConfig(content, cfg)
}

func ParseUserConfig(content []byte, cfg *UserConfig) error {
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("invalid user configuration: %w", err)
	}

	switch cfg.Color {
	case "", COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER:
	default:
		return fmt.Errorf("invalid user configuration: color should be %q, %q or %q", COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER)
	}
	return nil
}

// Level returns the log level, the SPARV_LOG_LEVEL environment variable takes precedence over the file.
func (cfg *UserConfig) Level() zerolog.Level {
	levelName := cfg.LogLevel
	if s, ok := os.LookupEnv(LOG_LEVEL_ENV_VARNAME); ok && s != "" {
		levelName = s
	}
	if levelName == "" {
		return DEFAULT_LOG_LEVEL
	}

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return DEFAULT_LOG_LEVEL
	}
	return level
}

func (cfg *UserConfig) LSPDebounce() time.Duration {
	if cfg.LSP.Debounce == "" {
		return DEFAULT_LSP_DEBOUNCE
	}
	d, err := time.ParseDuration(cfg.LSP.Debounce)
	if err != nil || d < 0 {
		return DEFAULT_LSP_DEBOUNCE
	}
	return d
}

// Colorize tells whether the output written to a terminal (or not) should be colorized.
func (cfg *UserConfig) Colorize(isTerminal bool) bool {
	switch cfg.Color {
	case COLOR_ALWAYS:
		return true
	case COLOR_NEVER:
		return false
	default:
		return isTerminal && SHOULD_COLORIZE
	}
}

// REPLHistoryPath returns the path of the history file, the parent directory is created if necessary.
func (cfg *UserConfig) REPLHistoryPath() (string, error) {
	if cfg.REPL.History != "" {
		return cfg.REPL.History, nil
	}
	return xdg.StateFile(REPL_HISTORY_RELPATH)
}

// LSPLogFilePath returns the default path of the log file of the language server.
func LSPLogFilePath() (string, error) {
	return xdg.StateFile(LSP_LOG_RELPATH)
}

// ProjectConfig is read from the nearest sparv.yaml file.
type ProjectConfig struct {
	//version constraint, e.g. ">= 0.1, < 1"
	Sparv string `yaml:"sparv"`

	Check struct {
		Include []string `yaml:"include"`
	} `yaml:"check"`

	//directory containing the file
	Dir string `yaml:"-"`
}

// FindProjectConfig searches for a sparv.yaml file in dir and its ancestors, nil is returned if there is none.
func FindProjectConfig(fls billy.Filesystem, dir string) (*ProjectConfig, error) {
	dir = filepath.Clean(dir)

	for i := 0; i < MAX_PROJECT_DIR_ASCENT; i++ {
		path := filepath.Join(dir, PROJECT_CONFIG_NAME)

		if _, err := fls.Stat(path); err == nil {
			content, err := util.ReadFile(fls, path)
			if err != nil {
				return nil, err
			}
			cfg, err := ParseProjectConfig(content)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			cfg.Dir = dir
			return cfg, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, nil
}

func ParseProjectConfig(content []byte) (*ProjectConfig, error) {
	cfg := &ProjectConfig{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	if cfg.Sparv != "" {
		if _, err := semver.NewConstraint(cfg.Sparv); err != nil {
			return nil, fmt.Errorf("invalid version constraint %q: %w", cfg.Sparv, err)
		}
	}
	return cfg, nil
}

// CheckVersion returns an error if version does not satisfy the constraint of the project.
func (cfg *ProjectConfig) CheckVersion(version string) error {
	if cfg.Sparv == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(cfg.Sparv)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return err
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: the project requires sparv %s but the version is %s", ErrVersionNotSatisfied, cfg.Sparv, version)
	}
	return nil
}

// IncludePatterns returns the glob patterns of the files checked by 'sparv check'.
func (cfg *ProjectConfig) IncludePatterns() []string {
	if cfg == nil || len(cfg.Check.Include) == 0 {
		return []string{DEFAULT_CHECK_PATTERN}
	}
	return cfg.Check.Include
}
