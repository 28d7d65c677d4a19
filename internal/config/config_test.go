package config

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfig(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		t.Setenv(LOG_LEVEL_ENV_VARNAME, "")

		cfg := &UserConfig{}
		require.NoError(t, ParseUserConfig([]byte(""), cfg))

		assert.Equal(t, DEFAULT_LOG_LEVEL, cfg.Level())
		assert.Equal(t, DEFAULT_LSP_DEBOUNCE, cfg.LSPDebounce())
	})

	t.Run("all fields", func(t *testing.T) {
		t.Setenv(LOG_LEVEL_ENV_VARNAME, "")

		cfg := &UserConfig{}
		err := ParseUserConfig([]byte("log_level: debug\ncolor: never\nlsp:\n  debounce: 200ms\nrepl:\n  history: /tmp/h\n"), cfg)
		require.NoError(t, err)

		assert.Equal(t, zerolog.DebugLevel, cfg.Level())
		assert.Equal(t, 200*time.Millisecond, cfg.LSPDebounce())
		assert.False(t, cfg.Colorize(true))

		path, err := cfg.REPLHistoryPath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/h", path)
	})

	t.Run("environment variable overrides the log level", func(t *testing.T) {
		t.Setenv(LOG_LEVEL_ENV_VARNAME, "error")

		cfg := &UserConfig{LogLevel: "debug"}
		assert.Equal(t, zerolog.ErrorLevel, cfg.Level())
	})

	t.Run("invalid color", func(t *testing.T) {
		cfg := &UserConfig{}
		assert.Error(t, ParseUserConfig([]byte("color: sometimes"), cfg))
	})

	t.Run("colors forced", func(t *testing.T) {
		cfg := &UserConfig{Color: COLOR_ALWAYS}
		assert.True(t, cfg.Colorize(false))
	})
}

func TestProjectConfig(t *testing.T) {
	t.Run("found in an ancestor directory", func(t *testing.T) {
		fls := memfs.New()
		require.NoError(t, util.WriteFile(fls, "/project/sparv.yaml", []byte("sparv: '>= 0.1'\ncheck:\n  include: ['src/**/*.sparv']\n"), 0o644))
		require.NoError(t, fls.MkdirAll("/project/src/lib", 0o755))

		cfg, err := FindProjectConfig(fls, "/project/src/lib")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "/project", cfg.Dir)
		assert.Equal(t, []string{"src/**/*.sparv"}, cfg.IncludePatterns())
		assert.NoError(t, cfg.CheckVersion("0.1.0"))
		assert.ErrorIs(t, cfg.CheckVersion("0.0.9"), ErrVersionNotSatisfied)
	})

	t.Run("not found", func(t *testing.T) {
		fls := memfs.New()
		cfg, err := FindProjectConfig(fls, "/a/b")
		require.NoError(t, err)
		assert.Nil(t, cfg)
		assert.Equal(t, []string{DEFAULT_CHECK_PATTERN}, cfg.IncludePatterns())
	})

	t.Run("invalid constraint", func(t *testing.T) {
		_, err := ParseProjectConfig([]byte("sparv: 'not a constraint'"))
		assert.Error(t, err)
	})
}
