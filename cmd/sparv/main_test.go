package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func runCLI(t *testing.T, input string, args ...string) (exitCode int, stdout string, stderr string) {
	var out, errOut bytes.Buffer
	exitCode = _main(append([]string{COMMAND_NAME}, args...), strings.NewReader(input), &out, &errOut)
	return exitCode, out.String(), errOut.String()
}

func writeScript(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCLI(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		exitCode, stdout, _ := runCLI(t, "", HELP_SUBCMD)
		assert.Zero(t, exitCode)
		assert.Contains(t, stdout, "commands:")
		assert.Contains(t, stdout, RUN_SUBCMD+" - ")
	})

	t.Run("command help", func(t *testing.T) {
		exitCode, stdout, _ := runCLI(t, "", HELP_SUBCMD, RUN_SUBCMD)
		assert.Zero(t, exitCode)
		assert.Contains(t, stdout, SUBCOMMAND_DESCRIPTION_MAP[RUN_SUBCMD])
		assert.Contains(t, stdout, "-watch")
	})

	t.Run("unknown command", func(t *testing.T) {
		exitCode, _, stderr := runCLI(t, "", "chek")
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, stderr, "unknown command 'chek', did you mean 'check' ?")
	})

	t.Run("version", func(t *testing.T) {
		_, stdout, _ := runCLI(t, "", VERSION_SUBCMD)
		assert.Contains(t, stdout, "sparv ")
	})
}

func TestRunSubcommand(t *testing.T) {
	t.Run("output", func(t *testing.T) {
		path := writeScript(t, t.TempDir(), "main.sparv", "var a = 1;\nprint(a + 2);\nprint(\"done\");")

		exitCode, stdout, stderr := runCLI(t, "", RUN_SUBCMD, path)
		assert.Zero(t, exitCode, stderr)
		assert.Equal(t, "3\ndone\n", stdout)
	})

	t.Run("input and files are relative to the script", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "data.txt", "hello")
		path := writeScript(t, dir, "main.sparv", "print(read_file(\"data.txt\"));\nprint(read_input());")

		exitCode, stdout, stderr := runCLI(t, "line\n", RUN_SUBCMD, path)
		assert.Zero(t, exitCode, stderr)
		assert.Equal(t, "hello\nline\n", stdout)
	})

	t.Run("analysis errors prevent the execution", func(t *testing.T) {
		path := writeScript(t, t.TempDir(), "main.sparv", "print(1);\nprint(undefinedVar);")

		exitCode, stdout, stderr := runCLI(t, "", RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "Error in main.sparv")
		assert.Contains(t, stderr, ">>> ")
		assert.Contains(t, stderr, "undefinedVar")
		assert.Contains(t, stderr, "at 2:6")
	})

	t.Run("runtime error", func(t *testing.T) {
		path := writeScript(t, t.TempDir(), "main.sparv", "print(1);\nxor(\"a\", 1);")

		exitCode, stdout, stderr := runCLI(t, "", RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Equal(t, "1\n", stdout)
		assert.Contains(t, stderr, "xor")
		assert.Contains(t, stderr, "at 2:")
	})

	t.Run("not a script", func(t *testing.T) {
		path := writeScript(t, t.TempDir(), "main.txt", "print(1);")

		exitCode, _, stderr := runCLI(t, "", RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, stderr, ErrNotAScript.Error())
	})

	t.Run("missing path", func(t *testing.T) {
		exitCode, _, stderr := runCLI(t, "", RUN_SUBCMD)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, stderr, "missing script path")
	})

	t.Run("unsatisfied project version constraint", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "sparv.yaml", "sparv: '>= 100'\n")
		path := writeScript(t, dir, "main.sparv", "print(1);")

		exitCode, stdout, stderr := runCLI(t, "", RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "version constraint not satisfied")
	})
}

func TestCheckSubcommand(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.sparv", "var unused = 1;")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o700))
	writeScript(t, filepath.Join(dir, "lib"), "b.sparv", "print(x);")
	writeScript(t, dir, "ok.sparv", "print(1);")

	pattern := filepath.Join(dir, "**", "*.sparv")

	t.Run("json report", func(t *testing.T) {
		exitCode, stdout, _ := runCLI(t, "", CHECK_SUBCMD, "-json", pattern)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)

		report := gjson.Parse(stdout)
		assert.EqualValues(t, 1, report.Get("errorCount").Int())
		assert.EqualValues(t, 1, report.Get("warningCount").Int())

		files := report.Get("files").Array()
		require.Len(t, files, 2)
		assert.Equal(t, filepath.Join(dir, "a.sparv"), files[0].Get("path").String())
		assert.Equal(t, filepath.Join(dir, "lib", "b.sparv"), files[1].Get("path").String())
		assert.EqualValues(t, 1, files[1].Get("diagnostics.0.line").Int())
	})

	t.Run("text report", func(t *testing.T) {
		exitCode, stdout, _ := runCLI(t, "", CHECK_SUBCMD, pattern)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, stdout, "3 file(s) checked: 1 error(s), 1 warning(s)")
		assert.Contains(t, stdout, "unused")
	})

	t.Run("no errors", func(t *testing.T) {
		exitCode, stdout, _ := runCLI(t, "", CHECK_SUBCMD, filepath.Join(dir, "ok.sparv"))
		assert.Zero(t, exitCode)
		assert.Contains(t, stdout, "1 file(s) checked: 0 error(s), 0 warning(s)")
	})
}

func TestFmtSubcommand(t *testing.T) {
	const unformatted = "var a = 1; print(a);\n"
	const formatted = "var a = 1;\nprint(a);\n"

	t.Run("print", func(t *testing.T) {
		path := writeScript(t, t.TempDir(), "main.sparv", unformatted)

		exitCode, stdout, _ := runCLI(t, "", FMT_SUBCMD, path)
		assert.Zero(t, exitCode)
		assert.Equal(t, formatted, stdout)
	})

	t.Run("check", func(t *testing.T) {
		dir := t.TempDir()
		path := writeScript(t, dir, "main.sparv", unformatted)
		formattedPath := writeScript(t, dir, "formatted.sparv", formatted)

		exitCode, stdout, _ := runCLI(t, "", FMT_SUBCMD, "-check", path, formattedPath)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Equal(t, path+"\n", stdout)
	})

	t.Run("write", func(t *testing.T) {
		path := writeScript(t, t.TempDir(), "main.sparv", unformatted)

		exitCode, _, _ := runCLI(t, "", FMT_SUBCMD, "-w", path)
		assert.Zero(t, exitCode)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(content))
	})
}

func TestREPL(t *testing.T) {
	t.Run("state is kept between inputs", func(t *testing.T) {
		input := strings.Join([]string{
			"var x = 2;",
			"x * 3;",
			"fun f(a) {",
			"    return a + x;",
			"}",
			"f(1);",
			"print(\"printed\");",
			REPL_VARS_COMMAND,
			REPL_QUIT_COMMAND,
			"print(\"not evaluated\");",
		}, "\n")

		exitCode, stdout, _ := runCLI(t, input, REPL_SUBCMD)
		assert.Zero(t, exitCode)

		assert.Equal(t, strings.Join([]string{
			"6",
			"3",
			"printed",
			"f = <function>",
			"x = 2",
			"",
		}, "\n"), stdout)
	})

	t.Run("errors do not stop the REPL", func(t *testing.T) {
		exitCode, stdout, _ := runCLI(t, "print(y);\nxor(1, \"a\");\n\"ok\";\n", REPL_SUBCMD)
		assert.Zero(t, exitCode)

		assert.Contains(t, stdout, ">>> ")
		assert.True(t, strings.HasSuffix(stdout, "\"ok\"\n"), stdout)
	})
}

func TestIsIncompleteInput(t *testing.T) {
	assert.True(t, isIncompleteInput("fun f() {"))
	assert.True(t, isIncompleteInput("var l = [1,"))
	assert.True(t, isIncompleteInput("var s = \"a"))
	assert.False(t, isIncompleteInput("fun f() { return 1; }"))
	assert.False(t, isIncompleteInput("var a = @;"))
}
