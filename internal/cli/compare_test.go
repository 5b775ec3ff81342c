package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/golden/internal/harness"
)

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCompareCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(harness.UpdateEnv, "")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewCompareCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestCompareCommandMissingArgs(t *testing.T) {
	_, err := runCompareCmd(t, "text", "only-one")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg")
}

func TestCompareCommandEqual(t *testing.T) {
	dir := t.TempDir()
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), "hello\n")
	golden := writeTestFile(t, filepath.Join(dir, "out.golden"), "hello\n")

	out, err := runCompareCmd(t, "text", actual, golden)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
}

func TestCompareCommandMismatchExitsOne(t *testing.T) {
	dir := t.TempDir()
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), "a\nb\nc\n")
	golden := writeTestFile(t, filepath.Join(dir, "out.golden"), "a\nX\nc\n")

	out, err := runCompareCmd(t, "text", actual, golden, "--style", "unified")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "--- expected")
	assert.Contains(t, out, "+++ actual")
	assert.Contains(t, out, "(1 hunk(s): ")
}

func TestCompareCommandRegexConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestFile(t, filepath.Join(dir, "golden.yaml"), `
string:
  regex_replacements:
    - pattern: 'id=\d+'
      replacement: 'id={N}'
`)
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), "id=42 ok")
	golden := writeTestFile(t, filepath.Join(dir, "out.golden"), "id={N} ok")

	_, err := runCompareCmd(t, "text", actual, golden, "--config", cfg)
	require.NoError(t, err)
}

func TestCompareCommandStructuredJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestFile(t, filepath.Join(dir, "golden.yaml"), "structured:\n  ignores: [ts]\n")
	actual := writeTestFile(t, filepath.Join(dir, "out.json"), `{"a":1,"b":3,"ts":100}`)
	golden := writeTestFile(t, filepath.Join(dir, "golden.json"), `{"a":1,"b":2,"ts":200}`)

	out, err := runCompareCmd(t, "json", actual, golden, "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Discrepancy values are interfaces, so decode only what is asserted.
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Equal         bool   `json:"equal"`
			Message       string `json:"message"`
			Discrepancies []struct {
				Kind string `json:"kind"`
				Path string `json:"path"`
			} `json:"discrepancies"`
		} `json:"data"`
		Error *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMismatch, resp.Error.Code)
	assert.False(t, resp.Data.Equal)
	assert.Equal(t, "Expected 'b' to be '2' but got '3'.", resp.Data.Message)
	require.Len(t, resp.Data.Discrepancies, 1)
	assert.Equal(t, "b", resp.Data.Discrepancies[0].Path)
	assert.Equal(t, "value_mismatch", resp.Data.Discrepancies[0].Kind)
}

func TestCompareCommandStructuredYAMLFromStdin(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestFile(t, filepath.Join(dir, "golden.yaml"), "structured:\n  allow_additional_keys: true\n")
	golden := writeTestFile(t, filepath.Join(dir, "golden.yml"), "a: 1\n")

	t.Setenv(harness.UpdateEnv, "")
	buf := &bytes.Buffer{}
	cmd := NewCompareCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("a: 1\nextra: true\n"))
	cmd.SetArgs([]string{"-", golden, "--config", cfg})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓")
}

func TestCompareCommandDecodeErrorExitsTwo(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestFile(t, filepath.Join(dir, "golden.yaml"), "structured: {}\n")
	actual := writeTestFile(t, filepath.Join(dir, "out.json"), `{"a":`)
	golden := writeTestFile(t, filepath.Join(dir, "golden.json"), `{"a":1}`)

	out, err := runCompareCmd(t, "json", actual, golden, "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDecode, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "side=actual")
}

func TestCompareCommandStructuredWithoutDecoder(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestFile(t, filepath.Join(dir, "golden.yaml"), "structured: {}\n")
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), `{"a":1}`)
	golden := writeTestFile(t, filepath.Join(dir, "out.golden"), `{"a":1}`)

	_, err := runCompareCmd(t, "text", actual, golden, "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "requires a decoder")

	_, err = runCompareCmd(t, "text", actual, golden, "--config", cfg, "--decoder", "json")
	require.NoError(t, err)
}

func TestCompareCommandBadInputs(t *testing.T) {
	dir := t.TempDir()
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), "x")
	golden := writeTestFile(t, filepath.Join(dir, "out.golden"), "x")
	badCfg := writeTestFile(t, filepath.Join(dir, "bad.yaml"), "string:\n  regex_replacements:\n    - pattern: '('\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing actual", []string{filepath.Join(dir, "nope.txt"), golden}, "failed to read actual output"},
		{"missing golden", []string{actual, filepath.Join(dir, "nope.golden")}, "failed to read golden file"},
		{"missing config", []string{actual, golden, "--config", filepath.Join(dir, "nope.yaml")}, "failed to load config"},
		{"bad regex", []string{actual, golden, "--config", badCfg}, "regex_replacements[0]"},
		{"bad style", []string{actual, golden, "--style", "sideways"}, "invalid --style"},
		{"bad decoder", []string{actual, golden, "--decoder", "xml"}, "invalid --decoder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCompareCmd(t, "text", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompareCommandUpdate(t *testing.T) {
	dir := t.TempDir()
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), "fresh output\n")
	golden := filepath.Join(dir, "golden", "out.golden")

	out, err := runCompareCmd(t, "text", actual, golden, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t, "fresh output\n", string(data))

	_, err = runCompareCmd(t, "text", actual, golden)
	require.NoError(t, err)
}

func TestCompareCommandErrorCodes(t *testing.T) {
	dir := t.TempDir()
	actual := writeTestFile(t, filepath.Join(dir, "out.txt"), "x")
	golden := writeTestFile(t, filepath.Join(dir, "out.golden"), "x")
	missing := filepath.Join(dir, "missing.txt")
	badPath := writeTestFile(t, filepath.Join(dir, "bad-path.yaml"), "structured:\n  ignores: ['a[x]']\n")
	badYAML := writeTestFile(t, filepath.Join(dir, "bad-yaml.yaml"), "string: [\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing actual", []string{missing, golden}, ErrCodeRead},
		{"missing golden", []string{actual, missing}, ErrCodeRead},
		{"missing config", []string{actual, golden, "--config", filepath.Join(dir, "nope.yaml")}, ErrCodeRead},
		{"bad config path", []string{actual, golden, "--config", badPath}, ErrCodeConfig},
		{"bad config yaml", []string{actual, golden, "--config", badYAML}, ErrCodeConfig},
		{"unknown decoder", []string{actual, golden, "--decoder", "xml"}, ErrCodeConfig},
		{"unknown style", []string{actual, golden, "--style", "sideways"}, ErrCodeConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCompareCmd(t, "json", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.want, resp.Error.Code, resp.Error.Message)
		})
	}
}
