package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/server"
)

const (
	xJSON      = `{"type":"sym","name":"x"}`
	xPlus1Sq   = `{"type":"pow","base":{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"num","value":"1"}]},"exp":{"type":"num","value":"2"}}`
	xCubedJSON = `{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","value":"3"}}`
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel, jsonOutput = "", "", false
	diffVar, diffOrder, subsSet, serveAddr = "x", 1, nil, ""

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExpandCommand(t *testing.T) {
	out, err := run(t, "", "expand", xPlus1Sq, xJSON)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 + 2*x + x**2", lines[0])
	assert.Equal(t, "x", lines[1])
}

func TestExpandCommand_Stdin(t *testing.T) {
	out, err := run(t, xPlus1Sq, "expand", "-")
	require.NoError(t, err)
	assert.Equal(t, "1 + 2*x + x**2\n", out)
}

// TestExpandCommand_JSON verifies --json output decodes back.
func TestExpandCommand_JSON(t *testing.T) {
	out, err := run(t, "", "--json", "expand", xJSON)
	require.NoError(t, err)
	assert.JSONEq(t, xJSON, strings.TrimSpace(out))
}

func TestExpandCommand_BadInput(t *testing.T) {
	_, err := run(t, "", "expand", `{"type":"nope"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1")
}

func TestExpandCommand_InexactComplexMix(t *testing.T) {
	in := `{"type":"add","terms":[{"type":"real","value":0.5},{"type":"complex","re":"1","im":"1"}]}`
	var err error
	require.NotPanics(t, func() { _, err = run(t, "", "expand", in) })
	require.Error(t, err)
	assert.ErrorIs(t, err, sym.ErrNotImplemented)
}

func TestExpandCommand_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_exponent: 1\n"), 0o600))
	_, err := run(t, "", "--config", path, "expand", xPlus1Sq)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit exceeded")
}

func TestDiffCommand(t *testing.T) {
	out, err := run(t, "", "diff", "--var", "x", xCubedJSON)
	require.NoError(t, err)
	assert.Equal(t, "3*x**2\n", out)

	out, err = run(t, "", "diff", "-n", "3", xCubedJSON)
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)

	_, err = run(t, "", "diff", "-n", "-1", xCubedJSON)
	assert.Error(t, err)
}

func TestSubsCommand(t *testing.T) {
	out, err := run(t, "", "subs", "--set", `x={"type":"num","value":"2"}`, xCubedJSON)
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)

	_, err = run(t, "", "subs", "--set", "x", xCubedJSON)
	assert.Error(t, err)
}

func TestEvalCommand(t *testing.T) {
	out, err := run(t, "", "eval", `{"type":"num","value":"3/4"}`)
	require.NoError(t, err)
	assert.Equal(t, "0.75\n", out)

	_, err = run(t, "", "eval", xJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, sym.ErrNotImplemented)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "gosymcore "+server.Version+"\n", out)
}

func TestLogLevelOverride(t *testing.T) {
	_, err := run(t, "", "--log-level", "chatty", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestParseAssignment(t *testing.T) {
	name, value, err := parseAssignment(`y={"type":"num","value":"-1"}`)
	require.NoError(t, err)
	assert.Equal(t, "y", name.Name())
	assert.True(t, sym.Eq(sym.MinusOne, value))

	_, _, err = parseAssignment(`={"type":"num","value":"1"}`)
	assert.Error(t, err)
	_, _, err = parseAssignment(`y={`)
	assert.Error(t, err)
}
