package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reliability/config"
	"reliability/debug"
	"reliability/types"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	args = append(args, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "--log-level", "error")
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSolveTable(t *testing.T) {
	out, err := run(t, "solve", "--set", "points=5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	require.Contains(t, lines[0], "P6")
	require.Contains(t, lines[0], debug.OperationalName)
	require.Contains(t, lines[1], "1.000000")
}

func TestSolveJSON(t *testing.T) {
	out, err := run(t, "solve", "-m", "recoverable", "-s", "points=10", "-s", "end=100", "-f", "json")
	require.NoError(t, err)
	var rec debug.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Equal(t, "Recoverable", rec.Model)
	require.Len(t, rec.Time, 10)
	require.Len(t, rec.States, 30)
}

func TestSolveErrors(t *testing.T) {
	_, err := run(t, "solve", "--set", "lambda1=abc")
	require.ErrorIs(t, err, config.ErrNotNumber)

	_, err = run(t, "solve", "--set", "lambda1")
	require.Error(t, err)

	_, err = run(t, "solve", "--strict", "--set", "lambda1=-1")
	require.Error(t, err)

	_, err = run(t, "solve", "-f", "xml")
	require.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = run(t, "solve", "--log-format", "xml")
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestServeRejectsListenAddress(t *testing.T) {
	_, err := run(t, "serve", "--listen", "no-port")
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version: dev")
}
