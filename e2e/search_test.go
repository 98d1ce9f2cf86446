//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+t.TempDir(),
		"XDG_CONFIG_HOME="+t.TempDir(),
		"COSINNUS_SERVER_BASE_URL="+baseURL,
		"COSINNUS_LOG_FILE=",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestSearchCommand(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "search", "repair")
	require.NoError(t, err, out)
	require.Contains(t, out, "Repair Café Kreuzberg")
	require.Contains(t, out, "Repair Marathon")
}

func TestSearchCommandFilterGroup(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "search", "--filter-group", "hamburg", "climate")
	require.NoError(t, err, out)
	require.Contains(t, out, "Climate Camp")
	require.NotContains(t, out, "Berlin Climate Strike")
}

func TestQuicksearchCommand(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "search", "--quick", "garden")
	require.NoError(t, err, out)
	require.Contains(t, out, "results")
}

func TestSearchCommandUnreachable(t *testing.T) {
	t.Parallel()

	cmd := exec.Command(binPath, "search", "--base-url", "http://127.0.0.1:1", "berlin")
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "XDG_CONFIG_HOME="+t.TempDir())
	out, err := cmd.CombinedOutput()
	require.Error(t, err)
	require.Contains(t, string(out), "search request")
}
