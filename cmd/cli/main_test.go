package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ResolvesModule(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tempDir, "vals.hcl"), []byte("answer = 42\n"), 0o644)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, logs, []string{"-entry-dir", tempDir, "vals"})

	// --- Assert ---
	require.NoError(t, runErr)
	require.Equal(t, "answer = 42\n", out.String())
}

func TestRun_MissingModuleReturnsError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	runErr := run(out, logs, []string{"-entry-dir", t.TempDir(), "nowhere"})
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "not found in search path")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"-h"})
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}
