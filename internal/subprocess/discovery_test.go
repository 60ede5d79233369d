package subprocess

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatpipe/chatpipe-go/internal/errors"
)

// TestDiscover_ExplicitPathMissing tests that a bad explicit path returns
// ToolNotFoundError and searches nothing else.
func TestDiscover_ExplicitPathMissing(t *testing.T) {
	_, err := Discover(slog.Default(), "/nonexistent/path/to/tool", "tool")

	var nfErr *errors.ToolNotFoundError
	require.True(t, stderrors.As(err, &nfErr))
	require.Equal(t, []string{"/nonexistent/path/to/tool"}, nfErr.SearchedPaths)
}

// TestDiscover_ExplicitPath tests discovery with an explicit path.
func TestDiscover_ExplicitPath(t *testing.T) {
	fakeTool := filepath.Join(t.TempDir(), "tool")

	err := os.WriteFile(fakeTool, []byte("#!/bin/sh\n"), 0o755)
	require.NoError(t, err)

	path, err := Discover(slog.Default(), fakeTool, "ignored")
	require.NoError(t, err)
	require.Equal(t, fakeTool, path)
}

// TestDiscover_PATHSearch tests finding the binary by name via PATH.
func TestDiscover_PATHSearch(t *testing.T) {
	dir := t.TempDir()
	fakeTool := filepath.Join(dir, "chatpipe-test-tool")

	err := os.WriteFile(fakeTool, []byte("#!/bin/sh\n"), 0o755)
	require.NoError(t, err)

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	path, err := Discover(slog.Default(), "", "chatpipe-test-tool")
	require.NoError(t, err)
	require.Equal(t, fakeTool, path)
}

// TestDiscover_NotAnywhere tests the searched-path listing when the binary
// does not exist at all.
func TestDiscover_NotAnywhere(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Discover(slog.Default(), "", "chatpipe-definitely-missing")

	var nfErr *errors.ToolNotFoundError
	require.True(t, stderrors.As(err, &nfErr))
	require.Contains(t, nfErr.SearchedPaths, "$PATH")
}
