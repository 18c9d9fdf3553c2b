package utils

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeeHandler(t *testing.T) {
	var info, debug bytes.Buffer
	logger := slog.New(NewTeeHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)).WithGroup("http").With("bucket", "figure-images")

	logger.Debug("only debug")
	logger.Info("both")

	assert.NotContains(t, info.String(), "only debug")
	assert.Contains(t, info.String(), "http.bucket=figure-images")
	assert.Equal(t, 2, strings.Count(debug.String(), "\n"))
}

func TestOpenLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	f, err := OpenLogFile(dir, "server", now)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, filepath.Join(dir, "server-20260304-050607.log"), f.Name())
	_, err = os.Stat(f.Name())
	assert.NoError(t, err)
}

func TestResolvePath(t *testing.T) {
	_, err := ResolvePath("")
	assert.Error(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err := ResolvePath("~/.figurevault/logs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".figurevault", "logs"), got)

	got, err = ResolvePath("./relative")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
