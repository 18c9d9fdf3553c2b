package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveManifest(t *testing.T, dir string, figures []manifestFigure) string {
	t.Helper()
	raw, err := json.Marshal(figures)
	require.NoError(t, err)
	path := filepath.Join(dir, "figures.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func runFigures(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := &cobra.Command{Use: "figurevault-client"}
	root.AddCommand(newFiguresCmd())

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"figures"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFiguresCommand_MergesURLs(t *testing.T) {
	srv := batchServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "front.jpg"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "back.jpg"), []byte("b"), 0o644))

	manifest := saveManifest(t, dir, []manifestFigure{
		{Name: "Knight", Images: []string{"https://old.test/k.jpg", "front.jpg"}},
		{Name: "Rook", Images: []string{"back.jpg"}},
	})

	stdout, stderr, err := runFigures(t, "--server", srv.URL, "--bucket", "figure-images", manifest)
	require.NoError(t, err, stderr)

	var merged []manifestFigure
	require.NoError(t, json.Unmarshal([]byte(stdout), &merged))
	require.Len(t, merged, 2)
	assert.Equal(t, []string{"https://old.test/k.jpg", "https://cdn.test/file-0-1.jpg"}, merged[0].Images)
	assert.Equal(t, []string{"https://cdn.test/file-1-0.jpg"}, merged[1].Images)
}

func TestFiguresCommand_KeepsFailedPaths(t *testing.T) {
	srv := batchServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.jpg"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("bad"), 0o644))

	manifest := saveManifest(t, dir, []manifestFigure{
		{Name: "Bishop", Images: []string{"ok.jpg", "broken.jpg"}},
	})
	out := filepath.Join(dir, "merged.json")

	_, stderr, err := runFigures(t, "--server", srv.URL, "--bucket", "figure-images", "--out", out, manifest)
	assert.ErrorIs(t, err, errUploadsFailed)
	assert.Contains(t, stripANSI(stderr), "1 images still local")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var merged []manifestFigure
	require.NoError(t, json.Unmarshal(raw, &merged))
	assert.Equal(t, []string{"https://cdn.test/file-0-0.jpg", "broken.jpg"}, merged[0].Images)
}

func TestFiguresCommand_NothingPending(t *testing.T) {
	dir := t.TempDir()
	manifest := saveManifest(t, dir, []manifestFigure{
		{Name: "Pawn", Images: []string{"https://old.test/p.jpg"}},
	})

	// no server is contacted when every image is already a URL
	stdout, _, err := runFigures(t, "--server", "http://127.0.0.1:1", "--bucket", "figure-images", manifest)
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://old.test/p.jpg")
}

func TestReadManifest_MissingImage(t *testing.T) {
	dir := t.TempDir()
	manifest := saveManifest(t, dir, []manifestFigure{
		{Name: "Queen", Images: []string{"gone.jpg"}},
	})

	_, err := readManifest(manifest)
	assert.ErrorContains(t, err, "Queen")
}
