package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/figurevault/figurevault/internal/coordinator"
	"github.com/figurevault/figurevault/internal/uploadsdk"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(contents))
	for i, c := range contents {
		paths[i] = filepath.Join(dir, fmt.Sprintf("img%d.jpg", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(c), 0o644))
	}
	return paths
}

// batchServer answers every file except those whose content is "bad".
func batchServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		resp := uploadsdk.BatchResponse{Success: true}
		for key, headers := range r.MultipartForm.File {
			fd, _ := headers[0].Open()
			buf := new(bytes.Buffer)
			buf.ReadFrom(fd)
			fd.Close()

			resp.Summary.Total++
			if buf.String() == "bad" {
				resp.Success = false
				resp.Summary.Failed++
				resp.Results = append(resp.Results, &uploadsdk.Result{Key: key, Error: "storage down"})
				continue
			}
			resp.Summary.Succeeded++
			resp.Results = append(resp.Results, &uploadsdk.Result{Key: key, Success: true, URL: "https://cdn.test/" + key + ".jpg"})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runUpload(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "figurevault-client"}
	root.AddCommand(newUploadCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"upload"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestReadItems(t *testing.T) {
	paths := writeFiles(t, "\x89PNG\r\n\x1a\n", "hello")
	items, err := readItems(paths)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "file-0", items[0].Key)
	assert.Equal(t, "img0.jpg", items[0].Name)
	assert.Equal(t, "image/png", items[0].ContentType)
	assert.Equal(t, "file-1", items[1].Key)

	_, err = readItems([]string{filepath.Join(t.TempDir(), "missing.jpg")})
	assert.Error(t, err)
}

func TestUploadCommand_AllDone(t *testing.T) {
	srv := batchServer(t)
	paths := writeFiles(t, "a", "b")

	out, err := runUpload(t, append([]string{"--server", srv.URL, "--bucket", "figure-images"}, paths...)...)
	require.NoError(t, err, out)

	out = stripANSI(out)
	assert.Contains(t, out, "file-0")
	assert.Contains(t, out, "https://cdn.test/file-1.jpg")
	assert.Contains(t, out, "2 uploaded, 0 failed")
}

func TestUploadCommand_PartialFailure(t *testing.T) {
	srv := batchServer(t)
	paths := writeFiles(t, "a", "bad")

	out, err := runUpload(t, append([]string{"--server", srv.URL, "--bucket", "figure-images"}, paths...)...)
	assert.ErrorIs(t, err, errUploadsFailed)

	out = stripANSI(out)
	assert.Contains(t, out, "storage down")
	assert.Contains(t, out, "1 uploaded, 1 failed")
}

func TestUploadCommand_BucketFromEnv(t *testing.T) {
	srv := batchServer(t)
	t.Setenv("FIGUREVAULT_BUCKET", "figure-images")

	_, err := runUpload(t, append([]string{"--server", srv.URL}, writeFiles(t, "a")...)...)
	assert.NoError(t, err)
}

func TestUploadCommand_MissingBucket(t *testing.T) {
	out, code := runCLI(t, "upload", "--server", "http://127.0.0.1:1", "nothing.jpg")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "bucket is required")
}

func TestRenderTable(t *testing.T) {
	out := stripANSI(renderTable([]resultRow{
		{Key: "file-0", File: "a.jpg", Status: coordinator.StatusDone, Detail: "https://x/a.jpg"},
		{Key: "file-1", File: "b.jpg", Status: coordinator.StatusFailed, Detail: "boom"},
	}))

	assert.Contains(t, out, "KEY")
	assert.Equal(t, 1, strings.Count(out, "file-1"))
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "boom")
}
