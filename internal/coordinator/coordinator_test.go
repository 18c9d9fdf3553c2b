package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/figurevault/figurevault/internal/uploadsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu sync.Mutex

	// observed progress of every key at the moment of the network call
	seenAtCall map[string]Status
	progress   *Progress

	batchResp *uploadsdk.BatchResponse
	batchErr  error

	signResp *uploadsdk.SignedURLBatchResponse
	signErr  error
	putFail  map[string]bool
	puts     []string
}

func (f *fakeUploader) UploadBatch(_ context.Context, _ string, files []*uploadsdk.File) (*uploadsdk.BatchResponse, error) {
	f.seenAtCall = f.progress.Snapshot()
	return f.batchResp, f.batchErr
}

func (f *fakeUploader) SignedUploadURLs(_ context.Context, _ string, files []*uploadsdk.SignedURLRequest) (*uploadsdk.SignedURLBatchResponse, error) {
	return f.signResp, f.signErr
}

func (f *fakeUploader) PutSigned(_ context.Context, signedURL string, file *uploadsdk.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, file.Key)
	if f.putFail[file.Key] {
		return errors.New("403 Forbidden")
	}
	return nil
}

func testItems(n int) []*Item {
	items := make([]*Item, n)
	for i := range items {
		items[i] = &Item{Key: fmt.Sprintf("file-%d", i), Name: fmt.Sprintf("%d.jpg", i), ContentType: "image/jpeg", Data: []byte("x")}
	}
	return items
}

func TestProgress(t *testing.T) {
	var changes []string
	p := NewProgress(func(key string, s Status) { changes = append(changes, key+":"+string(s)) })

	p.Set("a", StatusPending)
	p.Set("a", StatusDone)
	p.Set("b", StatusFailed)

	s, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, StatusDone, s)
	_, ok = p.Get("zzz")
	assert.False(t, ok)

	snap := p.Snapshot()
	snap["a"] = StatusFailed
	s, _ = p.Get("a")
	assert.Equal(t, StatusDone, s, "snapshot must be a copy")

	assert.Equal(t, map[Status]int{StatusDone: 1, StatusFailed: 1}, p.Counts())
	assert.Equal(t, []string{"a:pending", "a:done", "b:failed"}, changes)

	p.Reset()
	assert.Empty(t, p.Snapshot())

	var nilProgress *Progress
	nilProgress.Set("a", StatusDone)
	assert.Empty(t, nilProgress.Snapshot())
}

func TestProgress_Concurrent(t *testing.T) {
	p := NewProgress(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Set(fmt.Sprintf("k%d", i), StatusUploading)
			_ = p.Counts()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, p.Counts()[StatusUploading])
}

func TestUpload_MarksEveryKey(t *testing.T) {
	progress := NewProgress(nil)
	f := &fakeUploader{
		progress: progress,
		batchResp: &uploadsdk.BatchResponse{
			Results: []*uploadsdk.Result{
				{Key: "file-0", Success: true, URL: "https://x/0.jpg"},
				{Key: "file-1", Success: false, Error: "storage down"},
				// file-2 missing from the response
			},
			Summary: uploadsdk.Summary{Total: 3, Succeeded: 1, Failed: 2},
		},
	}

	resp, err := New(f, 0).Upload(context.Background(), "figure-images", testItems(3), progress)
	require.NoError(t, err)
	require.NotNil(t, resp)

	for _, key := range []string{"file-0", "file-1", "file-2"} {
		assert.Equal(t, StatusUploading, f.seenAtCall[key], key)
	}
	assert.Equal(t, map[string]Status{
		"file-0": StatusDone,
		"file-1": StatusFailed,
		"file-2": StatusFailed,
	}, progress.Snapshot())
}

func TestUpload_TransportErrorFailsAll(t *testing.T) {
	progress := NewProgress(nil)
	f := &fakeUploader{progress: progress, batchErr: errors.New("connection refused")}

	resp, err := New(f, 0).Upload(context.Background(), "figure-images", testItems(4), progress)
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 4, progress.Counts()[StatusFailed])
}

func TestUpload_NilProgress(t *testing.T) {
	f := &fakeUploader{batchResp: &uploadsdk.BatchResponse{Success: true}}
	_, err := New(f, 0).Upload(context.Background(), "figure-images", testItems(1), nil)
	assert.NoError(t, err)
}

func TestUploadDirect(t *testing.T) {
	progress := NewProgress(nil)
	f := &fakeUploader{
		progress: progress,
		signResp: &uploadsdk.SignedURLBatchResponse{
			SignedURLs: []*uploadsdk.SignedURLResult{
				{Key: "file-0", Success: true, SignedURL: "https://s3/b/1_aaaaaa.jpg?X-Amz-Signature=s", Path: "1_aaaaaa.jpg"},
				{Key: "file-1", Success: false, Error: "rate limited"},
				{Key: "file-2", Success: true, SignedURL: "https://s3/b/1_bbbbbb.jpg?X-Amz-Signature=s", Path: "1_bbbbbb.jpg"},
				{Key: "file-3", Success: true, SignedURL: "https://s3/b/1_cccccc.jpg?X-Amz-Signature=s", Path: "1_cccccc.jpg"},
			},
		},
		putFail: map[string]bool{"file-3": true},
	}

	resp, err := New(f, 2).UploadDirect(context.Background(), "figure-images", testItems(5), progress)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, uploadsdk.Summary{Total: 5, Succeeded: 2, Failed: 3}, resp.Summary)
	assert.Equal(t, "https://s3/b/1_aaaaaa.jpg", resp.Lookup("file-0").URL)
	assert.Equal(t, "rate limited", resp.Lookup("file-1").Error)
	assert.Equal(t, "403 Forbidden", resp.Lookup("file-3").Error)
	assert.Equal(t, "no result for key", resp.Lookup("file-4").Error)
	assert.ElementsMatch(t, []string{"file-0", "file-2", "file-3"}, f.puts)

	assert.Equal(t, map[string]Status{
		"file-0": StatusDone,
		"file-1": StatusFailed,
		"file-2": StatusDone,
		"file-3": StatusFailed,
		"file-4": StatusFailed,
	}, progress.Snapshot())
}

func TestUploadDirect_SignError(t *testing.T) {
	progress := NewProgress(nil)
	f := &fakeUploader{progress: progress, signErr: errors.New("400")}

	_, err := New(f, 0).UploadDirect(context.Background(), "figure-images", testItems(2), progress)
	assert.Error(t, err)
	assert.Equal(t, 2, progress.Counts()[StatusFailed])
	assert.Empty(t, f.puts)
}
