package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/figurevault/figurevault/internal/server/handlers/api"
	"github.com/figurevault/figurevault/internal/server/upload"
	"github.com/figurevault/figurevault/internal/utils"
	"github.com/gin-gonic/gin"
)

// UploadBatch accepts a multipart form with a `bucket` field and one `file-*`
// field per file. The field name is the file's key.
func (h *UploadHandler) UploadBatch(ctx *gin.Context) {
	if err := ctx.Request.ParseMultipartForm(h.maxMemory); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid multipart body: %w", err))
		return
	}
	form := ctx.Request.MultipartForm
	defer form.RemoveAll()

	var bucket string
	if v := form.Value[FieldBucket]; len(v) > 0 {
		bucket = strings.TrimSpace(v[0])
	}

	var headers []*multipart.FileHeader
	var keys []string
	fileKeys := make([]string, 0, len(form.File))
	for k := range form.File {
		fileKeys = append(fileKeys, k)
	}
	slices.Sort(fileKeys)
	for _, key := range fileKeys {
		if !strings.HasPrefix(key, FileKeyPrefix) {
			continue
		}
		for _, fh := range form.File[key] {
			keys = append(keys, key)
			headers = append(headers, fh)
		}
	}

	// shape errors win over i/o so a bad request never opens any file
	if bucket == "" {
		abortBatchError(ctx, upload.ErrMissingBucket)
		return
	} else if len(headers) == 0 {
		abortBatchError(ctx, upload.ErrNoFiles)
		return
	}

	items := make([]*upload.Item, 0, len(headers))
	for i, fh := range headers {
		item, closer, err := openItem(keys[i], fh)
		if err != nil {
			abortBatchError(ctx, err)
			return
		}
		defer closer.Close()
		items = append(items, item)
	}

	resp, err := h.svc.UploadBatch(ctx.Request.Context(), bucket, items)
	if err != nil {
		abortBatchError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusOK, resp)
}

func openItem(key string, fh *multipart.FileHeader) (*upload.Item, io.Closer, error) {
	fd, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", key, err)
	}

	head := make([]byte, sniffReadLimit)
	n, err := io.ReadFull(fd, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		fd.Close()
		return nil, nil, fmt.Errorf("read %s: %w", key, err)
	}
	if _, err := fd.Seek(0, io.SeekStart); err != nil {
		fd.Close()
		return nil, nil, fmt.Errorf("rewind %s: %w", key, err)
	}

	return &upload.Item{
		Key:         key,
		FileName:    fh.Filename,
		ContentType: utils.DetectContentType(fh.Header.Get("Content-Type"), head[:n]),
		Size:        fh.Size,
		Body:        fd,
	}, fd, nil
}
