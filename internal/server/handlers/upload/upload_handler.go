package upload

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/figurevault/figurevault/internal/server/handlers/api"
	"github.com/figurevault/figurevault/internal/server/upload"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	svc       *upload.UploadService
	maxMemory int64
}

func New(svc *upload.UploadService, maxMemory int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxMemory: maxMemory}
}

// Recovery turns a panic inside a batch handler into the batch failure envelope.
func (h *UploadHandler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		slog.Error("batch handler panic", "path", ctx.Request.URL.Path, "panic", recovered)
		api.AbortWithBatchFailure(ctx, fmt.Errorf("panic: %v", recovered))
	})
}

// abortBatchError maps service errors onto the status policy: request-shape
// problems are 400, anything else is a 500 batch failure.
func abortBatchError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrMissingBucket):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeUploadMissingBucket, err)
	case errors.Is(err, upload.ErrNoFiles):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeUploadNoFiles, err)
	case errors.Is(err, upload.ErrDuplicateKey):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeUploadDuplicateKey, err)
	case errors.Is(err, upload.ErrEmptyKey):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
	default:
		slog.Error("batch upload failed", "path", ctx.Request.URL.Path, "error", err)
		api.AbortWithBatchFailure(ctx, err)
	}
}
