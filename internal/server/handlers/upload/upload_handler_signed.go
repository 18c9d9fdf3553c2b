package upload

import (
	"fmt"
	"net/http"

	"github.com/figurevault/figurevault/internal/server/handlers/api"
	"github.com/gin-gonic/gin"
)

// SignedUploadURLs mints one signed upload URL per requested file so the
// client can PUT straight to storage.
func (h *UploadHandler) SignedUploadURLs(ctx *gin.Context) {
	var req SignedUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	for i, f := range req.Files {
		if f == nil {
			api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("files[%d] is null", i))
			return
		}
	}

	resp, err := h.svc.SignBatch(ctx.Request.Context(), req.Bucket, req.Files)
	if err != nil {
		abortBatchError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusOK, resp)
}
