package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func AbortWithError(ctx *gin.Context, status int, code string, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, APIError{
		Code:    code,
		Message: err.Error(),
	})
}

// AbortWithBatchFailure ends a batch request with a 500 and the details of err.
func AbortWithBatchFailure(ctx *gin.Context, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(http.StatusInternalServerError, BatchFailure{
		Error:   BatchFailedMessage,
		Details: err.Error(),
	})
}
