package middlewares

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

var (
	excludedPaths = []string{
		"/healthz",
	}
	// already compressed, gzip only burns cpu on these
	excludedExtensions = []string{
		".png", ".gif", ".jpeg", ".jpg", ".webp", ".avif", ".heic", ".ico",
		".zip", ".gz",
	}
)

func GZIP() gin.HandlerFunc {
	return gzip.Gzip(
		gzip.BestSpeed,
		gzip.WithExcludedPaths(excludedPaths),
		gzip.WithExcludedExtensions(excludedExtensions),
	)
}
