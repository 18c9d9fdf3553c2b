package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/figurevault/figurevault/internal/server/handlers/api"
	"github.com/figurevault/figurevault/internal/server/handlers/upload"
	"github.com/figurevault/figurevault/internal/server/middlewares"
	"github.com/figurevault/figurevault/internal/version"
)

func SetupRoutes(cfg *Config, svc *Services) (http.Handler, error) {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxMultipartMemory

	uploadH := upload.New(svc.Upload, cfg.Upload.MaxMultipartMemory)

	r.Use(middlewares.Logger())
	r.Use(gin.Recovery())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS(cfg.HTTP.AllowOrigins))
	if cfg.HTTP.TLSEnabled() {
		r.Use(middlewares.HSTS())
	}

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	batch := r.Group("/api/upload-batch")
	batch.Use(uploadH.Recovery())
	if cfg.HTTP.RateLimit != "" {
		limit, err := middlewares.RateLimiter(cfg.HTTP.RateLimit)
		if err != nil {
			return nil, err
		}
		batch.Use(limit)
	}
	{
		batch.POST("", uploadH.UploadBatch)
		batch.POST("/signed-upload-url", uploadH.SignedUploadURLs)
	}

	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.PureJSON(http.StatusNotFound, api.APIError{
			Code:    api.CodeNotFound,
			Message: "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.PureJSON(http.StatusMethodNotAllowed, api.APIError{
			Code:    api.CodeNotAllowed,
			Message: "method not allowed",
		})
	})

	return r.Handler(), nil
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.Detailed())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
