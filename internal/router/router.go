package router

import (
	"github.com/gin-gonic/gin"

	"scanform/internal/handler"
	"scanform/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	sessionH *handler.SessionHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.Get)
	sessions.POST("/:id/document", sessionH.UploadDocument)
	sessions.POST("/:id/extract", sessionH.Extract)
	sessions.PUT("/:id/fields/:field", sessionH.EditField)
	sessions.POST("/:id/verify", sessionH.Verify)
	sessions.POST("/:id/reset", sessionH.Reset)
	sessions.GET("/:id/export", sessionH.ExportCSV)

	return r
}
