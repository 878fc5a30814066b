package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/poojapi/ullekhanam/internal/http/handlers"
	httpMW "github.com/poojapi/ullekhanam/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware

	BookHandler   *httpH.BookHandler
	PageHandler   *httpH.PageHandler
	EntityHandler *httpH.EntityHandler
	FileHandler   *httpH.FileHandler
	SchemaHandler *httpH.SchemaHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Reads (public)
		if cfg.BookHandler != nil {
			api.GET("/books", cfg.BookHandler.List)
		}
		if cfg.PageHandler != nil {
			api.GET("/pages/:id/annotations", cfg.PageHandler.GetAnnotations)
		}
		if cfg.EntityHandler != nil {
			api.GET("/entities", cfg.EntityHandler.List)
			api.GET("/entities/:id", cfg.EntityHandler.Get)
			api.GET("/entities/:id/targetters", cfg.EntityHandler.GetTargetters)
		}
		if cfg.FileHandler != nil {
			api.GET("/entities/:id/files", cfg.FileHandler.List)
			api.GET("/entities/:id/files/:name", cfg.FileHandler.Get)
		}
		if cfg.SchemaHandler != nil {
			api.GET("/schemas", cfg.SchemaHandler.List)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Writes
		if cfg.BookHandler != nil {
			protected.POST("/books", cfg.BookHandler.Upload)
		}
		if cfg.EntityHandler != nil {
			protected.POST("/entities", cfg.EntityHandler.Post)
			protected.DELETE("/entities", cfg.EntityHandler.Delete)
		}
	}

	return r
}
