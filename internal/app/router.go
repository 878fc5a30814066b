package app

import (
	"github.com/gin-gonic/gin"

	apihttp "github.com/poojapi/ullekhanam/internal/http"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return apihttp.NewRouter(apihttp.RouterConfig{
		AuthMiddleware: middleware.Auth,
		BookHandler:    handlers.Book,
		PageHandler:    handlers.Page,
		EntityHandler:  handlers.Entity,
		FileHandler:    handlers.File,
		SchemaHandler:  handlers.Schema,
		HealthHandler:  handlers.Health,
	})
}
