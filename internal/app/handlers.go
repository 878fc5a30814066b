package app

import (
	"github.com/poojapi/ullekhanam/internal/http/handlers"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

type Handlers struct {
	Book   *handlers.BookHandler
	Page   *handlers.PageHandler
	Entity *handlers.EntityHandler
	File   *handlers.FileHandler
	Schema *handlers.SchemaHandler
	Health *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Book:   handlers.NewBookHandler(log, services.Book, int64(cfg.UploadMaxMB)<<20),
		Page:   handlers.NewPageHandler(log, services.Entity, services.Annotation, services.Tree, services.File),
		Entity: handlers.NewEntityHandler(log, services.Entity, services.Tree),
		File:   handlers.NewFileHandler(log, services.Entity, services.File),
		Schema: handlers.NewSchemaHandler(log),
		Health: handlers.NewHealthHandler(),
	}
}
