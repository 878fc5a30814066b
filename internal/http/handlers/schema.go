package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/http/response"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

type SchemaHandler struct {
	log *logger.Logger
}

func NewSchemaHandler(log *logger.Logger) *SchemaHandler {
	return &SchemaHandler{log: log.With("handler", "SchemaHandler")}
}

// GET /api/v1/schemas
func (h *SchemaHandler) List(c *gin.Context) {
	response.RespondOK(c, domain.Schemas())
}
