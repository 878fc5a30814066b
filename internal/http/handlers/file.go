package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/http/response"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
	"github.com/poojapi/ullekhanam/internal/services"
)

type FileHandler struct {
	log      *logger.Logger
	entities services.EntityService
	files    services.FileService
}

func NewFileHandler(log *logger.Logger, entities services.EntityService, files services.FileService) *FileHandler {
	return &FileHandler{
		log:      log.With("handler", "FileHandler"),
		entities: entities,
		files:    files,
	}
}

// GET /api/v1/entities/:id/files?pattern=*
func (h *FileHandler) List(c *gin.Context) {
	entity, ok := h.resolveEntity(c)
	if !ok {
		return
	}
	pattern := c.DefaultQuery("pattern", "*")
	names, err := h.files.List(c.Request.Context(), entity, pattern)
	if err != nil {
		respondAppError(c, err)
		return
	}
	response.RespondOK(c, names)
}

// GET /api/v1/entities/:id/files/:name
func (h *FileHandler) Get(c *gin.Context) {
	entity, ok := h.resolveEntity(c)
	if !ok {
		return
	}
	rc, contentType, err := h.files.Open(c.Request.Context(), entity, c.Param("name"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "file_not_found", err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("file stream interrupted", "error", err)
	}
}

func (h *FileHandler) resolveEntity(c *gin.Context) (*domain.Entity, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return nil, false
	}
	entity, err := h.entities.FetchByID(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		respondAppError(c, err)
		return nil, false
	}
	return entity, true
}
