package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/http/response"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
	"github.com/poojapi/ullekhanam/internal/services"
)

type PageHandler struct {
	log         *logger.Logger
	entities    services.EntityService
	annotations services.AnnotationService
	tree        services.TreeService
	files       services.FileService
}

func NewPageHandler(
	log *logger.Logger,
	entities services.EntityService,
	annotations services.AnnotationService,
	tree services.TreeService,
	files services.FileService,
) *PageHandler {
	return &PageHandler{
		log:         log.With("handler", "PageHandler"),
		entities:    entities,
		annotations: annotations,
		tree:        tree,
		files:       files,
	}
}

// GET /api/v1/pages/:id/annotations?force_if_not_system_inferred=0|1
//
// Returns one tree per image annotation on the page, running region
// detection first if the page has never been annotated.
func (h *PageHandler) GetAnnotations(c *gin.Context) {
	pageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	force := false
	if v, err := strconv.Atoi(c.DefaultQuery("force_if_not_system_inferred", "0")); err == nil && v != 0 {
		force = true
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	page, err := h.entities.FetchByID(dbc, pageID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	pageImage, err := h.readContentImage(c, page)
	if err != nil {
		h.log.Warn("page content image unavailable, detecting on empty input", "page_id", pageID, "error", err)
	}

	annotations, err := h.annotations.EnsureAnnotations(dbc, page, pageImage, force)
	if err != nil {
		respondAppError(c, err)
		return
	}

	nodes := make([]*domain.TreeNode, 0, len(annotations))
	for _, a := range annotations {
		node, err := h.tree.Build(dbc, a, services.DefaultAnnotationDepth, "")
		if err != nil {
			respondAppError(c, err)
			return
		}
		nodes = append(nodes, node)
	}
	response.RespondOK(c, nodes)
}

func (h *PageHandler) readContentImage(c *gin.Context, page *domain.Entity) ([]byte, error) {
	rc, _, err := h.files.Open(c.Request.Context(), page, services.ContentFileName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
