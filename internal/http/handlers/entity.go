package handlers

import (
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

type EntityHandler struct {
	log      *logger.Logger
	entities services.EntityService
	tree     services.TreeService
}

func NewEntityHandler(log *logger.Logger, entities services.EntityService, tree services.TreeService) *EntityHandler {
	return &EntityHandler{
		log:      log.With("handler", "EntityHandler"),
		entities: entities,
		tree:     tree,
	}
}

// GET /api/v1/entities/:id?depth=1
func (h *EntityHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	depth := queryInt(c, "depth", services.DefaultEntityDepth)
	if depth < 0 {
		depth = 0
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	entity, err := h.entities.FetchByID(dbc, id)
	if err != nil {
		respondAppError(c, err)
		return
	}
	node, err := h.tree.Build(dbc, entity, depth, "")
	if err != nil {
		respondAppError(c, err)
		return
	}
	response.RespondOK(c, node)
}

// GET /api/v1/entities/:id/targetters?depth=10&targetter_class=BookPortion
func (h *EntityHandler) GetTargetters(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	depth := queryInt(c, "depth", services.DefaultTargetterDepth)
	if depth < 1 {
		depth = 1
	}
	typeFilter := c.Query("targetter_class")

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	targetters, err := h.entities.FindTargetters(dbc, id, typeFilter)
	if err != nil {
		respondAppError(c, err)
		return
	}
	nodes := make([]*domain.TreeNode, 0, len(targetters))
	for _, t := range targetters {
		node, err := h.tree.Build(dbc, t, depth-1, typeFilter)
		if err != nil {
			respondAppError(c, err)
			return
		}
		nodes = append(nodes, node)
	}
	response.RespondOK(c, nodes)
}

// GET /api/v1/entities
//
// Filtered entity listing is not implemented.
func (h *EntityHandler) List(c *gin.Context) {
	response.RespondError(c, http.StatusNotImplemented, "not_implemented", nil)
}

// POST /api/v1/entities
//
// Upserts a list of entity trees. A DAG cannot be written in one call;
// parents must come as containers of their children.
func (h *EntityHandler) Post(c *gin.Context) {
	actor := actorFrom(c)
	if actor == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var nodes []*domain.TreeNode
	if err := c.ShouldBindJSON(&nodes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	for _, node := range nodes {
		if _, err := h.entities.UpsertTree(dbc, node, actor); err != nil {
			respondAppError(c, err)
			return
		}
	}
	response.RespondOK(c, nodes)
}

// DELETE /api/v1/entities
//
// Deletes the given entity trees, descendants first. Unknown ids are
// no-ops.
func (h *EntityHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)
	if actor == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var nodes []*domain.TreeNode
	if err := c.ShouldBindJSON(&nodes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	for _, node := range nodes {
		if node == nil || node.Content == nil || !node.Content.Persisted() {
			continue
		}
		if err := h.entities.DeleteTree(dbc, node.Content.ID, actor); err != nil {
			respondAppError(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{})
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return defaultVal
	}
	return v
}
