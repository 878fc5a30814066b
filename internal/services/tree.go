package services

import (
	"github.com/poojapi/ullekhanam/internal/data/repos/entities"
	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// Default recursion depths. Direct entity lookups show immediate
// children; annotation listings walk effectively unbounded since
// annotation nesting is shallow in practice.
const (
	DefaultEntityDepth     = 1
	DefaultTargetterDepth  = 10
	DefaultAnnotationDepth = 10
)

// TreeService materializes an entity and its targetters into a
// content/children tree. It does not deduplicate or detect cycles; the
// store's insertion discipline (trees-only writes, target
// prevalidation) must keep the relation graph a forest.
type TreeService interface {
	Build(dbc dbctx.Context, root *domain.Entity, maxDepth int, typeFilter string) (*domain.TreeNode, error)
}

type treeService struct {
	repo entities.EntityRepo
	log  *logger.Logger
}

func NewTreeService(repo entities.EntityRepo, log *logger.Logger) TreeService {
	return &treeService{repo: repo, log: log.With("service", "TreeService")}
}

func (s *treeService) Build(dbc dbctx.Context, root *domain.Entity, maxDepth int, typeFilter string) (*domain.TreeNode, error) {
	node := &domain.TreeNode{Content: root, Children: []*domain.TreeNode{}}
	if maxDepth <= 0 || !root.Persisted() {
		return node, nil
	}
	targetters, err := s.repo.GetTargetters(dbc, root.ID, typeFilter)
	if err != nil {
		return nil, err
	}
	for _, t := range targetters {
		child, err := s.Build(dbc, t, maxDepth-1, typeFilter)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
