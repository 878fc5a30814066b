package services

import (
	"github.com/poojapi/ullekhanam/internal/data/repos/entities"
	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/inference"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// AnnotationService populates image annotations for a page, running
// region detection at most once per page.
type AnnotationService interface {
	// EnsureAnnotations returns the image annotations targeting page.
	// If annotations already exist they are returned unchanged, except
	// when forceIfNotSystemInferred is set and none of them is
	// system-inferred: only then does detection run again. Detection
	// never re-runs once a system-inferred annotation exists.
	EnsureAnnotations(dbc dbctx.Context, page *domain.Entity, pageImage []byte, forceIfNotSystemInferred bool) ([]*domain.Entity, error)
}

type annotationService struct {
	repo     entities.EntityRepo
	entity   EntityService
	detector inference.RegionDetector
	log      *logger.Logger
}

func NewAnnotationService(repo entities.EntityRepo, entity EntityService, detector inference.RegionDetector, log *logger.Logger) AnnotationService {
	return &annotationService{
		repo:     repo,
		entity:   entity,
		detector: detector,
		log:      log.With("service", "AnnotationService"),
	}
}

func (s *annotationService) EnsureAnnotations(dbc dbctx.Context, page *domain.Entity, pageImage []byte, forceIfNotSystemInferred bool) ([]*domain.Entity, error) {
	known, err := s.repo.GetTargetters(dbc, page.ID, domain.EntityTypeImageAnnotation)
	if err != nil {
		return nil, err
	}
	if len(known) > 0 {
		if !forceIfNotSystemInferred || anySystemInferred(known) {
			s.log.Warn("Annotations exist. Not detecting and merging.", "page_id", page.ID)
			return known, nil
		}
	}

	regions, err := s.detector.DetectTextRegions(dbc.Ctx, pageImage)
	if err != nil {
		return nil, err
	}

	newAnnotations := make([]*domain.Entity, 0, len(regions))
	for _, region := range regions {
		rect := domain.Rectangle{
			X: region.X0,
			Y: region.Y0,
			W: region.X1 - region.X0,
			H: region.Y1 - region.Y0,
		}
		annotation := domain.NewImageAnnotation(page.ID, rect, domain.DataSource{
			SourceType: domain.SourceTypeSystemInferred,
			SourceID:   s.detector.Name(),
		})
		// No rollback here: annotations persisted before a mid-loop
		// store failure stay persisted.
		annotation, err := s.entity.Upsert(dbc, annotation, nil)
		if err != nil {
			return nil, err
		}
		newAnnotations = append(newAnnotations, annotation)
	}
	return newAnnotations, nil
}

func anySystemInferred(annotations []*domain.Entity) bool {
	for _, a := range annotations {
		if a.Source != nil && a.Source.SourceType == domain.SourceTypeSystemInferred {
			return true
		}
	}
	return false
}
