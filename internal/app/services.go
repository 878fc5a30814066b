package app

import (
	"github.com/poojapi/ullekhanam/internal/filestore"
	"github.com/poojapi/ullekhanam/internal/inference"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
	"github.com/poojapi/ullekhanam/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Entity     services.EntityService
	Tree       services.TreeService
	Annotation services.AnnotationService
	Book       services.BookService
	File       services.FileService

	FileStore filestore.Store
	Detector  inference.RegionDetector
}

func wireServices(log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	files, err := resolveFileStore(log, cfg)
	if err != nil {
		return Services{}, err
	}
	detector, err := resolveRegionDetector(log, cfg)
	if err != nil {
		return Services{}, err
	}

	entitySvc := services.NewEntityService(repos.Entity, log)
	treeSvc := services.NewTreeService(repos.Entity, log)

	return Services{
		Auth:       services.NewAuthService(cfg.JWTSecretKey, log),
		Entity:     entitySvc,
		Tree:       treeSvc,
		Annotation: services.NewAnnotationService(repos.Entity, entitySvc, detector, log),
		Book:       services.NewBookService(repos.Entity, entitySvc, treeSvc, files, log),
		File:       services.NewFileService(files, log),

		FileStore: files,
		Detector:  detector,
	}, nil
}
