package app

import (
	"gorm.io/gorm"

	"github.com/poojapi/ullekhanam/internal/data/repos/entities"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

type Repos struct {
	Entity entities.EntityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Entity: entities.NewEntityRepo(db, log),
	}
}
