package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
	"github.com/poojapi/ullekhanam/internal/utils"
)

// Service owns the GORM handle for the entity store. The backing
// driver is selected by STORE_DRIVER (postgres or sqlite).
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "db.Service")

	driver := strings.ToLower(utils.GetEnv("STORE_DRIVER", "postgres", log))

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		path := utils.GetEnv("STORE_SQLITE_PATH", "ullekhanam.db", log)
		dialector = sqlite.Open(path)
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "ullekhanam", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}

	serviceLog.Info("Connecting to entity store...", "driver", driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to entity store", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect to entity store: %w", err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating entity store tables...")
	if err := s.db.AutoMigrate(
		&domain.Entity{},
		&domain.Target{},
	); err != nil {
		s.log.Error("Auto migration failed for entity store tables", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
