package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/poojapi/ullekhanam/internal/data/db"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	store, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init store: %w", err)
	}
	if cfg.AutoMigrate {
		if err := store.AutoMigrateAll(); err != nil {
			log.Sync()
			return nil, fmt.Errorf("store automigrate: %w", err)
		}
	}
	theDB := store.DB()

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(log, cfg, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Detector != nil {
		if err := a.Services.Detector.Close(); err != nil {
			a.Log.Warn("Detector close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
