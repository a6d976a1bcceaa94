package wire

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reeltracker/worker/internal/api"
	"github.com/reeltracker/worker/internal/api/handler"
	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/database"
	"github.com/reeltracker/worker/internal/pkg/es"
	"github.com/reeltracker/worker/internal/pkg/logger"
	"github.com/reeltracker/worker/internal/pkg/mongo"
	"github.com/reeltracker/worker/internal/repository"
	"github.com/reeltracker/worker/internal/upstream"
)

// AdminContainer holds the read-mostly admin process's top-level
// components: a router sharing the same Store as the worker, no
// scheduler.
type AdminContainer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func BuildAdminApplication(cfg *config.Config) (*AdminContainer, error) {
	db, err := database.NewGormDB(cfg.DatabaseURL, logger.NewGormLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := es.InitClient(cfg.Elastic); err != nil {
		return nil, fmt.Errorf("failed to connect elasticsearch: %w", err)
	}

	mongoDB, err := mongo.InitMongo(cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}

	accounts := repository.NewAccountRepo(db)
	videos := repository.NewVideoRepo(db)
	metrics := repository.NewMetricRepo(db)
	heartbeats := repository.NewHeartbeatRepo(db)

	intervals := resolveIntervals(cfg.WorkerIntervalHours, cfg.TestMode)
	upstreamClient := upstream.NewClient(cfg.Upstream)

	handlers := &api.HandlersGroup{
		AccountHandler:   handler.NewAccountHandler(accounts, videos, metrics, mongoDB, upstreamClient),
		VideoHandler:     handler.NewVideoHandler(),
		HeartbeatHandler: handler.NewHeartbeatHandler(heartbeats, intervals.Heartbeat),
	}

	router := api.SetupRouter(handlers, cfg.AdminToken)

	return &AdminContainer{Router: router, DB: db}, nil
}
