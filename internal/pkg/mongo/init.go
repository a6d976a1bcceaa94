package mongo

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/logger"
)

// InitMongo connects the raw-payload archive (C14). Disabled by
// default: nil, nil means the caller should skip archiving entirely.
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)
	log.Info("mongodb initialized", "db", cfg.Database)
	return db, nil
}
