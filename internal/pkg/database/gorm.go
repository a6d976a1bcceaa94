package database

import (
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reeltracker/worker/internal/model"
)

// DefaultConnPool matches the spec's default database connection pool
// size: Store access may parallelize up to this many connections.
const DefaultConnPool = 5

// NewGormDB opens the relational Store (C1) and runs its migrations.
func NewGormDB(databaseURL string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(DefaultConnPool)
	sqlDB.SetMaxOpenConns(DefaultConnPool)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	if err = db.AutoMigrate(
		&model.Account{},
		&model.Video{},
		&model.Metric{},
		&model.MetricSchedule{},
		&model.WorkerHeartbeat{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}
