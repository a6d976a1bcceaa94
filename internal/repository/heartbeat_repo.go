package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reeltracker/worker/internal/model"
)

type HeartbeatRepo interface {
	UpsertHeartbeat(ctx context.Context, name string, pid int, status model.HeartbeatStatus) error
	GetHeartbeat(ctx context.Context, name string) (*model.WorkerHeartbeat, error)
}

type heartbeatRepoImpl struct {
	db *gorm.DB
}

func NewHeartbeatRepo(db *gorm.DB) HeartbeatRepo {
	return &heartbeatRepoImpl{db: db}
}

func (r *heartbeatRepoImpl) UpsertHeartbeat(ctx context.Context, name string, pid int, status model.HeartbeatStatus) error {
	heartbeat := &model.WorkerHeartbeat{
		WorkerName:    name,
		LastHeartbeat: time.Now(),
		Status:        status,
		PID:           pid,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "worker_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_heartbeat", "status", "pid", "updated_at"}),
	}).Create(heartbeat)
	if result.Error != nil {
		return newStoreError("UpsertHeartbeat", Transient, result.Error)
	}
	return nil
}

func (r *heartbeatRepoImpl) GetHeartbeat(ctx context.Context, name string) (*model.WorkerHeartbeat, error) {
	var heartbeat model.WorkerHeartbeat
	err := r.db.WithContext(ctx).Where("worker_name = ?", name).First(&heartbeat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, newStoreError("GetHeartbeat", Transient, err)
	}
	return &heartbeat, nil
}
