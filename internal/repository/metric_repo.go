package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/reeltracker/worker/internal/model"
)

type MetricRepo interface {
	AppendMetric(ctx context.Context, metric *model.Metric) error
	LatestMetricForVideo(ctx context.Context, videoID uint64) (*model.Metric, error)
}

type metricRepoImpl struct {
	db *gorm.DB
}

func NewMetricRepo(db *gorm.DB) MetricRepo {
	return &metricRepoImpl{db: db}
}

// AppendMetric is a pure insert: Metric rows are append-only and
// never updated.
func (r *metricRepoImpl) AppendMetric(ctx context.Context, metric *model.Metric) error {
	if err := r.db.WithContext(ctx).Create(metric).Error; err != nil {
		return newStoreError("AppendMetric", Transient, err)
	}
	return nil
}

func (r *metricRepoImpl) LatestMetricForVideo(ctx context.Context, videoID uint64) (*model.Metric, error) {
	var metric model.Metric
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("measured_at DESC").
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, newStoreError("LatestMetricForVideo", Transient, err)
	}
	return &metric, nil
}
