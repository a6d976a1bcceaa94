package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reeltracker/worker/internal/model"
)

type ScheduleRepo interface {
	UpsertSchedule(ctx context.Context, schedule *model.MetricSchedule) error
	ScheduleForVideo(ctx context.Context, videoID uint64) (*model.MetricSchedule, error)
	RescheduleIdle(ctx context.Context, id uint64, nextDueAt time.Time, intervalSeconds int) error
	ClaimDueSchedules(ctx context.Context, now time.Time, limit int) ([]*model.MetricSchedule, error)
	ReleaseSchedule(ctx context.Context, id uint64, nextDueAt time.Time, lastRunAt *time.Time, status model.ScheduleStatus) error
	ReapStaleLeases(ctx context.Context, olderThan time.Time) (int64, error)
}

type scheduleRepoImpl struct {
	db *gorm.DB
}

func NewScheduleRepo(db *gorm.DB) ScheduleRepo {
	return &scheduleRepoImpl{db: db}
}

// UpsertSchedule creates the one schedule row a video gets at
// discover time; conflicts on (video_id) are a no-op since a video's
// schedule is only ever mutated through ReleaseSchedule/RescheduleIdle
// afterward.
func (r *scheduleRepoImpl) UpsertSchedule(ctx context.Context, schedule *model.MetricSchedule) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}},
		DoNothing: true,
	}).Create(schedule)
	if result.Error != nil {
		return newStoreError("UpsertSchedule", Transient, result.Error)
	}
	return nil
}

func (r *scheduleRepoImpl) ScheduleForVideo(ctx context.Context, videoID uint64) (*model.MetricSchedule, error) {
	var schedule model.MetricSchedule
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newStoreError("ScheduleForVideo", NotFound, err)
		}
		return nil, newStoreError("ScheduleForVideo", Transient, err)
	}
	return &schedule, nil
}

// RescheduleIdle rewrites next_due_at/interval_seconds only for a row
// currently idle; a row already claimed by a dispatcher is left
// untouched, matching the reschedule job's "never touch running rows"
// rule.
func (r *scheduleRepoImpl) RescheduleIdle(ctx context.Context, id uint64, nextDueAt time.Time, intervalSeconds int) error {
	result := r.db.WithContext(ctx).Model(&model.MetricSchedule{}).
		Where("id = ? AND status = ?", id, model.ScheduleStatusIdle).
		Updates(map[string]any{
			"next_due_at":      nextDueAt,
			"interval_seconds": intervalSeconds,
		})
	if result.Error != nil {
		return newStoreError("RescheduleIdle", Transient, result.Error)
	}
	return nil
}

// ClaimDueSchedules is the at-most-once dispatch gate: within one
// transaction it selects up to limit idle-and-due rows with
// SELECT ... FOR UPDATE SKIP LOCKED, flips them to running, and
// returns exactly the rows it claimed. Two concurrent callers can
// never observe overlapping batches.
func (r *scheduleRepoImpl) ClaimDueSchedules(ctx context.Context, now time.Time, limit int) ([]*model.MetricSchedule, error) {
	var claimed []*model.MetricSchedule

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []model.MetricSchedule
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND next_due_at <= ?", model.ScheduleStatusIdle, now).
			Order("next_due_at ASC").
			Limit(limit).
			Find(&candidates).Error; err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		ids := make([]uint64, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}

		if err := tx.Model(&model.MetricSchedule{}).
			Where("id IN ?", ids).
			Update("status", model.ScheduleStatusRunning).Error; err != nil {
			return err
		}

		claimed = make([]*model.MetricSchedule, len(candidates))
		for i := range candidates {
			candidates[i].Status = model.ScheduleStatusRunning
			claimed[i] = &candidates[i]
		}
		return nil
	})
	if err != nil {
		return nil, newStoreError("ClaimDueSchedules", Transient, err)
	}
	return claimed, nil
}

// ReleaseSchedule returns a lease and advances the schedule: called
// after dispatch-due has sampled (or failed to sample) a video.
func (r *scheduleRepoImpl) ReleaseSchedule(ctx context.Context, id uint64, nextDueAt time.Time, lastRunAt *time.Time, status model.ScheduleStatus) error {
	updates := map[string]any{
		"next_due_at": nextDueAt,
		"status":      status,
	}
	if lastRunAt != nil {
		updates["last_run_at"] = *lastRunAt
	}

	result := r.db.WithContext(ctx).Model(&model.MetricSchedule{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return newStoreError("ReleaseSchedule", Transient, result.Error)
	}
	return nil
}

// ReapStaleLeases returns to idle any schedule that has been running
// longer than the lease timeout, recovering leases lost to a crash
// between claim and release.
func (r *scheduleRepoImpl) ReapStaleLeases(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.MetricSchedule{}).
		Where("status = ? AND updated_at < ?", model.ScheduleStatusRunning, olderThan).
		Update("status", model.ScheduleStatusIdle)
	if result.Error != nil {
		return 0, newStoreError("ReapStaleLeases", Transient, result.Error)
	}
	return result.RowsAffected, nil
}
