package model

import (
	"time"
)

type ScheduleStatus string

const (
	ScheduleStatusIdle     ScheduleStatus = "idle"
	ScheduleStatusRunning  ScheduleStatus = "running"
	ScheduleStatusDisabled ScheduleStatus = "disabled"
)

// MetricSchedule is the control-plane row driving dispatch-due: one
// row per Video, status=running holding a lease for exactly one
// dispatcher.
type MetricSchedule struct {
	ID              uint64         `gorm:"primaryKey"`
	VideoID         uint64         `gorm:"not null;uniqueIndex:idx_schedule_video"`
	NextDueAt       time.Time      `gorm:"not null;index:idx_status_next_due"`
	LastRunAt       *time.Time     `gorm:""`
	IntervalSeconds int            `gorm:"not null;default:0"`
	Status          ScheduleStatus `gorm:"type:varchar(16);not null;default:idle;index:idx_status_next_due"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Video Video `gorm:"foreignKey:VideoID;references:ID"`
}

func (MetricSchedule) TableName() string {
	return "metric_schedules"
}
