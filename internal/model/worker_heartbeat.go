package model

import (
	"time"
)

type HeartbeatStatus string

const (
	HeartbeatStatusRunning HeartbeatStatus = "running"
	HeartbeatStatusStopped HeartbeatStatus = "stopped"
)

// WorkerHeartbeat is the liveness record the Admin API reads to derive
// worker status. Upserted on every scheduler tick.
type WorkerHeartbeat struct {
	ID            uint64          `gorm:"primaryKey"`
	WorkerName    string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_worker_name"`
	LastHeartbeat time.Time       `gorm:"not null"`
	Status        HeartbeatStatus `gorm:"type:varchar(16);not null;default:running"`
	PID           int             `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (WorkerHeartbeat) TableName() string {
	return "worker_heartbeats"
}
