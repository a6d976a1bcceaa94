package model

import (
	"time"
)

// Metric is an append-only observation of a Video at an instant; rows
// are never mutated after insert.
type Metric struct {
	ID              uint64  `gorm:"primaryKey"`
	VideoID         uint64  `gorm:"not null;index:idx_video_measured"`
	ViewCount       uint64  `gorm:"not null;default:0"`
	LikeCount       uint64  `gorm:"not null;default:0"`
	CommentCount    uint64  `gorm:"not null;default:0"`
	SaveCount       *uint64 `gorm:""`
	FollowersCount  uint64  `gorm:"not null;default:0"`
	MeasuredAt      time.Time `gorm:"not null;index:idx_video_measured"`
	CreatedAt       time.Time

	Video Video `gorm:"foreignKey:VideoID;references:ID"`
}

func (Metric) TableName() string {
	return "metrics"
}
