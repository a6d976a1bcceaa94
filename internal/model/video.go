package model

import (
	"time"
)

type Video struct {
	ID              uint64    `gorm:"primaryKey"`
	VideoID         uint64    `gorm:"not null;uniqueIndex:idx_video_id"`
	Shortcode       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_shortcode"`
	AccountID       uint64    `gorm:"not null;index:idx_account_published"`
	VideoURL        string    `gorm:"type:varchar(1000)"`
	AudioURL        string    `gorm:"type:varchar(1000)"`
	AudioFilePath   *string   `gorm:"type:varchar(500)"`
	Transcription   *string   `gorm:"type:text"`
	Caption         string    `gorm:"type:text"`
	DurationSeconds int       `gorm:"not null;default:0"`
	PublishedAt     time.Time `gorm:"not null;index:idx_account_published"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Account        Account         `gorm:"foreignKey:AccountID;references:ID"`
	Metrics        []Metric        `gorm:"foreignKey:VideoID;references:ID"`
	MetricSchedule *MetricSchedule `gorm:"foreignKey:VideoID;references:ID"`
}

func (Video) TableName() string {
	return "videos"
}
