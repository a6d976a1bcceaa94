package model

import (
	"time"
)

// Account.ID is the upstream platform's own numeric user key, never a
// locally generated surrogate: the worker uses it directly against
// per-account upstream endpoints.
type Account struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement:false"`
	Username       string    `gorm:"type:varchar(150);not null;uniqueIndex:idx_username"`
	ProfileURL     string    `gorm:"type:varchar(500)"`
	FollowersCount uint64    `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Videos []Video `gorm:"foreignKey:AccountID;references:ID"`
}

func (Account) TableName() string {
	return "accounts"
}
