package models

import "time"

// PromptStat aggregates how often an upgrade prompt has been shown.
type PromptStat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PromptID    string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"prompt_id"`
	Impressions int64     `gorm:"not null;default:0" json:"impressions"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
