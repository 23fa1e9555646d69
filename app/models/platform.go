package models

import "time"

// Platform is a row of the publishing platform registry. RequiredPlan and
// FeatureID are empty for platforms that are open to every plan.
type Platform struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Slug         string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	RequiredPlan string    `gorm:"type:varchar(20);not null;default:''" json:"required_plan,omitempty"`
	FeatureID    string    `gorm:"type:varchar(64);not null;default:''" json:"feature_id,omitempty"`
	SortOrder    int       `gorm:"not null;default:0;index" json:"sort_order"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
