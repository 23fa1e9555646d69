package repository

import (
	"github.com/ManuelReschke/PostFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// platformRepository implements the PlatformRepository interface
type platformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository creates a new platform repository instance
func NewPlatformRepository(db *gorm.DB) PlatformRepository {
	return &platformRepository{db: db}
}

// ListActive returns active platforms in registry order
func (r *platformRepository) ListActive() ([]models.Platform, error) {
	var platforms []models.Platform
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&platforms).Error
	return platforms, err
}

// GetBySlug retrieves a platform by its public id
func (r *platformRepository) GetBySlug(slug string) (*models.Platform, error) {
	var platform models.Platform
	if err := r.db.Where("slug = ?", slug).First(&platform).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

// Upsert creates the platform or updates it by slug
func (r *platformRepository) Upsert(platform *models.Platform) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "required_plan", "feature_id", "sort_order", "is_active", "updated_at"}),
	}).Create(platform).Error
}

// Count returns the total number of platforms
func (r *platformRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Platform{}).Count(&count).Error
	return count, err
}
