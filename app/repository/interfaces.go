package repository

import (
	"github.com/ManuelReschke/PostFox/app/models"
	"gorm.io/gorm"
)

// PlatformRepository defines the interface for the publishing platform registry
type PlatformRepository interface {
	ListActive() ([]models.Platform, error)
	GetBySlug(slug string) (*models.Platform, error)
	Upsert(platform *models.Platform) error
	Count() (int64, error)
}

// PromptStatRepository defines the interface for upgrade prompt statistics
type PromptStatRepository interface {
	AddImpressions(increments map[string]int64) error
	List() ([]models.PromptStat, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Platform   PlatformRepository
	PromptStat PromptStatRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Platform:   NewPlatformRepository(db),
		PromptStat: NewPromptStatRepository(db),
	}
}
