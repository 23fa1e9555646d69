package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetPlatformRepository returns the platform repository instance
func (f *Factory) GetPlatformRepository() PlatformRepository {
	return f.GetRepositories().Platform
}

// GetPromptStatRepository returns the prompt statistics repository instance
func (f *Factory) GetPromptStatRepository() PromptStatRepository {
	return f.GetRepositories().PromptStat
}

var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory, or nil when the
// database is not configured.
func GetGlobalFactory() *Factory {
	return globalFactory
}
