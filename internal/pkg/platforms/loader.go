package platforms

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PostFox/app/models"
	"github.com/ManuelReschke/PostFox/app/repository"
)

// Load builds the registry from the database. An empty table, or a nil
// repository, yields the built-in DefaultPlatforms.
func Load(repo repository.PlatformRepository) (*StaticRegistry, error) {
	if repo == nil {
		return NewStaticRegistry(DefaultPlatforms), nil
	}
	rows, err := repo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("load platform registry: %w", err)
	}
	if len(rows) == 0 {
		log.Info("[Platforms] No platforms configured in database, using built-in registry")
		return NewStaticRegistry(DefaultPlatforms), nil
	}
	return NewStaticRegistry(FromModels(rows)), nil
}

// Seed writes DefaultPlatforms into an empty registry table.
func Seed(repo repository.PlatformRepository) error {
	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i, p := range DefaultPlatforms {
		row := &models.Platform{
			Slug:         p.ID,
			Name:         p.Name,
			RequiredPlan: p.RequiredPlan,
			FeatureID:    p.FeatureID,
			SortOrder:    i * 10,
			IsActive:     true,
		}
		if err := repo.Upsert(row); err != nil {
			return fmt.Errorf("seed platform %q: %w", p.ID, err)
		}
	}
	log.Infof("[Platforms] Seeded %d default platforms", len(DefaultPlatforms))
	return nil
}

// FromModels converts database rows to registry entries, preserving order.
func FromModels(rows []models.Platform) []Platform {
	out := make([]Platform, 0, len(rows))
	for _, row := range rows {
		out = append(out, Platform{
			ID:           row.Slug,
			Name:         row.Name,
			RequiredPlan: row.RequiredPlan,
			FeatureID:    row.FeatureID,
		})
	}
	return out
}
