package repository

import (
	"sort"

	"github.com/ManuelReschke/PostFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// promptStatRepository implements the PromptStatRepository interface
type promptStatRepository struct {
	db *gorm.DB
}

// NewPromptStatRepository creates a new prompt statistics repository instance
func NewPromptStatRepository(db *gorm.DB) PromptStatRepository {
	return &promptStatRepository{db: db}
}

// AddImpressions adds the given increments to each prompt's counter,
// creating missing rows. Prompts are written in sorted order for stable locking.
func (r *promptStatRepository) AddImpressions(increments map[string]int64) error {
	if len(increments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(increments))
	for id, inc := range increments {
		if id == "" || inc == 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			row := models.PromptStat{PromptID: id, Impressions: increments[id]}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "prompt_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"impressions": gorm.Expr("impressions + ?", increments[id]),
				}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns all prompt statistics ordered by prompt id
func (r *promptStatRepository) List() ([]models.PromptStat, error) {
	var stats []models.PromptStat
	err := r.db.Order("prompt_id ASC").Find(&stats).Error
	return stats, err
}
