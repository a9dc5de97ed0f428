package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
)

// SettingsRowID is the primary key of the single settings row.
const SettingsRowID = 1

// SeedCatalog inserts the configured tiers and free-access settings when they
// are missing. Existing rows are left alone so admin edits survive restarts.
func SeedCatalog(db *gorm.DB, cfg *config.AccessConfig) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i, tc := range cfg.Tiers {
			if tc.ID == model.TierFree || !model.IsKnownTier(tc.ID) {
				return fmt.Errorf("unknown tier %q in access.tiers", tc.ID)
			}

			tier := model.AccessTier{
				ID:        tc.ID,
				Label:     tc.Label,
				Price:     tc.Price,
				Enabled:   tc.Enabled,
				SortOrder: i,
			}
			if tc.ID != model.TierLifetime {
				if tc.DurationDays <= 0 {
					return fmt.Errorf("tier %q needs a positive duration_days", tc.ID)
				}
				days := tc.DurationDays
				tier.DurationDays = &days
			}

			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tier).Error; err != nil {
				return fmt.Errorf("failed to seed tier %s: %w", tc.ID, err)
			}
		}

		settings := model.SiteSettings{
			ID:                        SettingsRowID,
			FreeAccessFallbackEnabled: cfg.FreeAccessFallbackEnabled,
			FreeAccessDurationMinutes: cfg.FreeAccessDurationMinutes,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
		return nil
	})
}
