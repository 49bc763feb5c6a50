package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/maxari-shop/service-returns/internal/models"
)

// ConfigRepository persists the singleton shop configuration.
type ConfigRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get reads the most recently updated configuration row. A missing row is
// reported as an empty config, not an error.
func (r *ConfigRepository) Get(ctx context.Context) (*models.ShopConfig, error) {
	var cfg models.ShopConfig
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ShopConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read shop config: %w", err)
	}
	return &cfg, nil
}

// Save upserts the configuration row.
func (r *ConfigRepository) Save(ctx context.Context, cfg *models.ShopConfig) error {
	cfg.UpdatedAt = time.Now().UTC()

	if cfg.ID == 0 {
		existing, err := r.Get(ctx)
		if err != nil {
			return err
		}
		cfg.ID = existing.ID
	}

	if cfg.ID == 0 {
		if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
			return fmt.Errorf("failed to create shop config: %w", err)
		}
		return nil
	}

	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to update shop config: %w", err)
	}
	return nil
}
