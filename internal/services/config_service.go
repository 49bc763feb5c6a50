package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/maxari-shop/service-returns/internal/models"
)

const shopConfigCacheKey = "returns:shop_config"

// ConfigStore is the persistence surface for the shop configuration.
type ConfigStore interface {
	Get(ctx context.Context) (*models.ShopConfig, error)
	Save(ctx context.Context, cfg *models.ShopConfig) error
}

// ConfigService serves the shop configuration with a redis read-through
// cache. A nil redis client disables caching.
type ConfigService struct {
	store  ConfigStore
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewConfigService creates a new ConfigService.
func NewConfigService(store ConfigStore, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *ConfigService {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &ConfigService{
		store:  store,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the shop configuration, from cache when fresh.
func (s *ConfigService) Get(ctx context.Context) (*models.ShopConfig, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	cfg, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cfg)
	return cfg, nil
}

// Update persists the configuration and invalidates the cache.
func (s *ConfigService) Update(ctx context.Context, cfg *models.ShopConfig) error {
	if err := s.store.Save(ctx, cfg); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ExcludedSKUs returns the configured non-returnable SKUs as a lookup set.
func (s *ConfigService) ExcludedSKUs(ctx context.Context) (map[string]struct{}, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return ExcludedSKUSet(cfg.ExcludedSKUs.Data()), nil
}

// UpdateExcludedSKUs replaces the excluded SKU list.
func (s *ConfigService) UpdateExcludedSKUs(ctx context.Context, skus []string) (*models.ShopConfig, error) {
	cfg, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	cfg.ExcludedSKUs = datatypes.NewJSONType(skus)
	if err := s.store.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return cfg, nil
}

func (s *ConfigService) fromCache(ctx context.Context) *models.ShopConfig {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, shopConfigCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to read shop config from cache", zap.Error(err))
		}
		return nil
	}

	var cfg models.ShopConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("failed to unmarshal cached shop config", zap.Error(err))
		return nil
	}
	return &cfg
}

func (s *ConfigService) toCache(ctx context.Context, cfg *models.ShopConfig) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		s.logger.Warn("failed to marshal shop config for cache", zap.Error(err))
		return
	}

	if err := s.redis.Set(ctx, shopConfigCacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache shop config", zap.Error(err))
	}
}

func (s *ConfigService) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, shopConfigCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate shop config cache", zap.Error(err))
	}
}
