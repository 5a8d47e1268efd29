package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/infrastructure/cache"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
)

// LogoGateway fetches token logo metadata from the upstream provider.
type LogoGateway interface {
	Metadata(ctx context.Context, unit string) (*gateway.LogoMetadata, error)
}

// LogoService serves token logos with long-lived caching. Logos change
// rarely, so cache hits are the common path.
type LogoService struct {
	logo   LogoGateway
	cache  *cache.RedisCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewLogoService creates a new logo service.
func NewLogoService(logo LogoGateway, redisCache *cache.RedisCache, ttl time.Duration, logger *zap.Logger) *LogoService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LogoService{
		logo:   logo,
		cache:  redisCache,
		ttl:    ttl,
		logger: logger,
	}
}

// GetLogo returns the logo payload for a token unit, consulting the
// cache before the upstream provider.
func (s *LogoService) GetLogo(ctx context.Context, unit string) (*gateway.LogoMetadata, error) {
	cacheKey := cache.LogoKey(unit)

	if s.cache != nil {
		var cached gateway.LogoMetadata
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	meta, err := s.logo.Metadata(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo for %s: %w", unit, err)
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cacheKey, meta, s.ttl); err != nil {
			s.logger.Warn("Failed to cache logo", zap.String("unit", unit), zap.Error(err))
		}
	}

	return meta, nil
}
