package recommend

import (
	"context"
	"fmt"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/logger"
	"github.com/caixaverso/investcore/pkg/redis"
)

// levelsByTier maps a risk profile to the product risk levels it may be
// offered. Each tier includes everything the tier below it can hold.
var levelsByTier = map[contracts.Tier][]contracts.RiskLevel{
	contracts.TierConservative: {contracts.RiskLow},
	contracts.TierModerate:     {contracts.RiskLow, contracts.RiskMedium},
	contracts.TierAggressive:   {contracts.RiskLow, contracts.RiskMedium, contracts.RiskHigh},
}

// Service recommends catalog products suitable for a risk profile.
type Service struct {
	catalog contracts.ProductCatalog
	cache   *redis.Cache // optional, best-effort
	logger  *logger.Logger
}

// NewService creates a new recommendation service. cache may be nil.
func NewService(catalog contracts.ProductCatalog, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		cache:   cache,
		logger:  log,
	}
}

// ProductsForProfile returns the products a client with the given
// profile may invest in, best yield first. Results are served from the
// look-aside cache when present; cache failures fall through to the
// catalog and never fail the request.
func (s *Service) ProductsForProfile(ctx context.Context, profile string) ([]contracts.Product, error) {
	tier, err := contracts.ParseTier(profile)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached []contracts.Product
		found, err := s.cache.Get(ctx, redis.RecommendKey(string(tier)), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Recommendation cache read failed")
		} else if found {
			return cached, nil
		}
	}

	products, err := s.catalog.FindByRiskLevels(ctx, levelsByTier[tier])
	if err != nil {
		return nil, fmt.Errorf("failed to load products for profile %s: %w", tier, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.RecommendKey(string(tier)), products, redis.TTLRecommend); err != nil {
			s.logger.WithError(err).Warn("Recommendation cache write failed")
		}
	}

	return products, nil
}

// WarmCache precomputes the recommendation list for every tier. Used by
// the scheduler; individual tier failures are logged and skipped.
func (s *Service) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	var lastErr error
	for _, tier := range contracts.Tiers() {
		products, err := s.catalog.FindByRiskLevels(ctx, levelsByTier[tier])
		if err != nil {
			s.logger.WithError(err).WithField("tier", string(tier)).Warn("Cache warm lookup failed")
			lastErr = err
			continue
		}
		if err := s.cache.Set(ctx, redis.RecommendKey(string(tier)), products, redis.TTLRecommend); err != nil {
			s.logger.WithError(err).WithField("tier", string(tier)).Warn("Cache warm write failed")
			lastErr = err
		}
	}

	return lastErr
}
