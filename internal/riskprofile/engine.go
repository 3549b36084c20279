package riskprofile

import (
	"context"
	"fmt"
	"time"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/markov"
	"github.com/caixaverso/investcore/pkg/database"
	"github.com/caixaverso/investcore/pkg/logger"
	"github.com/caixaverso/investcore/pkg/redis"
)

// profileLockClass namespaces the per-client advisory lock keys used to
// serialize profile recomputation.
const profileLockClass int64 = 0x5250 // "RP"

// LockKey derives the advisory lock key that serializes profile writes
// for a client. Effectivization batches take the same key, so batch
// mutations and the recomputation they trigger never interleave with a
// concurrent batch for the same client.
func LockKey(clientID int64) int64 {
	return profileLockClass<<32 ^ clientID
}

// Engine computes, persists, and serves client risk profiles.
type Engine struct {
	pool    database.Pool
	catalog contracts.ProductCatalog
	cache   *redis.Cache // optional, best-effort
	logger  *logger.Logger
	now     func() time.Time
}

// NewEngine creates a new scoring engine. cache may be nil.
func NewEngine(pool database.Pool, catalog contracts.ProductCatalog, cache *redis.Cache, log *logger.Logger) *Engine {
	return &Engine{
		pool:    pool,
		catalog: catalog,
		cache:   cache,
		logger:  log,
		now:     time.Now,
	}
}

// ProfileView is a risk profile enriched with the Markov trend.
type ProfileView struct {
	contracts.RiskProfile
	TrendDistribution  markov.Distribution `json:"trend_distribution"`
	MostLikelyNextTier contracts.Tier      `json:"most_likely_next_tier"`
}

// ComputeProfile recomputes the client's risk profile from its full
// investment history and upserts the single profile row. Concurrent
// recomputations for the same client are serialized with a
// transaction-scoped advisory lock, so the committed profile always
// reflects the history as read under the lock.
func (e *Engine) ComputeProfile(ctx context.Context, clientID int64) (*contracts.RiskProfile, error) {
	if clientID <= 0 {
		return nil, contracts.NewValidationError("clientId", "must be greater than zero")
	}

	// Catalog is immutable reference data; read outside the transaction.
	products, err := e.catalog.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin scoring transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, LockKey(clientID)); err != nil {
		return nil, fmt.Errorf("failed to acquire profile lock for client %d: %w", clientID, err)
	}

	history, err := loadHistoryTx(ctx, tx, clientID)
	if err != nil {
		return nil, err
	}

	result := Score(history, products, e.now())

	profile := &contracts.RiskProfile{
		ClientID:    clientID,
		Tier:        result.Tier,
		Score:       result.Score,
		UpdatedAt:   e.now(),
		Explanation: result.Note,
	}

	if err := upsertProfileTx(ctx, tx, profile); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit scoring transaction: %w", err)
	}

	e.invalidateCache(ctx, clientID)

	e.logger.WithFields(map[string]interface{}{
		"client_id": clientID,
		"tier":      profile.Tier,
		"score":     profile.Score,
		"defaulted": result.Defaulted,
	}).Debug("Risk profile recomputed")

	return profile, nil
}

// GetProfile returns the trend-enriched profile for a client,
// recomputing it from history. A cached view is served opportunistically
// when present; cache failures never fail the request.
func (e *Engine) GetProfile(ctx context.Context, clientID int64) (*ProfileView, error) {
	if clientID <= 0 {
		return nil, contracts.NewValidationError("clientId", "must be greater than zero")
	}

	if e.cache != nil {
		var cached ProfileView
		found, err := e.cache.Get(ctx, redis.ProfileKey(clientID), &cached)
		if err != nil {
			e.logger.WithError(err).Warn("Profile cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	profile, err := e.ComputeProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}

	dist, next, err := markov.Predict(profile.Tier)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		RiskProfile:        *profile,
		TrendDistribution:  dist,
		MostLikelyNextTier: next,
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, redis.ProfileKey(clientID), view, redis.TTLProfile); err != nil {
			e.logger.WithError(err).Warn("Profile cache write failed")
		}
	}

	return view, nil
}

func (e *Engine) invalidateCache(ctx context.Context, clientID int64) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Delete(ctx, redis.ProfileKey(clientID)); err != nil {
		e.logger.WithError(err).Warn("Profile cache invalidation failed")
	}
}
