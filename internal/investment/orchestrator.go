package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/riskprofile"
	"github.com/caixaverso/investcore/pkg/database"
	"github.com/caixaverso/investcore/pkg/logger"
)

// Result reports the outcome of one effectivization batch. Every input
// id lands in exactly one of the three buckets.
type Result struct {
	Success            bool                   `json:"success"`
	Message            string                 `json:"message"`
	Effectuated        []int64                `json:"effectuated"`
	AlreadyEffectuated []int64                `json:"already_effectuated"`
	NotFound           []int64                `json:"not_found"`
	Profile            *contracts.RiskProfile `json:"profile,omitempty"`
}

// Orchestrator turns simulations into permanent investment history.
type Orchestrator struct {
	pool     database.Pool
	profiles contracts.ProfileComputer
	logger   *logger.Logger
	now      func() time.Time
}

// NewOrchestrator creates a new effectivization orchestrator.
func NewOrchestrator(pool database.Pool, profiles contracts.ProfileComputer, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		pool:     pool,
		profiles: profiles,
		logger:   log,
		now:      time.Now,
	}
}

// Effectivize classifies every simulation id into effectuated, already
// effectuated, or not found, with no short-circuit on failures. All flag
// flips and history snapshots for the batch commit as one unit; when at
// least one simulation was effectuated the risk profile is recomputed
// once and embedded in the result. Batches for the same client are
// serialized through the profile advisory lock.
func (o *Orchestrator) Effectivize(ctx context.Context, clientID int64, simulationIDs []int64) (*Result, error) {
	if clientID <= 0 {
		return nil, contracts.NewValidationError("clientId", "must be greater than zero")
	}
	if len(simulationIDs) == 0 {
		return nil, contracts.NewValidationError("simulationIds", "must not be empty")
	}

	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin effectivization transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, riskprofile.LockKey(clientID)); err != nil {
		return nil, fmt.Errorf("failed to acquire profile lock for client %d: %w", clientID, err)
	}

	result := &Result{
		Effectuated:        []int64{},
		AlreadyEffectuated: []int64{},
		NotFound:           []int64{},
	}
	effectuatedAt := o.now()

	for _, id := range simulationIDs {
		pending, err := loadSimulationTx(ctx, tx, id, clientID)
		if err != nil {
			return nil, err
		}
		switch {
		case pending == nil:
			result.NotFound = append(result.NotFound, id)
		case pending.Effectuated:
			result.AlreadyEffectuated = append(result.AlreadyEffectuated, id)
		default:
			entry := &contracts.InvestmentEntry{
				ClientID:      clientID,
				ProductID:     pending.ProductID,
				ProductType:   pending.ProductType,
				AnnualYield:   pending.AnnualYield,
				Amount:        pending.Amount,
				EffectuatedAt: effectuatedAt,
			}
			if err := effectuateTx(ctx, tx, clientID, pending, entry); err != nil {
				return nil, err
			}
			result.Effectuated = append(result.Effectuated, id)
		}
	}

	if len(result.Effectuated) == 0 {
		// Nothing changed; the deferred rollback discards the empty
		// transaction and no score recomputation is triggered.
		if len(result.NotFound) > 0 {
			result.Message = "no valid simulations to effectivize"
		} else {
			result.Message = "all simulations were already effectuated"
		}

		o.logger.WithFields(map[string]interface{}{
			"client_id":           clientID,
			"not_found":           len(result.NotFound),
			"already_effectuated": len(result.AlreadyEffectuated),
		}).Warn("Effectivization batch rejected")

		return result, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit effectivization transaction: %w", err)
	}

	profile, err := o.profiles.ComputeProfile(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("effectuated %d simulation(s) but profile recomputation failed: %w",
			len(result.Effectuated), err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("%d simulation(s) effectuated", len(result.Effectuated))
	result.Profile = profile

	o.logger.WithFields(map[string]interface{}{
		"client_id":           clientID,
		"effectuated":         len(result.Effectuated),
		"already_effectuated": len(result.AlreadyEffectuated),
		"not_found":           len(result.NotFound),
		"tier":                profile.Tier,
	}).Info("Effectivization batch committed")

	return result, nil
}
