package riskprofile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/database"
)

// Repository reads persisted risk profiles. Writes happen through the
// Engine, inside the advisory-locked transaction.
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new profile repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the stored profile for a client. The explanation is not
// persisted; it is rebuilt on each computation.
func (r *Repository) Get(ctx context.Context, clientID int64) (*contracts.RiskProfile, error) {
	var p contracts.RiskProfile
	err := r.pool.QueryRow(ctx,
		`SELECT client_id, profile, score, updated_at FROM client_risk_profiles WHERE client_id = $1`,
		clientID,
	).Scan(&p.ClientID, &p.Tier, &p.Score, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &contracts.NotFoundError{Resource: "risk profile for client", ID: clientID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get risk profile for client %d: %w", clientID, err)
	}

	return &p, nil
}

// loadHistoryTx loads a client's full investment history inside the
// scoring transaction, so the score reflects exactly the committed state
// under the advisory lock.
func loadHistoryTx(ctx context.Context, tx pgx.Tx, clientID int64) ([]contracts.InvestmentEntry, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, client_id, product_id, product_type, annual_yield, amount, effectuated_at
		FROM investment_history
		WHERE client_id = $1
		ORDER BY effectuated_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment history: %w", err)
	}
	defer rows.Close()

	var history []contracts.InvestmentEntry
	for rows.Next() {
		var e contracts.InvestmentEntry
		if err := rows.Scan(
			&e.ID, &e.ClientID, &e.ProductID, &e.ProductType, &e.AnnualYield, &e.Amount, &e.EffectuatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investment entry: %w", err)
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read investment history: %w", err)
	}

	return history, nil
}

// upsertProfileTx writes the profile row, overwriting any previous
// classification. At most one row per client is ever kept.
func upsertProfileTx(ctx context.Context, tx pgx.Tx, p *contracts.RiskProfile) error {
	query := `
		INSERT INTO client_risk_profiles (client_id, profile, score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id) DO UPDATE SET
			profile = EXCLUDED.profile,
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := tx.Exec(ctx, query, p.ClientID, string(p.Tier), p.Score, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert risk profile: %w", err)
	}

	return nil
}
