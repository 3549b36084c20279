package investment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/database"
)

// Repository reads the permanent investment history. Writes happen
// through the Orchestrator, inside the effectivization transaction.
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new investment history repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByClient returns a client's investment history, newest first.
func (r *Repository) ListByClient(ctx context.Context, clientID int64) ([]contracts.InvestmentEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, product_id, product_type, annual_yield, amount, effectuated_at
		FROM investment_history
		WHERE client_id = $1
		ORDER BY effectuated_at DESC, id DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment history: %w", err)
	}
	defer rows.Close()

	var entries []contracts.InvestmentEntry
	for rows.Next() {
		var e contracts.InvestmentEntry
		if err := rows.Scan(
			&e.ID, &e.ClientID, &e.ProductID, &e.ProductType, &e.AnnualYield, &e.Amount, &e.EffectuatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investment entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read investment history: %w", err)
	}

	return entries, nil
}

// pendingSimulation is a simulation row joined with the product snapshot
// needed to build its history entry.
type pendingSimulation struct {
	SimulationID int64
	ProductID    int64
	Amount       float64
	Effectuated  bool
	ProductType  string
	AnnualYield  float64
}

// loadSimulationTx reads one simulation scoped to the client, joined
// with its product for the type/yield snapshot. Returns nil when the
// simulation does not exist or belongs to a different client.
func loadSimulationTx(ctx context.Context, tx pgx.Tx, simulationID, clientID int64) (*pendingSimulation, error) {
	var p pendingSimulation
	err := tx.QueryRow(ctx, `
		SELECT s.id, s.product_id, s.amount, s.effectuated, p.type, p.annual_yield
		FROM simulations s
		JOIN products p ON p.id = s.product_id
		WHERE s.id = $1 AND s.client_id = $2`,
		simulationID, clientID,
	).Scan(&p.SimulationID, &p.ProductID, &p.Amount, &p.Effectuated, &p.ProductType, &p.AnnualYield)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation %d: %w", simulationID, err)
	}

	return &p, nil
}

// effectuateTx flips the simulation flag and writes the immutable
// history snapshot as one logical step inside the batch transaction.
func effectuateTx(ctx context.Context, tx pgx.Tx, clientID int64, p *pendingSimulation, entry *contracts.InvestmentEntry) error {
	tag, err := tx.Exec(ctx,
		`UPDATE simulations SET effectuated = true WHERE id = $1 AND effectuated = false`,
		p.SimulationID)
	if err != nil {
		return fmt.Errorf("failed to mark simulation %d effectuated: %w", p.SimulationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("simulation %d changed underneath the batch", p.SimulationID)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO investment_history (client_id, product_id, product_type, annual_yield, amount, effectuated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		clientID, p.ProductID, p.ProductType, p.AnnualYield, p.Amount, entry.EffectuatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert investment entry for simulation %d: %w", p.SimulationID, err)
	}

	return nil
}
