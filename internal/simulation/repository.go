package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/database"
)

// Repository persists and reads simulations
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new simulation repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new simulation and fills in its generated id.
func (r *Repository) Create(ctx context.Context, sim *contracts.Simulation) error {
	query := `
		INSERT INTO simulations (client_id, product_id, amount, final_value, term_months, created_at, effectuated)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		sim.ClientID, sim.ProductID, sim.Amount, sim.FinalValue, sim.TermMonths, sim.CreatedAt,
	).Scan(&sim.ID)
	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}

	return nil
}

// ListHistory returns all simulations, newest first.
func (r *Repository) ListHistory(ctx context.Context) ([]contracts.Simulation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, product_id, amount, final_value, term_months, created_at, effectuated
		FROM simulations
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation history: %w", err)
	}
	defer rows.Close()

	var sims []contracts.Simulation
	for rows.Next() {
		var s contracts.Simulation
		if err := rows.Scan(
			&s.ID, &s.ClientID, &s.ProductID, &s.Amount, &s.FinalValue, &s.TermMonths, &s.CreatedAt, &s.Effectuated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		sims = append(sims, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read simulations: %w", err)
	}

	return sims, nil
}

// ProductDaySummary aggregates simulations for one product on one day.
type ProductDaySummary struct {
	ProductID      int64     `json:"product_id"`
	Day            time.Time `json:"day"`
	Count          int64     `json:"count"`
	MeanFinalValue float64   `json:"mean_final_value"`
}

// SummaryByProductDay returns simulation counts and mean projected value
// grouped by product and calendar day.
func (r *Repository) SummaryByProductDay(ctx context.Context) ([]ProductDaySummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, date_trunc('day', created_at) AS day, COUNT(*), AVG(final_value)
		FROM simulations
		GROUP BY product_id, day
		ORDER BY day DESC, product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation summary: %w", err)
	}
	defer rows.Close()

	var summaries []ProductDaySummary
	for rows.Next() {
		var s ProductDaySummary
		if err := rows.Scan(&s.ProductID, &s.Day, &s.Count, &s.MeanFinalValue); err != nil {
			return nil, fmt.Errorf("failed to scan simulation summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read simulation summary: %w", err)
	}

	return summaries, nil
}
