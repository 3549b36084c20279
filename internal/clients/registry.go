package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/database"
)

// Registry manages minimal client records. Clients are created
// implicitly on their first simulation.
type Registry struct {
	pool database.Pool
}

// NewRegistry creates a new client registry
func NewRegistry(pool database.Pool) *Registry {
	return &Registry{pool: pool}
}

// EnsureExists creates the client record if it is absent and returns it.
// The operation is idempotent: concurrent calls for the same id are safe.
func (r *Registry) EnsureExists(ctx context.Context, clientID int64) (*contracts.Client, error) {
	if clientID <= 0 {
		return nil, contracts.NewValidationError("clientId", "must be greater than zero")
	}

	query := `
		INSERT INTO clients (id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, clientID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to ensure client %d: %w", clientID, err)
	}

	return r.GetByID(ctx, clientID)
}

// GetByID returns a client by id.
func (r *Registry) GetByID(ctx context.Context, clientID int64) (*contracts.Client, error) {
	var c contracts.Client
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at FROM clients WHERE id = $1`, clientID,
	).Scan(&c.ID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &contracts.NotFoundError{Resource: "client", ID: clientID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client %d: %w", clientID, err)
	}

	return &c, nil
}

// List returns all registered clients ordered by id.
func (r *Registry) List(ctx context.Context) ([]contracts.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, created_at FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var result []contracts.Client
	for rows.Next() {
		var c contracts.Client
		if err := rows.Scan(&c.ID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clients: %w", err)
	}

	return result, nil
}
