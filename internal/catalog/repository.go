package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/database"
)

// Repository provides read-only access to the product catalog.
type Repository struct {
	pool database.Pool
}

// NewRepository creates a new catalog repository
func NewRepository(pool database.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, name, type, annual_yield, risk_level, min_term_months, liquidity_days`

// GetAll returns every product in the catalog ordered by id.
func (r *Repository) GetAll(ctx context.Context) ([]contracts.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByID returns a single product by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*contracts.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var p contracts.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Type, &p.AnnualYield, &p.Risk, &p.MinTermMonths, &p.LiquidityDays,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &contracts.NotFoundError{Resource: "product", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return &p, nil
}

// FindByTypeAndMinTerm returns products whose type matches the requested
// type (case-insensitive) and whose minimum term fits within termMonths.
func (r *Repository) FindByTypeAndMinTerm(ctx context.Context, productType string, termMonths int) ([]contracts.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE LOWER(type) = LOWER($1) AND min_term_months <= $2
		ORDER BY id`, productColumns)

	rows, err := r.pool.Query(ctx, query, productType, termMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by type: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// FindByRiskLevels returns products whose risk level is in levels,
// ordered by annual yield descending.
func (r *Repository) FindByRiskLevels(ctx context.Context, levels []contracts.RiskLevel) ([]contracts.Product, error) {
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = string(l)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE risk_level = ANY($1)
		ORDER BY annual_yield DESC, id`, productColumns)

	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by risk: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]contracts.Product, error) {
	var products []contracts.Product
	for rows.Next() {
		var p contracts.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Type, &p.AnnualYield, &p.Risk, &p.MinTermMonths, &p.LiquidityDays,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}
