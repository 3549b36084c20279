package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/logger"
)

// SimulateRequest carries the parameters of an investment projection.
type SimulateRequest struct {
	ClientID    int64   `json:"client_id"`
	Amount      float64 `json:"amount"`
	TermMonths  int     `json:"term_months"`
	ProductType string  `json:"product_type"`
}

// SimulateResult is the outcome of a simulation: the selected product
// and the projected value, plus the persisted simulation identity.
type SimulateResult struct {
	SimulationID int64             `json:"simulation_id"`
	Product      contracts.Product `json:"product"`
	Amount       float64           `json:"amount"`
	TermMonths   int               `json:"term_months"`
	FinalValue   float64           `json:"final_value"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Engine runs investment simulations against the product catalog.
type Engine struct {
	repo    *Repository
	catalog contracts.ProductCatalog
	clients contracts.ClientRegistry
	logger  *logger.Logger
	now     func() time.Time
}

// NewEngine creates a new simulation engine.
func NewEngine(repo *Repository, catalog contracts.ProductCatalog, clients contracts.ClientRegistry, log *logger.Logger) *Engine {
	return &Engine{
		repo:    repo,
		catalog: catalog,
		clients: clients,
		logger:  log,
		now:     time.Now,
	}
}

// Simulate validates the request, selects the best-yielding compatible
// product, and persists an unexecuted simulation. The only side effects
// are the ensured client record and the new simulation row; history and
// profile are untouched.
func (e *Engine) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := e.clients.EnsureExists(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("failed to ensure client %d: %w", req.ClientID, err)
	}

	candidates, err := e.catalog.FindByTypeAndMinTerm(ctx, req.ProductType, req.TermMonths)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("type %q, term %d months: %w",
			req.ProductType, req.TermMonths, contracts.ErrNoCompatibleProduct)
	}

	product := selectProduct(candidates)
	finalValue := ProjectedValue(req.Amount, product.AnnualYield, req.TermMonths)

	sim := &contracts.Simulation{
		ClientID:   req.ClientID,
		ProductID:  product.ID,
		Amount:     req.Amount,
		FinalValue: finalValue,
		TermMonths: req.TermMonths,
		CreatedAt:  e.now(),
	}
	if err := e.repo.Create(ctx, sim); err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"client_id":     req.ClientID,
		"simulation_id": sim.ID,
		"product_id":    product.ID,
		"final_value":   finalValue,
	}).Debug("Simulation created")

	return &SimulateResult{
		SimulationID: sim.ID,
		Product:      product,
		Amount:       req.Amount,
		TermMonths:   req.TermMonths,
		FinalValue:   finalValue,
		CreatedAt:    sim.CreatedAt,
	}, nil
}

func validate(req SimulateRequest) error {
	if req.ClientID <= 0 {
		return contracts.NewValidationError("clientId", "must be greater than zero")
	}
	if req.Amount <= 0 {
		return contracts.NewValidationError("amount", "must be greater than zero")
	}
	if req.TermMonths <= 0 {
		return contracts.NewValidationError("termMonths", "must be greater than zero")
	}
	if strings.TrimSpace(req.ProductType) == "" {
		return contracts.NewValidationError("productType", "must not be blank")
	}
	return nil
}

// selectProduct picks the highest annual yield; ties resolve to the
// lowest product id so repeated requests always pick the same product.
func selectProduct(candidates []contracts.Product) contracts.Product {
	best := candidates[0]
	for _, p := range candidates[1:] {
		if p.AnnualYield > best.AnnualYield ||
			(p.AnnualYield == best.AnnualYield && p.ID < best.ID) {
			best = p
		}
	}
	return best
}

// ProjectedValue computes round(amount * (1 + yield * months/12), 2)
// with decimal arithmetic, avoiding float drift on the money boundary.
func ProjectedValue(amount, annualYield float64, termMonths int) float64 {
	growth := decimal.NewFromFloat(annualYield).
		Mul(decimal.NewFromInt(int64(termMonths))).
		Div(decimal.NewFromInt(12))

	value := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromInt(1).Add(growth)).
		Round(2)

	f, _ := value.Float64()
	return f
}
