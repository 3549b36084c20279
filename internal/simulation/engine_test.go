package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/logger"
)

var simulationNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type stubCatalog struct {
	products []contracts.Product
	err      error
}

func (s *stubCatalog) GetAll(ctx context.Context) ([]contracts.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) GetByID(ctx context.Context, id int64) (*contracts.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, &contracts.NotFoundError{Resource: "product", ID: id}
}

func (s *stubCatalog) FindByTypeAndMinTerm(ctx context.Context, productType string, termMonths int) ([]contracts.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) FindByRiskLevels(ctx context.Context, levels []contracts.RiskLevel) ([]contracts.Product, error) {
	return s.products, s.err
}

type stubRegistry struct {
	ensured []int64
	err     error
}

func (s *stubRegistry) EnsureExists(ctx context.Context, clientID int64) (*contracts.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.ensured = append(s.ensured, clientID)
	return &contracts.Client{ID: clientID}, nil
}

func (s *stubRegistry) GetByID(ctx context.Context, clientID int64) (*contracts.Client, error) {
	return &contracts.Client{ID: clientID}, nil
}

func (s *stubRegistry) List(ctx context.Context) ([]contracts.Client, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func newMockEngine(t *testing.T, catalog *stubCatalog, registry *stubRegistry) (*Engine, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	engine := NewEngine(NewRepository(mock), catalog, registry, testLogger())
	engine.now = func() time.Time { return simulationNow }
	return engine, mock
}

func TestSimulate(t *testing.T) {
	catalog := &stubCatalog{products: []contracts.Product{
		{ID: 101, Name: "CDB Caixa Liquidez Diária", Type: "CDB", AnnualYield: 0.105, MinTermMonths: 6},
	}}
	registry := &stubRegistry{}
	engine, mock := newMockEngine(t, catalog, registry)

	mock.ExpectQuery(`INSERT INTO simulations`).
		WithArgs(int64(42), int64(101), 10_000.0, 10_525.0, 6, simulationNow).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	result, err := engine.Simulate(context.Background(), SimulateRequest{
		ClientID: 42, Amount: 10_000, TermMonths: 6, ProductType: "CDB",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.SimulationID)
	assert.Equal(t, int64(101), result.Product.ID)
	assert.Equal(t, 10_525.0, result.FinalValue)
	assert.Equal(t, simulationNow, result.CreatedAt)
	assert.Equal(t, []int64{42}, registry.ensured)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulate_Validation(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{}, &stubRegistry{})

	tests := []struct {
		name  string
		req   SimulateRequest
		field string
	}{
		{"zero client", SimulateRequest{ClientID: 0, Amount: 100, TermMonths: 6, ProductType: "CDB"}, "clientId"},
		{"negative amount", SimulateRequest{ClientID: 1, Amount: -5, TermMonths: 6, ProductType: "CDB"}, "amount"},
		{"zero term", SimulateRequest{ClientID: 1, Amount: 100, TermMonths: 0, ProductType: "CDB"}, "termMonths"},
		{"blank type", SimulateRequest{ClientID: 1, Amount: 100, TermMonths: 6, ProductType: "   "}, "productType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Simulate(context.Background(), tt.req)
			require.Error(t, err)

			var ve *contracts.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulate_NoCompatibleProduct(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{}, &stubRegistry{})

	_, err := engine.Simulate(context.Background(), SimulateRequest{
		ClientID: 42, Amount: 1_000, TermMonths: 1, ProductType: "Debênture",
	})
	assert.ErrorIs(t, err, contracts.ErrNoCompatibleProduct)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulate_RegistryFailure(t *testing.T) {
	registry := &stubRegistry{err: errors.New("db down")}
	engine, mock := newMockEngine(t, &stubCatalog{}, registry)

	_, err := engine.Simulate(context.Background(), SimulateRequest{
		ClientID: 42, Amount: 1_000, TermMonths: 6, ProductType: "CDB",
	})
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectProduct(t *testing.T) {
	tests := []struct {
		name       string
		candidates []contracts.Product
		wantID     int64
	}{
		{
			"highest yield wins",
			[]contracts.Product{
				{ID: 101, AnnualYield: 0.105},
				{ID: 103, AnnualYield: 0.11},
			},
			103,
		},
		{
			"yield tie resolves to lowest id",
			[]contracts.Product{
				{ID: 202, AnnualYield: 0.12},
				{ID: 104, AnnualYield: 0.12},
			},
			104,
		},
		{
			"order independent",
			[]contracts.Product{
				{ID: 104, AnnualYield: 0.12},
				{ID: 202, AnnualYield: 0.12},
				{ID: 301, AnnualYield: 0.10},
			},
			104,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantID, selectProduct(tt.candidates).ID)
		})
	}
}

func TestProjectedValue(t *testing.T) {
	tests := []struct {
		amount float64
		yield  float64
		months int
		want   float64
	}{
		{10_000, 0.105, 6, 10_525.00},
		{10_000, 0.12, 12, 11_200.00},
		{1_000, 0.11, 12, 1_110.00},
		{1_000, 0.25, 1, 1_020.83},
		{5_000, 0.10, 36, 6_500.00},
		{0.01, 0.18, 6, 0.01},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProjectedValue(tt.amount, tt.yield, tt.months),
			"amount=%v yield=%v months=%d", tt.amount, tt.yield, tt.months)
	}
}
