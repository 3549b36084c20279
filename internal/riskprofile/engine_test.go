package riskprofile

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
	return nil, nil
}

func (s *stubCatalog) FindByRiskLevels(ctx context.Context, levels []contracts.RiskLevel) ([]contracts.Product, error) {
	return s.products, s.err
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func historyColumns() []string {
	return []string{"id", "client_id", "product_id", "product_type", "annual_yield", "amount", "effectuated_at"}
}

func newMockEngine(t *testing.T, catalog contracts.ProductCatalog) (*Engine, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	engine := NewEngine(mock, catalog, nil, testLogger())
	engine.now = func() time.Time { return scoringNow }
	return engine, mock
}

func TestComputeProfile_NoHistory(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{})

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(LockKey(42)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT (.+) FROM investment_history`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(historyColumns()))
	mock.ExpectExec(`INSERT INTO client_risk_profiles`).
		WithArgs(int64(42), "Conservative", 20, scoringNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	profile, err := engine.ComputeProfile(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), profile.ClientID)
	assert.Equal(t, contracts.TierConservative, profile.Tier)
	assert.Equal(t, 20, profile.Score)
	assert.Equal(t, noteNoHistory, profile.Explanation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeProfile_WithHistory(t *testing.T) {
	catalog := &stubCatalog{products: []contracts.Product{
		{ID: 101, Type: "CDB", AnnualYield: 0.12, LiquidityDays: 1, Risk: contracts.RiskLow},
	}}
	engine, mock := newMockEngine(t, catalog)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(LockKey(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT (.+) FROM investment_history`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(historyColumns()).
			AddRow(int64(1), int64(7), int64(101), "CDB", 0.12, 10_000.0, scoringNow.AddDate(0, -6, 0)))
	mock.ExpectExec(`INSERT INTO client_risk_profiles`).
		WithArgs(int64(7), "Moderate", 110, scoringNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	profile, err := engine.ComputeProfile(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, contracts.TierModerate, profile.Tier)
	assert.Equal(t, 110, profile.Score)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeProfile_InvalidClientID(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{})

	_, err := engine.ComputeProfile(context.Background(), 0)
	assert.True(t, contracts.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeProfile_CatalogError(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{err: errors.New("catalog unavailable")})

	_, err := engine.ComputeProfile(context.Background(), 42)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeProfile_UpsertFailureRollsBack(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{})

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(LockKey(42)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT (.+) FROM investment_history`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(historyColumns()))
	mock.ExpectExec(`INSERT INTO client_risk_profiles`).
		WithArgs(int64(42), "Conservative", 20, scoringNow).
		WillReturnError(errors.New("write failed"))
	mock.ExpectRollback()

	_, err := engine.ComputeProfile(context.Background(), 42)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_EnrichesWithTrend(t *testing.T) {
	engine, mock := newMockEngine(t, &stubCatalog{})

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(LockKey(42)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT (.+) FROM investment_history`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(historyColumns()))
	mock.ExpectExec(`INSERT INTO client_risk_profiles`).
		WithArgs(int64(42), "Conservative", 20, scoringNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	view, err := engine.GetProfile(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, contracts.TierConservative, view.Tier)
	assert.Equal(t, contracts.TierConservative, view.MostLikelyNextTier)
	assert.InDelta(t, 0.80, view.TrendDistribution[contracts.TierConservative], 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}
