package investment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/riskprofile"
	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/logger"
)

var batchNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type stubProfiles struct {
	calls   int
	profile *contracts.RiskProfile
	err     error
}

func (s *stubProfiles) ComputeProfile(ctx context.Context, clientID int64) (*contracts.RiskProfile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func newMockOrchestrator(t *testing.T, profiles *stubProfiles) (*Orchestrator, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	orch := NewOrchestrator(mock, profiles, testLogger())
	orch.now = func() time.Time { return batchNow }
	return orch, mock
}

func simulationColumns() []string {
	return []string{"id", "product_id", "amount", "effectuated", "type", "annual_yield"}
}

func expectLock(mock pgxmock.PgxPoolIface, clientID int64) {
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(riskprofile.LockKey(clientID)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func TestEffectivize_MixedBatch(t *testing.T) {
	profiles := &stubProfiles{profile: &contracts.RiskProfile{
		ClientID: 42, Tier: contracts.TierModerate, Score: 110, UpdatedAt: batchNow,
	}}
	orch, mock := newMockOrchestrator(t, profiles)

	mock.ExpectBegin()
	expectLock(mock, 42)

	// id 1: pending, gets effectuated
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()).
			AddRow(int64(1), int64(101), 10_000.0, false, "CDB", 0.105))
	mock.ExpectExec(`UPDATE simulations SET effectuated = true`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO investment_history`).
		WithArgs(int64(42), int64(101), "CDB", 0.105, 10_000.0, batchNow).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(500)))

	// id 2: already effectuated
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(2), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()).
			AddRow(int64(2), int64(301), 5_000.0, true, "Fundo Multimercado", 0.18))

	// id 3: not found
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(3), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()))

	mock.ExpectCommit()

	result, err := orch.Effectivize(context.Background(), 42, []int64{1, 2, 3})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []int64{1}, result.Effectuated)
	assert.Equal(t, []int64{2}, result.AlreadyEffectuated)
	assert.Equal(t, []int64{3}, result.NotFound)
	require.NotNil(t, result.Profile)
	assert.Equal(t, contracts.TierModerate, result.Profile.Tier)
	assert.Equal(t, 1, profiles.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivize_TwoValidSimulations(t *testing.T) {
	profiles := &stubProfiles{profile: &contracts.RiskProfile{
		ClientID: 42, Tier: contracts.TierModerate, Score: 120, UpdatedAt: batchNow,
	}}
	orch, mock := newMockOrchestrator(t, profiles)

	mock.ExpectBegin()
	expectLock(mock, 42)

	for i, sim := range []struct {
		id        int64
		productID int64
		amount    float64
	}{
		{1, 101, 10_000.0},
		{2, 301, 5_000.0},
	} {
		yield := []float64{0.105, 0.18}[i]
		productType := []string{"CDB", "Fundo Multimercado"}[i]

		mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
			WithArgs(sim.id, int64(42)).
			WillReturnRows(pgxmock.NewRows(simulationColumns()).
				AddRow(sim.id, sim.productID, sim.amount, false, productType, yield))
		mock.ExpectExec(`UPDATE simulations SET effectuated = true`).
			WithArgs(sim.id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(`INSERT INTO investment_history`).
			WithArgs(int64(42), sim.productID, productType, yield, sim.amount, batchNow).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(sim.id + 500))
	}

	mock.ExpectCommit()

	result, err := orch.Effectivize(context.Background(), 42, []int64{1, 2})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []int64{1, 2}, result.Effectuated)
	assert.Empty(t, result.AlreadyEffectuated)
	assert.Empty(t, result.NotFound)
	require.NotNil(t, result.Profile)
	assert.Equal(t, 1, profiles.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivize_AllNotFound(t *testing.T) {
	profiles := &stubProfiles{}
	orch, mock := newMockOrchestrator(t, profiles)

	mock.ExpectBegin()
	expectLock(mock, 42)
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(9), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()))
	mock.ExpectRollback()

	result, err := orch.Effectivize(context.Background(), 42, []int64{9})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "no valid simulations to effectivize", result.Message)
	assert.Equal(t, []int64{9}, result.NotFound)
	assert.Nil(t, result.Profile)
	assert.Equal(t, 0, profiles.calls, "no mutation, no recomputation")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivize_AllAlreadyEffectuated(t *testing.T) {
	profiles := &stubProfiles{}
	orch, mock := newMockOrchestrator(t, profiles)

	mock.ExpectBegin()
	expectLock(mock, 42)
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()).
			AddRow(int64(1), int64(101), 10_000.0, true, "CDB", 0.105))
	mock.ExpectRollback()

	result, err := orch.Effectivize(context.Background(), 42, []int64{1})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "all simulations were already effectuated", result.Message)
	assert.Equal(t, []int64{1}, result.AlreadyEffectuated)
	assert.Equal(t, 0, profiles.calls, "idempotent replay must not rescore")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivize_StoreFaultRollsBack(t *testing.T) {
	profiles := &stubProfiles{}
	orch, mock := newMockOrchestrator(t, profiles)

	mock.ExpectBegin()
	expectLock(mock, 42)
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()).
			AddRow(int64(1), int64(101), 10_000.0, false, "CDB", 0.105))
	mock.ExpectExec(`UPDATE simulations SET effectuated = true`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := orch.Effectivize(context.Background(), 42, []int64{1})
	assert.Error(t, err)
	assert.Equal(t, 0, profiles.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivize_DuplicateIDsInBatch(t *testing.T) {
	profiles := &stubProfiles{profile: &contracts.RiskProfile{
		ClientID: 42, Tier: contracts.TierConservative, Score: 20,
	}}
	orch, mock := newMockOrchestrator(t, profiles)

	mock.ExpectBegin()
	expectLock(mock, 42)

	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()).
			AddRow(int64(1), int64(101), 10_000.0, false, "CDB", 0.105))
	mock.ExpectExec(`UPDATE simulations SET effectuated = true`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO investment_history`).
		WithArgs(int64(42), int64(101), "CDB", 0.105, 10_000.0, batchNow).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(500)))

	// Second occurrence reads the in-transaction flip.
	mock.ExpectQuery(`SELECT s.id, s.product_id(.+)FROM simulations`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(simulationColumns()).
			AddRow(int64(1), int64(101), 10_000.0, true, "CDB", 0.105))

	mock.ExpectCommit()

	result, err := orch.Effectivize(context.Background(), 42, []int64{1, 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, result.Effectuated)
	assert.Equal(t, []int64{1}, result.AlreadyEffectuated)
	assert.Equal(t, 1, profiles.calls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivize_Validation(t *testing.T) {
	orch, mock := newMockOrchestrator(t, &stubProfiles{})

	_, err := orch.Effectivize(context.Background(), 0, []int64{1})
	assert.True(t, contracts.IsValidation(err))

	_, err = orch.Effectivize(context.Background(), 42, nil)
	assert.True(t, contracts.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
