package usecase_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// creditedEnv sets up a passenger holding a 150-unit credit after an
// airline-fault flight.
func creditedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := flightEnv(t)
	ctx := context.Background()
	require.NoError(t, env.engine.BuyInsurance(ctx, "pax", "A1", "F", flightTS, 100))
	require.NoError(t, env.engine.ProcessFlightStatus(ctx, "orchestrator", "A1", "F", flightTS, 20, true))
	require.Equal(t, int64(150), env.engine.CreditOf("pax"))
	return env
}

func TestWithdraw(t *testing.T) {
	t.Run("pays the full balance and zeroes it", func(t *testing.T) {
		env := creditedEnv(t)

		paid, err := env.engine.Withdraw(context.Background(), "pax")
		require.NoError(t, err)
		assert.Equal(t, int64(150), paid)
		assert.Equal(t, int64(0), env.engine.CreditOf("pax"))
		assert.Contains(t, env.treasury.transfers, transferCall{To: "pax", Amount: 150})
	})

	t.Run("rejects a caller with no positive credit", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.engine.Withdraw(context.Background(), "pax")
		assert.ErrorIs(t, err, errs.ErrNoPositiveCredit)
	})

	t.Run("rejects a second withdrawal", func(t *testing.T) {
		env := creditedEnv(t)
		ctx := context.Background()

		_, err := env.engine.Withdraw(ctx, "pax")
		require.NoError(t, err)
		_, err = env.engine.Withdraw(ctx, "pax")
		assert.ErrorIs(t, err, errs.ErrNoPositiveCredit)
	})

	t.Run("reentrant withdrawal is rejected and the outer one rolled back", func(t *testing.T) {
		env := creditedEnv(t)
		ctx := context.Background()

		var nestedErr error
		env.treasury.hook = func(ctx context.Context, to string, amount int64) error {
			env.treasury.hook = nil
			// The balance is already zero in the ledger at this point, so the
			// nested attempt fails the positive-balance precondition.
			_, nestedErr = env.engine.Withdraw(ctx, "pax")
			return nil
		}

		_, err := env.engine.Withdraw(ctx, "pax")
		assert.ErrorIs(t, err, errs.ErrReentrancyDetected)
		assert.ErrorIs(t, nestedErr, errs.ErrNoPositiveCredit)

		// The balance is back at its pre-withdrawal value, not partially spent.
		assert.Equal(t, int64(150), env.engine.CreditOf("pax"))
		assert.Empty(t, env.notifier.ofType(entity.EventCreditPayout))
	})

	t.Run("nested guarded purchase during the payout is discarded with the outer call", func(t *testing.T) {
		env := creditedEnv(t)
		ctx := context.Background()

		env.treasury.hook = func(ctx context.Context, to string, amount int64) error {
			env.treasury.hook = nil
			return env.engine.BuyInsurance(ctx, "pax", "A1", "G", flightTS, 100)
		}

		_, err := env.engine.Withdraw(ctx, "pax")
		assert.ErrorIs(t, err, errs.ErrReentrancyDetected)

		// The nested purchase committed inside the outer window is gone too.
		_, ok := env.engine.FlightOf("A1", "G", flightTS)
		assert.False(t, ok)
		assert.Equal(t, int64(150), env.engine.CreditOf("pax"))
	})

	t.Run("failed transfer restores the balance", func(t *testing.T) {
		env := creditedEnv(t)

		env.treasury.hook = func(context.Context, string, int64) error {
			return context.DeadlineExceeded
		}
		_, err := env.engine.Withdraw(context.Background(), "pax")
		assert.Error(t, err)
		assert.Equal(t, int64(150), env.engine.CreditOf("pax"))
	})

	t.Run("payout counter moves only when the payout commits", func(t *testing.T) {
		env := creditedEnv(t)
		ctx := context.Background()

		env.treasury.hook = func(context.Context, string, int64) error {
			return context.DeadlineExceeded
		}
		_, err := env.engine.Withdraw(ctx, "pax")
		require.Error(t, err)
		assert.Equal(t, float64(0), testutil.ToFloat64(env.metrics.PayoutsTotal))

		env.treasury.hook = nil
		_, err = env.engine.Withdraw(ctx, "pax")
		require.NoError(t, err)
		assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.PayoutsTotal))
	})
}
