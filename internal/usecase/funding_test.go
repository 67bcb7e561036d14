package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

func TestSubmitFund(t *testing.T) {
	t.Run("activates a registered airline at minimum stake", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		require.NoError(t, env.engine.Bootstrap(ctx, "A1", "First Air"))

		require.NoError(t, env.engine.SubmitFund(ctx, "A1", minStake))

		airline, _ := env.engine.AirlineOf("A1")
		assert.Equal(t, entity.AirlineActived, airline.State)
		assert.Equal(t, int64(minStake), airline.StakedFund)
		assert.Equal(t, 1, env.engine.TotalActivedAirlines())
		assert.Empty(t, env.treasury.transfers, "exact stake needs no refund")
	})

	t.Run("refunds the excess above the minimum", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		require.NoError(t, env.engine.Bootstrap(ctx, "A1", "First Air"))

		require.NoError(t, env.engine.SubmitFund(ctx, "A1", minStake+250_000))

		airline, _ := env.engine.AirlineOf("A1")
		assert.Equal(t, int64(minStake), airline.StakedFund, "stake is fixed at the minimum")
		require.Len(t, env.treasury.transfers, 1)
		assert.Equal(t, transferCall{To: "A1", Amount: 250_000}, env.treasury.transfers[0])
	})

	t.Run("rejects payment below the minimum", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		require.NoError(t, env.engine.Bootstrap(ctx, "A1", "First Air"))

		err := env.engine.SubmitFund(ctx, "A1", minStake-1)
		assert.ErrorIs(t, err, errs.ErrInsufficientStake)
		airline, _ := env.engine.AirlineOf("A1")
		assert.Equal(t, entity.AirlineRegistered, airline.State)
	})

	t.Run("rejects callers that are not registered", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.bootstrapActived(t, "A1")

		// Already Actived.
		err := env.engine.SubmitFund(ctx, "A1", minStake)
		assert.ErrorIs(t, err, errs.ErrInvalidCallerState)

		// Unknown principal.
		err = env.engine.SubmitFund(ctx, "stranger", minStake)
		assert.ErrorIs(t, err, errs.ErrInvalidCallerState)
		assert.Equal(t, 1, env.engine.TotalActivedAirlines())
	})

	t.Run("reentrant funding during the refund rolls everything back", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.bootstrapActived(t, "A1")
		require.NoError(t, env.engine.RegisterAirline(ctx, "A1", "A2", "Second Air"))
		require.NoError(t, env.engine.RegisterAirline(ctx, "A1", "A3", "Third Air"))

		// A2's refund transfer re-enters the engine to fund A3.
		env.treasury.hook = func(ctx context.Context, to string, amount int64) error {
			env.treasury.hook = nil
			_ = env.engine.SubmitFund(ctx, "A3", minStake)
			return nil
		}

		err := env.engine.SubmitFund(ctx, "A2", minStake+1)
		assert.ErrorIs(t, err, errs.ErrReentrancyDetected)

		// Both the outer activation and the nested one are discarded.
		a2, _ := env.engine.AirlineOf("A2")
		a3, _ := env.engine.AirlineOf("A3")
		assert.Equal(t, entity.AirlineRegistered, a2.State)
		assert.Equal(t, entity.AirlineRegistered, a3.State)
		assert.Equal(t, 1, env.engine.TotalActivedAirlines())
	})
}
