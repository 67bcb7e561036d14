package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// activateFive builds the largest population that still registers airlines
// without a vote: A1 through A5 all Actived.
func activateFive(t *testing.T, env *testEnv) {
	t.Helper()
	env.bootstrapActived(t, "A1")
	for i := 2; i <= 5; i++ {
		env.addActived(t, "A1", fmt.Sprintf("A%d", i))
	}
	require.Equal(t, 5, env.engine.TotalActivedAirlines())
}

func TestRegisterAirline(t *testing.T) {
	t.Run("auto-registers while active population is small", func(t *testing.T) {
		env := newTestEnv(t)
		env.bootstrapActived(t, "A1")

		require.NoError(t, env.engine.RegisterAirline(context.Background(), "A1", "A2", "Second Air"))
		airline, ok := env.engine.AirlineOf("A2")
		require.True(t, ok)
		assert.Equal(t, entity.AirlineRegistered, airline.State)
		assert.Equal(t, []string{"A1"}, airline.Approvals)
	})

	t.Run("rejects duplicate address", func(t *testing.T) {
		env := newTestEnv(t)
		env.bootstrapActived(t, "A1")

		err := env.engine.RegisterAirline(context.Background(), "A1", "A1", "Clone Air")
		assert.ErrorIs(t, err, errs.ErrDuplicateAirline)
	})

	t.Run("rejects caller that is not actived", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.bootstrapActived(t, "A1")
		require.NoError(t, env.engine.RegisterAirline(ctx, "A1", "A2", "Second Air"))

		// A2 is Registered but has not staked.
		err := env.engine.RegisterAirline(ctx, "A2", "A3", "Third Air")
		assert.ErrorIs(t, err, errs.ErrInvalidCallerState)

		err = env.engine.RegisterAirline(ctx, "stranger", "A3", "Third Air")
		assert.ErrorIs(t, err, errs.ErrInvalidCallerState)
	})
}

func TestApproveRegistration(t *testing.T) {
	t.Run("majority of six actives needs three approvals", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		activateFive(t, env)
		// Sixth active airline: at n=5 it needs three approvals.
		env.addActived(t, "A1", "A6", "A2", "A3")
		require.Equal(t, 6, env.engine.TotalActivedAirlines())

		require.NoError(t, env.engine.RegisterAirline(ctx, "A1", "A7", "Seventh Air"))
		airline, _ := env.engine.AirlineOf("A7")
		assert.Equal(t, entity.AirlineRegistering, airline.State)

		// Two approvals: 2*2 < 6, still pending.
		require.NoError(t, env.engine.ApproveRegistration(ctx, "A2", "A7"))
		airline, _ = env.engine.AirlineOf("A7")
		assert.Equal(t, entity.AirlineRegistering, airline.State)

		// Third approval: 3*2 >= 6, registered.
		require.NoError(t, env.engine.ApproveRegistration(ctx, "A3", "A7"))
		airline, _ = env.engine.AirlineOf("A7")
		assert.Equal(t, entity.AirlineRegistered, airline.State)
		assert.Equal(t, []string{"A1", "A2", "A3"}, airline.Approvals)
	})

	t.Run("rejects duplicate approver", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		activateFive(t, env)

		require.NoError(t, env.engine.RegisterAirline(ctx, "A1", "A6", "Sixth Air"))
		err := env.engine.ApproveRegistration(ctx, "A1", "A6")
		assert.ErrorIs(t, err, errs.ErrAlreadyApproved)
	})

	t.Run("rejects unknown airline", func(t *testing.T) {
		env := newTestEnv(t)
		env.bootstrapActived(t, "A1")

		err := env.engine.ApproveRegistration(context.Background(), "A1", "ghost")
		assert.ErrorIs(t, err, errs.ErrUnknownAirline)
	})

	t.Run("threshold rises with later activations", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		activateFive(t, env)

		// P starts its vote at n=5, where three approvals would suffice.
		require.NoError(t, env.engine.RegisterAirline(ctx, "A1", "P", "Pending Air"))
		require.NoError(t, env.engine.ApproveRegistration(ctx, "A2", "P"))

		// Two more airlines activate while P is mid-vote.
		env.addActived(t, "A1", "A6", "A2", "A3")
		env.addActived(t, "A1", "A7", "A2", "A3")
		require.Equal(t, 7, env.engine.TotalActivedAirlines())

		// The third approval no longer clears the bar: 3*2 < 7.
		require.NoError(t, env.engine.ApproveRegistration(ctx, "A3", "P"))
		airline, _ := env.engine.AirlineOf("P")
		assert.Equal(t, entity.AirlineRegistering, airline.State)

		// A fourth approval does.
		require.NoError(t, env.engine.ApproveRegistration(ctx, "A4", "P"))
		airline, _ = env.engine.AirlineOf("P")
		assert.Equal(t, entity.AirlineRegistered, airline.State)
	})
}

func TestAirlineStateIsMonotonic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.bootstrapActived(t, "A1")
	env.addActived(t, "A1", "A2")

	// Approvals landing after registration never regress the state.
	env.addActived(t, "A1", "A3")
	require.NoError(t, env.engine.ApproveRegistration(ctx, "A2", "A3"))
	airline, _ := env.engine.AirlineOf("A3")
	assert.Equal(t, entity.AirlineActived, airline.State)
}

func TestTotalActivedMatchesActivedCount(t *testing.T) {
	env := newTestEnv(t)
	env.bootstrapActived(t, "A1")
	env.addActived(t, "A1", "A2")
	env.addActived(t, "A1", "A3")

	actived := 0
	for _, addr := range []string{"A1", "A2", "A3"} {
		if airline, ok := env.engine.AirlineOf(addr); ok && airline.State == entity.AirlineActived {
			actived++
		}
	}
	assert.Equal(t, actived, env.engine.TotalActivedAirlines())
}
