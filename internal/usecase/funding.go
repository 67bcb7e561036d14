package usecase

import (
	"context"
	"time"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// SubmitFund stakes the caller's collateral and promotes it from Registered
// to Actived. Any payment above the minimum stake is refunded through the
// transfer port; because that refund can synchronously re-enter the engine,
// the whole operation runs under the reentrancy guard and all bookkeeping
// happens before the outward transfer.
func (e *Engine) SubmitFund(ctx context.Context, caller string, payment int64) error {
	return e.run(ctx, "submit_fund", func() error {
		token := e.store.EnterGuard()
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireAirlineState(caller, entity.AirlineRegistered); err != nil {
			return err
		}
		if payment < e.minStake {
			return errs.ErrInsufficientStake
		}

		airline, _ := e.store.Airline(caller)
		airline.StakedFund = e.minStake
		airline.State = entity.AirlineActived
		airline.UpdatedAt = time.Now().UTC()
		e.store.PutAirline(airline)
		e.store.IncTotalActived()

		if excess := payment - e.minStake; excess > 0 {
			if err := e.treasury.Transfer(ctx, caller, excess); err != nil {
				return err
			}
		}
		if e.store.GuardMoved(token) {
			return errs.ErrReentrancyDetected
		}

		e.emit(entity.Event{Type: entity.EventAirlineActived, Airline: caller, Amount: e.minStake})
		e.logger.Info("Airline activated", "address", caller,
			"stake", e.minStake, "totalActived", e.store.TotalActivedAirlines())
		return nil
	})
}
