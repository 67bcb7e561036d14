package usecase

import (
	"context"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// requireOperational is the first precondition of every mutating operation
// except the operational switch itself.
func (e *Engine) requireOperational() error {
	if !e.store.Operational() {
		return errs.ErrNotOperational
	}
	return nil
}

func (e *Engine) requireOwner(caller string) error {
	if caller != e.store.Owner() {
		return errs.ErrNotOwner
	}
	return nil
}

func (e *Engine) requireAuthorized(caller string) error {
	if !e.store.IsAuthorized(caller) {
		return errs.ErrNotAuthorizedCaller
	}
	return nil
}

// requireAirlineState checks that caller is a known airline in exactly the
// given state.
func (e *Engine) requireAirlineState(caller string, state entity.AirlineState) error {
	airline, ok := e.store.Airline(caller)
	if !ok || airline.State != state {
		return errs.ErrInvalidCallerState
	}
	return nil
}

// SetOperationalStatus toggles the global circuit breaker. Owner-only and
// deliberately not gated by the flag itself, so the owner can always recover
// a paused contract.
func (e *Engine) SetOperationalStatus(ctx context.Context, caller string, mode bool) error {
	return e.run(ctx, "set_operational", func() error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		e.store.SetOperational(mode)
		e.logger.Info("Operational status changed", "mode", mode)
		return nil
	})
}

// AuthorizeCaller adds addr to the authorized-caller allow-list. Idempotent.
func (e *Engine) AuthorizeCaller(ctx context.Context, caller, addr string) error {
	return e.run(ctx, "authorize_caller", func() error {
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		e.store.Authorize(addr)
		e.logger.Info("Caller authorized", "address", addr)
		return nil
	})
}

// DeauthorizeCaller removes addr from the authorized-caller allow-list.
// Idempotent.
func (e *Engine) DeauthorizeCaller(ctx context.Context, caller, addr string) error {
	return e.run(ctx, "deauthorize_caller", func() error {
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		e.store.Deauthorize(addr)
		e.logger.Info("Caller deauthorized", "address", addr)
		return nil
	})
}

// IsOperational reports the circuit-breaker flag.
func (e *Engine) IsOperational() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Operational()
}
