package usecase

import (
	"context"
	"time"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// bootstrapAirlineLimit is the active-airline population below which a single
// approval is enough to register a new airline.
const bootstrapAirlineLimit = 4

// RegisterAirline creates a new airline in Registering state with the caller
// as its first approver, then assesses consensus immediately. While the
// active population is at most four, the single approval registers it on the
// spot.
func (e *Engine) RegisterAirline(ctx context.Context, caller, newAddress, name string) error {
	return e.run(ctx, "register_airline", func() error {
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireAirlineState(caller, entity.AirlineActived); err != nil {
			return err
		}
		if _, exists := e.store.Airline(newAddress); exists {
			return errs.ErrDuplicateAirline
		}
		now := time.Now().UTC()
		e.store.PutAirline(entity.Airline{
			Address:   newAddress,
			Name:      name,
			State:     entity.AirlineRegistering,
			Approvals: []string{caller},
			CreatedAt: now,
			UpdatedAt: now,
		})
		e.logger.Info("Airline registration requested",
			"address", newAddress, "name", name, "sponsor", caller)
		e.assessRegistration(newAddress)
		return nil
	})
}

// ApproveRegistration records the caller's vote for a pending airline and
// re-assesses consensus.
func (e *Engine) ApproveRegistration(ctx context.Context, caller, airlineAddress string) error {
	return e.run(ctx, "approve_registration", func() error {
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireAirlineState(caller, entity.AirlineActived); err != nil {
			return err
		}
		airline, ok := e.store.Airline(airlineAddress)
		if !ok {
			return errs.ErrUnknownAirline
		}
		if airline.HasApproval(caller) {
			return errs.ErrAlreadyApproved
		}
		airline = airline.WithApproval(caller)
		airline.UpdatedAt = time.Now().UTC()
		e.store.PutAirline(airline)
		e.logger.Info("Registration approved",
			"address", airlineAddress, "approver", caller, "approvals", len(airline.Approvals))
		e.assessRegistration(airlineAddress)
		return nil
	})
}

// assessRegistration applies the majority-of-active-airlines rule after every
// approval change. The threshold is evaluated against the live active count,
// not a snapshot taken at registration time, so activations that land while
// an airline is mid-vote can raise its bar.
func (e *Engine) assessRegistration(address string) {
	airline, ok := e.store.Airline(address)
	if !ok {
		return
	}
	n := e.store.TotalActivedAirlines()
	if n <= bootstrapAirlineLimit || len(airline.Approvals)*2 >= n {
		if airline.State == entity.AirlineRegistering {
			airline.State = entity.AirlineRegistered
			airline.UpdatedAt = time.Now().UTC()
			e.store.PutAirline(airline)
		}
		e.emit(entity.Event{Type: entity.EventAirlineRegistered, Airline: address})
		e.logger.Info("Airline registered", "address", address, "approvals", len(airline.Approvals))
		return
	}
	e.emit(entity.Event{Type: entity.EventAirlineRegistering, Airline: address})
	e.logger.Info("Airline still pending consensus",
		"address", address, "approvals", len(airline.Approvals), "activeAirlines", n)
}

// IsAirline reports whether addr has an airline record in any state.
func (e *Engine) IsAirline(addr string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.store.Airline(addr)
	return ok
}

// AirlineOf returns the airline record for addr.
func (e *Engine) AirlineOf(addr string) (entity.Airline, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Airline(addr)
}

// TotalActivedAirlines returns the count of airlines in Actived state.
func (e *Engine) TotalActivedAirlines() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.TotalActivedAirlines()
}
