package usecase

import (
	"context"
	"time"

	"suretyledger-service/internal/domain/entity"
)

// RegisterFlight creates a flight record keyed by the deterministic hash of
// (caller, flightID, timestamp). Re-registering the same triple overwrites
// the prior record; key derivation is the only uniqueness there is.
func (e *Engine) RegisterFlight(ctx context.Context, caller, flightID string, timestamp int64) error {
	return e.run(ctx, "register_flight", func() error {
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireAirlineState(caller, entity.AirlineActived); err != nil {
			return err
		}
		key := entity.FlightKey(caller, flightID, timestamp)
		e.store.PutFlight(entity.Flight{
			Key:        key,
			FlightID:   flightID,
			Airline:    caller,
			Timestamp:  timestamp,
			Registered: true,
			UpdatedAt:  time.Now().UTC(),
		})
		e.emit(entity.Event{Type: entity.EventFlightRegistered, Airline: caller, FlightKey: key})
		e.logger.Info("Flight registered", "airline", caller, "flightId", flightID, "flightKey", key)
		return nil
	})
}

// FlightOf returns the flight record for (airline, flightID, timestamp).
func (e *Engine) FlightOf(airline, flightID string, timestamp int64) (entity.Flight, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Flight(entity.FlightKey(airline, flightID, timestamp))
}
