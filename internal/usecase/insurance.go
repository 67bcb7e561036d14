package usecase

import (
	"context"
	"time"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/errs"
)

// BuyInsurance records a passenger's insurance position on a flight key.
// The flight record is created lazily if the airline has not registered it
// yet. One position per buyer per flight; payments must be positive and at
// most the cap.
func (e *Engine) BuyInsurance(ctx context.Context, caller, airline, flightID string, timestamp int64, payment int64) error {
	return e.run(ctx, "buy_insurance", func() error {
		token := e.store.EnterGuard()
		if err := e.requireOperational(); err != nil {
			return err
		}
		if payment <= 0 {
			return errs.ErrInvalidPayment
		}
		if payment > e.insuranceCap {
			return errs.ErrExcessPayment
		}
		key := entity.FlightKey(airline, flightID, timestamp)
		flight, ok := e.store.Flight(key)
		if !ok {
			flight = entity.Flight{Key: key, FlightID: flightID, Airline: airline, Timestamp: timestamp}
		}
		if flight.Processed {
			return errs.ErrFlightAlreadyProcessed
		}
		if flight.HasInsuree(caller) {
			return errs.ErrAlreadyPurchased
		}
		flight = flight.WithInsuree(caller)
		flight.UpdatedAt = time.Now().UTC()
		e.store.PutFlight(flight)
		e.store.PutPosition(key, caller, payment)

		if e.store.GuardMoved(token) {
			return errs.ErrReentrancyDetected
		}
		e.emit(entity.Event{
			Type:      entity.EventInsuranceBought,
			Airline:   airline,
			FlightKey: key,
			Principal: caller,
			Amount:    payment,
		})
		e.logger.Info("Insurance bought", "buyer", caller, "flightKey", key, "amount", payment)
		return nil
	})
}

// ProcessFlightStatus records the oracle-confirmed outcome of a flight. Only
// the authorized orchestration collaborator may call it, and only once per
// flight key: setting the processed flag is the idempotent barrier that makes
// double-crediting impossible. When the delay is the airline's fault, every
// insuree is credited floor(amount*3/2).
func (e *Engine) ProcessFlightStatus(ctx context.Context, caller, airline, flightID string, timestamp int64, statusCode uint8, airlineFault bool) error {
	return e.run(ctx, "process_flight_status", func() error {
		if err := e.requireOperational(); err != nil {
			return err
		}
		if err := e.requireAuthorized(caller); err != nil {
			return err
		}
		key := entity.FlightKey(airline, flightID, timestamp)
		flight, ok := e.store.Flight(key)
		if !ok {
			flight = entity.Flight{Key: key, FlightID: flightID, Airline: airline, Timestamp: timestamp}
		}
		if flight.Processed {
			return errs.ErrFlightAlreadyProcessed
		}
		flight.StatusCode = statusCode
		flight.Processed = true
		flight.UpdatedAt = time.Now().UTC()
		e.store.PutFlight(flight)

		if airlineFault {
			for _, insuree := range flight.Insurees {
				amount := e.store.Position(key, insuree)
				credit := entity.FaultPayout(amount)
				e.store.SetCredit(insuree, e.store.Credit(insuree)+credit)
				e.emit(entity.Event{
					Type:      entity.EventInsureeCredited,
					Airline:   airline,
					FlightKey: key,
					Principal: insuree,
					Amount:    credit,
				})
			}
		}
		e.emit(entity.Event{Type: entity.EventFlightProcessed, Airline: airline, FlightKey: key})
		e.logger.Info("Flight status processed", "flightKey", key,
			"statusCode", statusCode, "airlineFault", airlineFault, "insurees", len(flight.Insurees))
		return nil
	})
}
