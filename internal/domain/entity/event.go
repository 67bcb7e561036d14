package entity

import "time"

// EventType identifies a ledger notification.
type EventType string

const (
	EventAirlineRegistering EventType = "AirlineRegistering"
	EventAirlineRegistered  EventType = "AirlineRegistered"
	EventAirlineActived     EventType = "AirlineActived"
	EventFlightRegistered   EventType = "FlightRegistered"
	EventInsuranceBought    EventType = "InsuranceBought"
	EventFlightProcessed    EventType = "FlightProcessed"
	EventInsureeCredited    EventType = "InsureeCredited"
	EventCreditPayout       EventType = "CreditPayout"
)

// Event is the observable side effect of a committed mutation. Events are
// buffered while an operation is in flight and published only after the
// operation commits.
type Event struct {
	ID        string
	Type      EventType
	Airline   string
	FlightKey string
	Principal string
	Amount    int64
	At        time.Time
}
