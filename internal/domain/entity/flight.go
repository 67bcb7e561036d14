package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Flight is a single insurable flight instance. The record is looked up
// exclusively by its derived key; there is no secondary index.
type Flight struct {
	Key        string    `bson:"_id"`
	FlightID   string    `bson:"flightId"`
	Airline    string    `bson:"airline"`
	Timestamp  int64     `bson:"timestamp"`
	Registered bool      `bson:"registered"`
	StatusCode uint8     `bson:"statusCode"`
	Processed  bool      `bson:"processed"`
	Insurees   []string  `bson:"insurees"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// HasInsuree reports whether buyer already holds a position on this flight.
func (f Flight) HasInsuree(buyer string) bool {
	for _, insuree := range f.Insurees {
		if insuree == buyer {
			return true
		}
	}
	return false
}

// WithInsuree returns a copy of the flight with buyer appended to its
// insurees, cloning the slice so the prior record stays intact for journal
// rollback.
func (f Flight) WithInsuree(buyer string) Flight {
	insurees := make([]string, len(f.Insurees), len(f.Insurees)+1)
	copy(insurees, f.Insurees)
	f.Insurees = append(insurees, buyer)
	return f
}

// FlightKey derives the deterministic lookup key for a flight from the
// operating airline, the flight identifier and the scheduled timestamp.
// SHA-256 keeps the key collision-resistant.
func FlightKey(airline, flightID string, timestamp int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", airline, flightID, timestamp)))
	return hex.EncodeToString(sum[:])
}

// PositionKey identifies one buyer's insurance position on one flight in the
// flat (flightKey, buyer) -> amount ledger.
func PositionKey(flightKey, buyer string) string {
	return flightKey + "/" + buyer
}
