package repository

import (
	"context"

	"suretyledger-service/internal/domain/entity"
)

// FlightSnapshot is a committed flight record together with its flattened
// buyer -> amount insurance ledger.
type FlightSnapshot struct {
	Flight  entity.Flight
	Amounts map[string]int64
}

// FlightRepository persists committed flight snapshots keyed by the derived
// flight key.
type FlightRepository interface {
	Upsert(ctx context.Context, snapshot *FlightSnapshot) error
	FindByKey(ctx context.Context, key string) (*FlightSnapshot, error)
	FindAll(ctx context.Context) ([]FlightSnapshot, error)
}
