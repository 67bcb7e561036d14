package repository

import (
	"context"

	"suretyledger-service/internal/domain/entity"
)

// AirlineRepository persists committed airline snapshots. The repositories
// are a write-behind audit trail; the in-memory ledger remains canonical.
type AirlineRepository interface {
	Upsert(ctx context.Context, airline *entity.Airline) error
	FindByAddress(ctx context.Context, address string) (*entity.Airline, error)
	FindAll(ctx context.Context) ([]entity.Airline, error)
}
