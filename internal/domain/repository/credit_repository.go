package repository

import (
	"context"

	"suretyledger-service/internal/domain/entity"
)

// CreditRepository persists committed credit balances.
type CreditRepository interface {
	Upsert(ctx context.Context, credit *entity.Credit) error
	FindAll(ctx context.Context) ([]entity.Credit, error)
}
