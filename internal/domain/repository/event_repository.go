package repository

import (
	"context"

	"suretyledger-service/internal/domain/entity"
)

// EventRepository appends published notifications to the permanent audit
// journal. The journal is append-only; events are never updated or deleted.
type EventRepository interface {
	Append(ctx context.Context, event *entity.Event) error
}
