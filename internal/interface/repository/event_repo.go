package repository

import (
	"context"
	"time"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormEventRepository implements the EventRepository interface
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM event journal repository
func NewGormEventRepository(db *gorm.DB) (repository.EventRepository, error) {
	if err := db.AutoMigrate(&LedgerEvents{}); err != nil {
		return nil, err
	}
	return &GormEventRepository{
		db: db,
	}, nil
}

// LedgerEvents GORM model for the append-only audit journal
type LedgerEvents struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   string    `gorm:"column:event_id;unique"`
	Type      string    `gorm:"column:type;index"`
	Airline   string    `gorm:"column:airline"`
	FlightKey string    `gorm:"column:flight_key"`
	Principal string    `gorm:"column:principal"`
	Amount    int64     `gorm:"column:amount"`
	EmittedAt time.Time `gorm:"column:emitted_at"`
	CreatedAt time.Time
}

// TableName overrides the default table name
func (LedgerEvents) TableName() string {
	return "m_ledger_events"
}

// Append inserts a published event into the journal
func (r *GormEventRepository) Append(ctx context.Context, event *entity.Event) error {
	row := LedgerEvents{
		EventID:   event.ID,
		Type:      string(event.Type),
		Airline:   event.Airline,
		FlightKey: event.FlightKey,
		Principal: event.Principal,
		Amount:    event.Amount,
		EmittedAt: event.At,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}
