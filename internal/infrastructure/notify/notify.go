// Package notify delivers committed ledger events to their observers.
package notify

import (
	"context"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/repository"
	"suretyledger-service/pkg/logger"
	"suretyledger-service/pkg/metrics"
)

// Sink receives published events.
type Sink interface {
	Notify(ctx context.Context, event entity.Event)
}

// Fanout dispatches each published event to every registered sink.
type Fanout struct {
	sinks  []Sink
	logger logger.Logger
}

// NewFanout creates a new event fanout
func NewFanout(logger logger.Logger) *Fanout {
	return &Fanout{
		sinks:  make([]Sink, 0),
		logger: logger,
	}
}

// Register registers a sink for published events
func (f *Fanout) Register(sink Sink) {
	f.sinks = append(f.sinks, sink)
}

// Notify dispatches the event to every registered sink
func (f *Fanout) Notify(ctx context.Context, event entity.Event) {
	for _, sink := range f.sinks {
		sink.Notify(ctx, event)
	}
}

// LoggerSink logs every published event.
type LoggerSink struct {
	logger logger.Logger
}

// NewLoggerSink creates a sink that logs events
func NewLoggerSink(logger logger.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Notify logs the event
func (s *LoggerSink) Notify(_ context.Context, event entity.Event) {
	s.logger.Info("Ledger event",
		"type", event.Type,
		"airline", event.Airline,
		"flightKey", event.FlightKey,
		"principal", event.Principal,
		"amount", event.Amount,
	)
}

// JournalSink appends every published event to the permanent audit journal.
type JournalSink struct {
	events repository.EventRepository
	logger logger.Logger
}

// NewJournalSink creates a sink backed by the event repository
func NewJournalSink(events repository.EventRepository, logger logger.Logger) *JournalSink {
	return &JournalSink{events: events, logger: logger}
}

// Notify appends the event to the journal. Journal failures are logged, not
// propagated; delivery is best effort by contract.
func (s *JournalSink) Notify(ctx context.Context, event entity.Event) {
	if err := s.events.Append(ctx, &event); err != nil {
		s.logger.Error("Failed to journal event", "eventId", event.ID, "type", event.Type, "error", err)
	}
}

// MetricsSink counts published events by type.
type MetricsSink struct {
	metrics *metrics.Metrics
}

// NewMetricsSink creates a sink that feeds the event counter
func NewMetricsSink(metrics *metrics.Metrics) *MetricsSink {
	return &MetricsSink{metrics: metrics}
}

// Notify bumps the per-type event counter
func (s *MetricsSink) Notify(_ context.Context, event entity.Event) {
	s.metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
}
