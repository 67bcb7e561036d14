package usecase

import (
	"context"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"suretyledger-service/internal/domain/entity"
	"suretyledger-service/internal/domain/repository"
	"suretyledger-service/internal/ledger"
	"suretyledger-service/pkg/logger"
	"suretyledger-service/pkg/metrics"
)

// TransferFunds is the outward money-movement port. The host runtime owns
// actual value transfer; the engine only issues transfer intents through it.
// A transfer may synchronously re-enter the engine on the same goroutine.
type TransferFunds interface {
	Transfer(ctx context.Context, to string, amount int64) error
}

// Notifier receives events published after a successful commit. The engine
// has no dependency on how notifications are delivered.
type Notifier interface {
	Notify(ctx context.Context, event entity.Event)
}

// Engine is the ledger state machine. It owns all marketplace state and
// enforces every invariant: onboarding consensus, fund custody, the flight
// registry, underwriting, fault crediting and guarded withdrawal.
type Engine struct {
	store        *ledger.Store
	airlineRepo  repository.AirlineRepository
	flightRepo   repository.FlightRepository
	creditRepo   repository.CreditRepository
	treasury     TransferFunds
	notifier     Notifier
	logger       logger.Logger
	metrics      *metrics.Metrics
	minStake     int64
	insuranceCap int64

	// mu serializes external callers. A synchronous re-entry from inside a
	// fund transfer runs on the goroutine that already holds mu, so it must
	// not take the lock again; holder records that goroutine's id. Any other
	// goroutine arriving mid-transfer blocks on mu like a fresh caller.
	mu      sync.Mutex
	holder  atomic.Int64
	pending []entity.Event
}

// NewEngine creates the ledger engine.
func NewEngine(
	store *ledger.Store,
	airlineRepo repository.AirlineRepository,
	flightRepo repository.FlightRepository,
	creditRepo repository.CreditRepository,
	treasury TransferFunds,
	notifier Notifier,
	logger logger.Logger,
	metrics *metrics.Metrics,
	minStake int64,
	insuranceCap int64,
) *Engine {
	return &Engine{
		store:        store,
		airlineRepo:  airlineRepo,
		flightRepo:   flightRepo,
		creditRepo:   creditRepo,
		treasury:     treasury,
		notifier:     notifier,
		logger:       logger,
		metrics:      metrics,
		minStake:     minStake,
		insuranceCap: insuranceCap,
	}
}

// run executes one operation atomically. Every precondition failure rolls the
// store back to the entry mark, discarding the operation's own mutations
// together with those of any nested call it triggered. Snapshots are flushed
// and events published only when the outermost operation commits.
func (e *Engine) run(ctx context.Context, op string, fn func() error) error {
	g := gid()
	reentrant := e.holder.Load() == g
	if !reentrant {
		e.mu.Lock()
		e.holder.Store(g)
		defer func() {
			e.holder.Store(0)
			e.mu.Unlock()
		}()
	}

	start := time.Now()
	mark := e.store.Mark()
	eventMark := len(e.pending)

	if err := fn(); err != nil {
		e.store.RollbackTo(mark)
		e.pending = e.pending[:eventMark]
		e.metrics.ErrorsCount.WithLabelValues(op).Inc()
		e.logger.Warn("Operation rejected", "operation", op, "error", err)
		return err
	}

	if !reentrant {
		e.store.Commit()
		e.flush(ctx)
		e.publish(ctx)
	}
	e.metrics.OperationsProcessed.WithLabelValues(op).Inc()
	e.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	return nil
}

// emit buffers an event for publication after commit.
func (e *Engine) emit(event entity.Event) {
	event.ID = uuid.NewString()
	event.At = time.Now().UTC()
	e.pending = append(e.pending, event)
}

// flush writes committed records behind to the snapshot repositories. The
// repositories are an audit trail, never the source of truth, so a failed
// write is logged and does not fail the committed operation.
func (e *Engine) flush(ctx context.Context) {
	dirty := e.store.TakeDirty()
	for addr := range dirty.Airlines {
		if a, ok := e.store.Airline(addr); ok {
			if err := e.airlineRepo.Upsert(ctx, &a); err != nil {
				e.logger.Error("Failed to persist airline snapshot", "address", addr, "error", err)
			}
		}
	}
	for key := range dirty.Flights {
		if f, ok := e.store.Flight(key); ok {
			snapshot := repository.FlightSnapshot{Flight: f, Amounts: e.store.Positions(key)}
			if err := e.flightRepo.Upsert(ctx, &snapshot); err != nil {
				e.logger.Error("Failed to persist flight snapshot", "flightKey", key, "error", err)
			}
		}
	}
	for addr := range dirty.Credits {
		credit := entity.Credit{Address: addr, Amount: e.store.Credit(addr), UpdatedAt: time.Now().UTC()}
		if err := e.creditRepo.Upsert(ctx, &credit); err != nil {
			e.logger.Error("Failed to persist credit snapshot", "address", addr, "error", err)
		}
	}
}

// publish delivers buffered events to the notifier. Payout counters are
// bumped here rather than inside the operations, so an event discarded by a
// rollback never reaches them.
func (e *Engine) publish(ctx context.Context) {
	for _, event := range e.pending {
		switch event.Type {
		case entity.EventInsureeCredited:
			e.metrics.CreditedAmount.Add(float64(event.Amount))
		case entity.EventCreditPayout:
			e.metrics.PayoutsTotal.Inc()
		}
		e.notifier.Notify(ctx, event)
	}
	e.pending = e.pending[:0]
}

// gid returns the id of the calling goroutine, parsed from the header line of
// its stack trace.
func gid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		panic("malformed goroutine stack header: " + string(buf[:n]))
	}
	return id
}

// Restore warms the ledger from the snapshot repositories. Called once at
// startup before the engine serves any operation.
func (e *Engine) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	airlines, err := e.airlineRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, a := range airlines {
		e.store.PutAirline(a)
		if a.State == entity.AirlineActived {
			e.store.IncTotalActived()
		}
	}

	flights, err := e.flightRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, snapshot := range flights {
		e.store.PutFlight(snapshot.Flight)
		for buyer, amount := range snapshot.Amounts {
			e.store.PutPosition(snapshot.Flight.Key, buyer, amount)
		}
	}

	credits, err := e.creditRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range credits {
		e.store.SetCredit(c.Address, c.Amount)
	}

	e.store.Commit()
	e.store.TakeDirty()
	e.logger.Info("Ledger restored from snapshots",
		"airlines", len(airlines), "flights", len(flights), "credits", len(credits))
	return nil
}

// Bootstrap pre-registers the founding airline in Registered state if it is
// not already present. The founder still has to stake to become Actived.
func (e *Engine) Bootstrap(ctx context.Context, address, name string) error {
	return e.run(ctx, "bootstrap", func() error {
		if _, exists := e.store.Airline(address); exists {
			return nil
		}
		now := time.Now().UTC()
		e.store.PutAirline(entity.Airline{
			Address:   address,
			Name:      name,
			State:     entity.AirlineRegistered,
			CreatedAt: now,
			UpdatedAt: now,
		})
		e.emit(entity.Event{Type: entity.EventAirlineRegistered, Airline: address})
		e.logger.Info("Founding airline pre-registered", "address", address, "name", name)
		return nil
	})
}
