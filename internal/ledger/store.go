// Package ledger holds the canonical in-memory state of the insurance
// marketplace. The store is the only shared mutable resource of the engine;
// every mutation goes through a typed setter that records an inverse entry in
// an undo journal, so an operation that fails any precondition mid-flight can
// be unwound atomically together with any nested guarded call it triggered.
package ledger

import (
	"suretyledger-service/internal/domain/entity"
)

// Mark is a position in the undo journal. Rolling back to a mark discards
// every mutation recorded after it.
type Mark int

type undo func(*Store)

// DirtySet tracks which records changed since the last flush so the engine
// can write committed state behind to the snapshot repositories.
type DirtySet struct {
	Airlines map[string]bool
	Flights  map[string]bool
	Credits  map[string]bool
}

func newDirtySet() DirtySet {
	return DirtySet{
		Airlines: make(map[string]bool),
		Flights:  make(map[string]bool),
		Credits:  make(map[string]bool),
	}
}

// Store is the canonical ledger state. It is not safe for concurrent use;
// the engine serializes access to it.
type Store struct {
	owner        string
	operational  bool
	authorized   map[string]bool
	airlines     map[string]entity.Airline
	flights      map[string]entity.Flight
	positions    map[string]int64
	credits      map[string]int64
	totalActived int

	journal  []undo
	guardSeq uint64
	dirty    DirtySet
}

// NewStore creates an operational store owned by the deploying principal.
func NewStore(owner string) *Store {
	return &Store{
		owner:       owner,
		operational: true,
		authorized:  make(map[string]bool),
		airlines:    make(map[string]entity.Airline),
		flights:     make(map[string]entity.Flight),
		positions:   make(map[string]int64),
		credits:     make(map[string]int64),
		dirty:       newDirtySet(),
	}
}

func (s *Store) record(u undo) {
	s.journal = append(s.journal, u)
}

// Mark returns the current journal position.
func (s *Store) Mark() Mark {
	return Mark(len(s.journal))
}

// RollbackTo unwinds every mutation recorded after m, newest first.
func (s *Store) RollbackTo(m Mark) {
	for i := len(s.journal) - 1; i >= int(m); i-- {
		s.journal[i](s)
	}
	s.journal = s.journal[:int(m)]
}

// Commit seals all journaled mutations; they can no longer be rolled back.
func (s *Store) Commit() {
	s.journal = s.journal[:0]
}

// TakeDirty returns the records changed since the last flush and resets the
// tracking set.
func (s *Store) TakeDirty() DirtySet {
	d := s.dirty
	s.dirty = newDirtySet()
	return d
}

// EnterGuard advances the reentrancy sequence and returns its new value.
// The sequence is deliberately outside the journal: a rolled-back operation
// must still be visible to an outer guard check.
func (s *Store) EnterGuard() uint64 {
	s.guardSeq++
	return s.guardSeq
}

// GuardMoved reports whether any guarded entry happened after the one that
// produced token.
func (s *Store) GuardMoved(token uint64) bool {
	return s.guardSeq != token
}

// Owner returns the deploying principal.
func (s *Store) Owner() string {
	return s.owner
}

// Operational reports the circuit-breaker flag.
func (s *Store) Operational() bool {
	return s.operational
}

// SetOperational toggles the circuit-breaker flag.
func (s *Store) SetOperational(mode bool) {
	prev := s.operational
	s.record(func(st *Store) { st.operational = prev })
	s.operational = mode
}

// IsAuthorized reports whether addr is on the authorized-caller allow-list.
func (s *Store) IsAuthorized(addr string) bool {
	return s.authorized[addr]
}

// Authorize adds addr to the authorized-caller allow-list.
func (s *Store) Authorize(addr string) {
	prev := s.authorized[addr]
	s.record(func(st *Store) {
		if prev {
			st.authorized[addr] = true
		} else {
			delete(st.authorized, addr)
		}
	})
	s.authorized[addr] = true
}

// Deauthorize removes addr from the authorized-caller allow-list.
func (s *Store) Deauthorize(addr string) {
	prev := s.authorized[addr]
	s.record(func(st *Store) {
		if prev {
			st.authorized[addr] = true
		} else {
			delete(st.authorized, addr)
		}
	})
	delete(s.authorized, addr)
}

// Airline returns the airline record for addr, if any.
func (s *Store) Airline(addr string) (entity.Airline, bool) {
	a, ok := s.airlines[addr]
	return a, ok
}

// PutAirline stores an airline record, journaling the prior value.
func (s *Store) PutAirline(a entity.Airline) {
	prev, existed := s.airlines[a.Address]
	wasDirty := s.dirty.Airlines[a.Address]
	s.record(func(st *Store) {
		if existed {
			st.airlines[a.Address] = prev
		} else {
			delete(st.airlines, a.Address)
		}
		if !wasDirty {
			delete(st.dirty.Airlines, a.Address)
		}
	})
	s.airlines[a.Address] = a
	s.dirty.Airlines[a.Address] = true
}

// Flight returns the flight record for key, if any.
func (s *Store) Flight(key string) (entity.Flight, bool) {
	f, ok := s.flights[key]
	return f, ok
}

// PutFlight stores a flight record, journaling the prior value.
func (s *Store) PutFlight(f entity.Flight) {
	prev, existed := s.flights[f.Key]
	wasDirty := s.dirty.Flights[f.Key]
	s.record(func(st *Store) {
		if existed {
			st.flights[f.Key] = prev
		} else {
			delete(st.flights, f.Key)
		}
		if !wasDirty {
			delete(st.dirty.Flights, f.Key)
		}
	})
	s.flights[f.Key] = f
	s.dirty.Flights[f.Key] = true
}

// Position returns the insurance amount buyer holds on flightKey.
func (s *Store) Position(flightKey, buyer string) int64 {
	return s.positions[entity.PositionKey(flightKey, buyer)]
}

// PutPosition records buyer's insurance amount on flightKey.
func (s *Store) PutPosition(flightKey, buyer string, amount int64) {
	key := entity.PositionKey(flightKey, buyer)
	prev, existed := s.positions[key]
	wasDirty := s.dirty.Flights[flightKey]
	s.record(func(st *Store) {
		if existed {
			st.positions[key] = prev
		} else {
			delete(st.positions, key)
		}
		if !wasDirty {
			delete(st.dirty.Flights, flightKey)
		}
	})
	s.positions[key] = amount
	s.dirty.Flights[flightKey] = true
}

// Positions returns the full buyer -> amount map for flightKey. The copy is
// safe for the caller to hold across later mutations.
func (s *Store) Positions(flightKey string) map[string]int64 {
	f, ok := s.flights[flightKey]
	if !ok {
		return nil
	}
	out := make(map[string]int64, len(f.Insurees))
	for _, buyer := range f.Insurees {
		out[buyer] = s.positions[entity.PositionKey(flightKey, buyer)]
	}
	return out
}

// Credit returns the credit balance owed to addr.
func (s *Store) Credit(addr string) int64 {
	return s.credits[addr]
}

// SetCredit sets the credit balance owed to addr.
func (s *Store) SetCredit(addr string, amount int64) {
	prev, existed := s.credits[addr]
	wasDirty := s.dirty.Credits[addr]
	s.record(func(st *Store) {
		if existed {
			st.credits[addr] = prev
		} else {
			delete(st.credits, addr)
		}
		if !wasDirty {
			delete(st.dirty.Credits, addr)
		}
	})
	s.credits[addr] = amount
	s.dirty.Credits[addr] = true
}

// TotalActivedAirlines returns the count of airlines in Actived state.
func (s *Store) TotalActivedAirlines() int {
	return s.totalActived
}

// IncTotalActived increments the active-airline counter.
func (s *Store) IncTotalActived() {
	prev := s.totalActived
	s.record(func(st *Store) { st.totalActived = prev })
	s.totalActived++
}
