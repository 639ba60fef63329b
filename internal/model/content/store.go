package content

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// LoadState tracks where a collection is in its fetch lifecycle.
type LoadState string

const (
	StatePending LoadState = "pending"
	StateLoaded  LoadState = "loaded"
	StateFailed  LoadState = "failed"
)

// LoadStatus describes the current state of one collection.
type LoadStatus struct {
	Collection CollectionName `json:"collection"`
	State      LoadState      `json:"state"`
	Count      int            `json:"count"`
	Error      string         `json:"error,omitempty"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Event is published whenever a collection finishes a fetch attempt.
type Event struct {
	ID string `json:"id"`
	LoadStatus
}

// Reader is the read side of the Store consumed by search, routing and handlers.
type Reader interface {
	Snapshot(c CollectionName) []Record
	View(c CollectionName) []Record
	Views() map[CollectionName][]Record
	FindByID(c CollectionName, id string) (Record, bool)
	Statuses() []LoadStatus
}

type slot struct {
	records atomic.Pointer[[]Record]
	status  atomic.Pointer[LoadStatus]
}

// Store holds the latest Snapshot of every collection. Each Snapshot is
// swapped whole, so readers see either the previous or the new sequence.
type Store struct {
	slots [collectionCount]slot
	now   func() time.Time

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewStore returns a Store with every collection empty and pending.
func NewStore() *Store {
	s := &Store{
		now:  func() time.Time { return time.Now().UTC() },
		subs: make(map[int]chan Event),
	}
	for i, name := range collectionOrder {
		empty := []Record{}
		s.slots[i].records.Store(&empty)
		s.slots[i].status.Store(&LoadStatus{
			Collection: name,
			State:      StatePending,
			UpdatedAt:  s.now(),
		})
	}
	return s
}

func (s *Store) slot(c CollectionName) *slot {
	idx := c.index()
	if idx < 0 {
		return nil
	}
	return &s.slots[idx]
}

// Replace installs records as the new Snapshot of c.
func (s *Store) Replace(c CollectionName, records []Record) {
	sl := s.slot(c)
	if sl == nil {
		return
	}

	snapshot := make([]Record, len(records))
	copy(snapshot, records)
	sl.records.Store(&snapshot)

	status := LoadStatus{
		Collection: c,
		State:      StateLoaded,
		Count:      len(snapshot),
		UpdatedAt:  s.now(),
	}
	sl.status.Store(&status)
	s.publish(status)
}

// MarkFailed records a failed fetch of c. The Snapshot is left as it was.
func (s *Store) MarkFailed(c CollectionName, cause error) {
	sl := s.slot(c)
	if sl == nil {
		return
	}

	status := LoadStatus{
		Collection: c,
		State:      StateFailed,
		Count:      len(*sl.records.Load()),
		UpdatedAt:  s.now(),
	}
	if cause != nil {
		status.Error = cause.Error()
	}
	sl.status.Store(&status)
	s.publish(status)
}

// Snapshot returns a copy of c's records in backend order.
func (s *Store) Snapshot(c CollectionName) []Record {
	sl := s.slot(c)
	if sl == nil {
		return []Record{}
	}
	current := *sl.records.Load()
	out := make([]Record, len(current))
	copy(out, current)
	return out
}

// View returns the NormalizedView of c, derived from the current Snapshot.
func (s *Store) View(c CollectionName) []Record {
	sl := s.slot(c)
	if sl == nil {
		return []Record{}
	}
	return Normalize(*sl.records.Load())
}

// Views returns the NormalizedView of every collection.
func (s *Store) Views() map[CollectionName][]Record {
	out := make(map[CollectionName][]Record, collectionCount)
	for _, name := range collectionOrder {
		out[name] = s.View(name)
	}
	return out
}

// FindByID looks up a record by identifier within c's NormalizedView.
func (s *Store) FindByID(c CollectionName, id string) (Record, bool) {
	for _, rec := range s.View(c) {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Status returns the load status of c.
func (s *Store) Status(c CollectionName) (LoadStatus, bool) {
	sl := s.slot(c)
	if sl == nil {
		return LoadStatus{}, false
	}
	return *sl.status.Load(), true
}

// Statuses returns every collection's status in the fixed order.
func (s *Store) Statuses() []LoadStatus {
	out := make([]LoadStatus, 0, collectionCount)
	for i := range s.slots {
		out = append(out, *s.slots[i].status.Load())
	}
	return out
}

// Subscribe registers for load events. The returned cancel func must be
// called to release the channel. Events are dropped for subscribers whose
// buffer is full.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, collectionCount*2)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(status LoadStatus) {
	event := Event{ID: uuid.NewString(), LoadStatus: status}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
