package ledger

import (
	"sync"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// Filter selects trials by status set and/or identifier range.
// Zero bounds are unbounded; a zero Limit returns all matches.
type Filter struct {
	Statuses []models.TrialStatus
	MinID    int64
	MaxID    int64
	Limit    int
}

func (f Filter) matches(t *models.Trial) bool {
	if f.MinID > 0 && t.ID < f.MinID {
		return false
	}
	if f.MaxID > 0 && t.ID > f.MaxID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if t.Status == s {
			return true
		}
	}
	return false
}

// Storage is the persistence collaborator underneath the ledger. List
// returns trials in creation order. Implementations must make Put/Get
// atomic with respect to each other.
type Storage interface {
	Put(t *models.Trial) error
	Get(id int64) (*models.Trial, error)
	List(f Filter) ([]*models.Trial, error)
	Count(f Filter) (int, error)
}

// MemoryStore is an in-process Storage backed by a map plus an
// insertion-order index. Stored trials are cloned on the way in and out
// so callers never share mutable state with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	trials map[int64]*models.Trial
	order  []int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trials: make(map[int64]*models.Trial),
	}
}

// Put inserts or replaces a trial record.
func (s *MemoryStore) Put(t *models.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trials[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.trials[t.ID] = t.Clone()
	return nil
}

// Get returns the trial with the given identifier.
func (s *MemoryStore) Get(id int64) (*models.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trials[id]
	if !ok {
		return nil, &NotFoundError{TrialID: id}
	}
	return t.Clone(), nil
}

// List returns matching trials in creation order.
func (s *MemoryStore) List(f Filter) ([]*models.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Trial, 0)
	for _, id := range s.order {
		t := s.trials[id]
		if !f.matches(t) {
			continue
		}
		out = append(out, t.Clone())
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of matching trials without materializing them.
func (s *MemoryStore) Count(f Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, id := range s.order {
		if f.matches(s.trials[id]) {
			n++
			if f.Limit > 0 && n >= f.Limit {
				break
			}
		}
	}
	return n, nil
}
