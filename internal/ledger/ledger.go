package ledger

import (
	"sync"
	"time"

	"github.com/blackboxopt/tuner-core/pkg/models"
)

// Ledger is the authoritative record of all trials for one study. It
// assigns identifiers and owns every status transition; no other
// component mutates a trial's status. All mutating operations are
// serialized by one mutex, so concurrent callers racing on the same
// transition see exactly one winner.
type Ledger struct {
	mu     sync.Mutex
	store  Storage
	nextID int64
}

// New creates a ledger over the given storage collaborator. A nil
// storage gets an in-memory store.
func New(store Storage) *Ledger {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Ledger{store: store}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create registers a new trial with the next identifier and status
// requested.
func (l *Ledger) Create(params models.ParameterMap, metadata map[string]string) (*models.Trial, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	t := &models.Trial{
		ID:              l.nextID,
		Parameters:      params.Clone(),
		Status:          models.TrialRequested,
		Metadata:        metadata,
		CreatedAtUnixMs: nowUnixMs(),
	}
	if err := l.store.Put(t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Activate moves a requested trial to active.
func (l *Ledger) Activate(id int64) (*models.Trial, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Get(id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TrialRequested {
		return nil, &InvalidTransitionError{TrialID: id, From: t.Status, To: models.TrialActive}
	}
	t.Status = models.TrialActive
	if err := l.store.Put(t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// RecordMeasurement appends an intermediate measurement. Legal only
// while the trial is active.
func (l *Ledger) RecordMeasurement(id int64, m models.Measurement) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Get(id)
	if err != nil {
		return err
	}
	if t.Status != models.TrialActive {
		return &InvalidStateError{TrialID: id, Status: t.Status, Op: "record measurement"}
	}
	t.Measurements = append(t.Measurements, *m.Clone())
	return l.store.Put(t)
}

// Complete moves an active trial to completed and sets its final
// measurement, exactly once.
func (l *Ledger) Complete(id int64, final models.Measurement) (*models.Trial, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Get(id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TrialActive {
		return nil, &InvalidStateError{TrialID: id, Status: t.Status, Op: "complete"}
	}
	t.Status = models.TrialCompleted
	t.FinalMeasurement = final.Clone()
	t.EndedAtUnixMs = nowUnixMs()
	if err := l.store.Put(t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Stop moves an active trial to stopped. Stopping an already stopped
// trial is a no-op.
func (l *Ledger) Stop(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Get(id)
	if err != nil {
		return err
	}
	if t.Status == models.TrialStopped {
		return nil
	}
	if t.Status != models.TrialActive {
		return &InvalidTransitionError{TrialID: id, From: t.Status, To: models.TrialStopped}
	}
	t.Status = models.TrialStopped
	t.EndedAtUnixMs = nowUnixMs()
	return l.store.Put(t)
}

// MarkError moves an active trial to error, recording the cause.
// Marking an already errored trial is a no-op.
func (l *Ledger) MarkError(id int64, cause error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.store.Get(id)
	if err != nil {
		return err
	}
	if t.Status == models.TrialError {
		return nil
	}
	if t.Status != models.TrialActive {
		return &InvalidTransitionError{TrialID: id, From: t.Status, To: models.TrialError}
	}
	t.Status = models.TrialError
	if cause != nil {
		t.Error = cause.Error()
	}
	t.EndedAtUnixMs = nowUnixMs()
	return l.store.Put(t)
}

// Get returns a copy of one trial.
func (l *Ledger) Get(id int64) (*models.Trial, error) {
	return l.store.Get(id)
}

// List returns matching trials in creation order. It never mutates.
func (l *Ledger) List(f Filter) ([]*models.Trial, error) {
	return l.store.List(f)
}

// Count returns the number of matching trials.
func (l *Ledger) Count(f Filter) (int, error) {
	return l.store.Count(f)
}
