package schedule

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Outcome classifies a trigger run.
type Outcome string

const (
	OutcomePublished     Outcome = "published"
	OutcomePublishFailed Outcome = "publish_failed"
	// OutcomeAborted means the session could not be acquired.
	OutcomeAborted Outcome = "aborted"
	// OutcomeError means the fired flow returned an error or panicked.
	OutcomeError Outcome = "error"
)

// Run is one entry in the trigger ledger.
type Run struct {
	RunID   string
	Slot    string
	FiredAt time.Time
	Outcome Outcome
	Detail  string
}

// Ledger persists trigger runs. LastFired returns the zero time when no run
// has been recorded.
type Ledger interface {
	LastFired(ctx context.Context) (time.Time, error)
	Record(ctx context.Context, run Run) error
	List(ctx context.Context, limit int) ([]Run, error)
}

// MemoryLedger keeps runs for the lifetime of the process.
type MemoryLedger struct {
	mu   sync.RWMutex
	runs []Run
}

var _ Ledger = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) LastFired(context.Context) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.runs) == 0 {
		return time.Time{}, nil
	}
	return m.runs[len(m.runs)-1].FiredAt, nil
}

func (m *MemoryLedger) Record(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// List returns the newest runs first. A non-positive limit returns all runs.
func (m *MemoryLedger) List(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.runs)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
