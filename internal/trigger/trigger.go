// Package trigger fires the daily publish flow at its scheduled time.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-postcast/internal/identity"
	"github.com/goliatone/go-postcast/internal/logging"
	"github.com/goliatone/go-postcast/internal/schedule"
	"github.com/goliatone/go-postcast/pkg/interfaces"
)

const (
	DefaultPollInterval = 60 * time.Second
	DefaultCatchUp      = time.Hour
)

var ErrNilFireFunc = errors.New("trigger: fire func is required")

// FireFunc runs the scheduled flow once and classifies the result. A returned
// error is logged and recorded as the run detail.
type FireFunc func(ctx context.Context, runID string) (schedule.Outcome, error)

// Trigger owns the schedule state for one daily slot.
type Trigger struct {
	daily   schedule.Daily
	fire    FireFunc
	ledger  schedule.Ledger
	clock   Clock
	logger  interfaces.Logger
	poll    time.Duration
	catchUp time.Duration

	mu          sync.Mutex
	state       schedule.State
	initialized bool
}

// Option configures a Trigger.
type Option func(*Trigger)

func WithClock(clock Clock) Option {
	return func(t *Trigger) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func WithLedger(ledger schedule.Ledger) Option {
	return func(t *Trigger) {
		if ledger != nil {
			t.ledger = ledger
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(t *Trigger) {
		t.logger = logging.Ensure(logger)
	}
}

// WithPollInterval caps how long the loop sleeps between due checks.
func WithPollInterval(d time.Duration) Option {
	return func(t *Trigger) {
		if d > 0 {
			t.poll = d
		}
	}
}

// WithCatchUp sets how late a missed slot may still fire after a restart.
// Zero disables catch-up.
func WithCatchUp(d time.Duration) Option {
	return func(t *Trigger) {
		if d >= 0 {
			t.catchUp = d
		}
	}
}

func New(daily schedule.Daily, fire FireFunc, opts ...Option) (*Trigger, error) {
	if fire == nil {
		return nil, ErrNilFireFunc
	}
	t := &Trigger{
		daily:   daily,
		fire:    fire,
		ledger:  schedule.NewMemoryLedger(),
		clock:   SystemClock{},
		logger:  logging.NoOp(),
		poll:    DefaultPollInterval,
		catchUp: DefaultCatchUp,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// Init plans the first fire from the ledger's last recorded run. When the
// ledger cannot be read the trigger still starts, as if it never fired.
func (t *Trigger) Init(ctx context.Context) error {
	lastFired, err := t.ledger.LastFired(ctx)
	now := t.clock.Now()

	t.mu.Lock()
	t.state = schedule.Start(t.daily, now, lastFired, t.catchUp)
	t.initialized = true
	next := t.state.NextFire
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("trigger.ledger.read_failed", "error", err)
		return fmt.Errorf("trigger: read last fired: %w", err)
	}
	t.logger.Info("trigger.scheduled", "schedule", t.daily.String(), "next_fire", next, "last_fired", lastFired)
	return nil
}

// Schedule returns the configured daily slot.
func (t *Trigger) Schedule() schedule.Daily { return t.daily }

// State returns a snapshot of the schedule state.
func (t *Trigger) State() schedule.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Tick fires the flow once when the schedule is due at now and reports
// whether it fired. Failures and panics of the flow are logged, never
// returned.
func (t *Trigger) Tick(ctx context.Context, now time.Time) bool {
	t.mu.Lock()
	if !t.initialized {
		t.state = schedule.Start(t.daily, now, time.Time{}, t.catchUp)
		t.initialized = true
	}
	if !schedule.Due(t.state, now) {
		t.mu.Unlock()
		return false
	}
	t.state = schedule.Begin(t.state)
	slot := t.daily.SlotOn(t.state.NextFire)
	t.mu.Unlock()

	runID := identity.RunID(slot)
	logger := logging.WithRunID(t.logger, runID)
	logger.Info("trigger.fire.started", "slot", slot)

	outcome, err := t.invoke(ctx, runID)
	run := schedule.Run{
		RunID:   runID,
		Slot:    slot.Format(time.DateOnly),
		FiredAt: now,
		Outcome: outcome,
	}
	if err != nil {
		run.Detail = err.Error()
		logger.Error("trigger.fire.failed", "slot", slot, "outcome", string(outcome), "error", err)
	} else {
		logger.Info("trigger.fire.completed", "slot", slot, "outcome", string(outcome))
	}
	if recErr := t.ledger.Record(ctx, run); recErr != nil {
		logger.Error("trigger.ledger.record_failed", "error", recErr)
	}

	t.mu.Lock()
	t.state = schedule.Complete(t.state, t.daily, now)
	next := t.state.NextFire
	t.mu.Unlock()

	logger.Debug("trigger.next_fire", "next_fire", next)
	return true
}

func (t *Trigger) invoke(ctx context.Context, runID string) (outcome schedule.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = schedule.OutcomeError
			err = fmt.Errorf("trigger: fire panicked: %v", r)
		}
	}()
	outcome, err = t.fire(ctx, runID)
	if outcome == "" {
		outcome = schedule.OutcomeError
	}
	return outcome, err
}

// Run checks the schedule until ctx is cancelled. One timer is armed per
// iteration, for the time left until the next fire but never longer than the
// poll interval so wall clock jumps are noticed.
func (t *Trigger) Run(ctx context.Context) error {
	t.mu.Lock()
	initialized := t.initialized
	t.mu.Unlock()
	if !initialized {
		_ = t.Init(ctx)
	}

	for {
		if ctx.Err() != nil {
			t.logger.Info("trigger.stopped")
			return nil
		}
		t.Tick(ctx, t.clock.Now())

		wait := t.State().NextFire.Sub(t.clock.Now())
		if wait > t.poll {
			wait = t.poll
		}
		if wait < 0 {
			wait = 0
		}

		timer := t.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C():
		}
	}
}
