package schedule

import "time"

// Phase is the trigger state.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseFiring Phase = "firing"
)

// State is the trigger's schedule memory. LastFired is zero until the first
// recorded fire.
type State struct {
	Phase     Phase
	NextFire  time.Time
	LastFired time.Time
}

// Plan returns the next fire instant given the last recorded fire.
//
//   - fired at or after today's slot: tomorrow's slot
//   - before today's slot: today's slot
//   - past today's slot without a fire: now when within catchUp of the slot,
//     otherwise tomorrow's slot
func Plan(d Daily, now, lastFired time.Time, catchUp time.Duration) time.Time {
	today := d.SlotOn(now)
	if !lastFired.IsZero() && !lastFired.Before(today) {
		return d.NextAfter(today)
	}
	if now.Before(today) {
		return today
	}
	if catchUp > 0 && now.Sub(today) <= catchUp {
		return now
	}
	return d.NextAfter(today)
}

// Start returns the idle state for a process starting at now.
func Start(d Daily, now, lastFired time.Time, catchUp time.Duration) State {
	return State{
		Phase:     PhaseIdle,
		NextFire:  Plan(d, now, lastFired, catchUp),
		LastFired: lastFired,
	}
}

// Due reports whether s should fire at now.
func Due(s State, now time.Time) bool {
	return s.Phase == PhaseIdle && !s.NextFire.IsZero() && !now.Before(s.NextFire)
}

// Begin moves s into the firing phase.
func Begin(s State) State {
	s.Phase = PhaseFiring
	return s
}

// Complete records a fire at firedAt and plans the next one.
func Complete(s State, d Daily, firedAt time.Time) State {
	return State{
		Phase:     PhaseIdle,
		NextFire:  Plan(d, firedAt, firedAt, 0),
		LastFired: firedAt,
	}
}
