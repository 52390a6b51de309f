package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-postcast/internal/schedule"
)

func daily(t *testing.T) schedule.Daily {
	t.Helper()
	d, err := schedule.ParseDaily("10:00", time.UTC)
	if err != nil {
		t.Fatalf("ParseDaily() error = %v", err)
	}
	return d
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}

func TestParseDaily(t *testing.T) {
	d := daily(t)
	if d.Hour != 10 || d.Minute != 0 || d.Cron() != "0 10 * * *" || d.String() != "10:00" {
		t.Fatalf("unexpected daily %+v", d)
	}
	for _, bad := range []string{"", "10", "24:00", "10:60", "ten:00", "10:5"} {
		if _, err := schedule.ParseDaily(bad, time.UTC); !errors.Is(err, schedule.ErrInvalidTimeOfDay) {
			t.Fatalf("ParseDaily(%q): expected ErrInvalidTimeOfDay, got %v", bad, err)
		}
	}
}

func TestNextAfter(t *testing.T) {
	d := daily(t)
	if got := d.NextAfter(at(15, 9, 0)); !got.Equal(at(15, 10, 0)) {
		t.Fatalf("before slot: got %s", got)
	}
	if got := d.NextAfter(at(15, 10, 0)); !got.Equal(at(16, 10, 0)) {
		t.Fatalf("at slot: got %s", got)
	}
}

func TestPlan(t *testing.T) {
	d := daily(t)
	cases := []struct {
		name      string
		now       time.Time
		lastFired time.Time
		catchUp   time.Duration
		want      time.Time
	}{
		{"fresh start before slot", at(15, 8, 0), time.Time{}, time.Hour, at(15, 10, 0)},
		{"already fired today", at(15, 10, 5), at(15, 10, 0), time.Hour, at(16, 10, 0)},
		{"fired yesterday, restarted before slot", at(15, 9, 0), at(15, 10, 0).Add(-24 * time.Hour), time.Hour, at(15, 10, 0)},
		{"missed slot within catch up", at(15, 10, 30), at(14, 10, 0), time.Hour, at(15, 10, 30)},
		{"missed slot beyond catch up", at(15, 12, 0), at(14, 10, 0), time.Hour, at(16, 10, 0)},
		{"missed slot without catch up", at(15, 10, 1), time.Time{}, 0, at(16, 10, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := schedule.Plan(d, tc.now, tc.lastFired, tc.catchUp); !got.Equal(tc.want) {
				t.Fatalf("Plan() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestStateLifecycle(t *testing.T) {
	d := daily(t)
	state := schedule.Start(d, at(15, 9, 0), time.Time{}, 0)

	if schedule.Due(state, at(15, 9, 59)) {
		t.Fatal("expected not due before slot")
	}
	if !schedule.Due(state, at(15, 10, 0)) {
		t.Fatal("expected due at slot")
	}

	firing := schedule.Begin(state)
	if schedule.Due(firing, at(15, 10, 0)) {
		t.Fatal("expected firing state not to be due again")
	}

	next := schedule.Complete(firing, d, at(15, 10, 2))
	if next.Phase != schedule.PhaseIdle || !next.NextFire.Equal(at(16, 10, 0)) || !next.LastFired.Equal(at(15, 10, 2)) {
		t.Fatalf("unexpected state after fire %+v", next)
	}
}
