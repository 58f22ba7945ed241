/* timer.go
 * Contains the TimerGate which decides whether a round's submission window is open. It holds no state and is
 * recomputed from the round config and the clock on every check
 * Authors: Zachary Bower
 */

package logic

import (
	"hackathon-engine/api/shared"
	"time"
)

// WindowState is the state of a round's submission window
type WindowState string

const (
	WindowUnscheduled WindowState = "not_started" // the round has no start time
	WindowPending     WindowState = "pending"     // the start time is in the future
	WindowOpen        WindowState = "open"
	WindowClosed      WindowState = "closed"
)

// TimerGate derives window state from a round config and a clock
type TimerGate struct {
	Now func() time.Time
}

// NewTimerGate creates a TimerGate, using time.Now when now is nil
func NewTimerGate(now func() time.Time) TimerGate {
	if now == nil {
		now = time.Now
	}
	return TimerGate{Now: now}
}

// State returns the window state for cfg at the current time
func (g TimerGate) State(cfg shared.RoundConfig) WindowState {
	return WindowAt(cfg, g.now())
}

// IsOpen reports whether submissions for cfg are accepted right now
func (g TimerGate) IsOpen(cfg shared.RoundConfig) bool {
	return g.State(cfg) == WindowOpen
}

// Remaining returns how long the window stays open, zero if it is not open
func (g TimerGate) Remaining(cfg shared.RoundConfig) time.Duration {
	now := g.now()
	if WindowAt(cfg, now) != WindowOpen {
		return 0
	}
	return cfg.StartTime.Add(cfg.Duration()).Sub(now)
}

func (g TimerGate) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// WindowAt computes the window state of cfg at the given instant
// Preconditions: Receives a round config and a time
// Postconditions: Returns WindowUnscheduled if no start time is set, WindowOpen for now in [start, start+duration),
// WindowClosed for now >= start+duration and WindowPending before start
func WindowAt(cfg shared.RoundConfig, now time.Time) WindowState {
	if cfg.StartTime == nil {
		return WindowUnscheduled
	}
	start := *cfg.StartTime
	end := start.Add(cfg.Duration())
	switch {
	case now.Before(start):
		return WindowPending
	case now.Before(end):
		return WindowOpen
	default:
		return WindowClosed
	}
}
