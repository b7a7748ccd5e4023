// Package state implements the activity-to-state resolution core: a ledger of
// last-occurrence timestamps and a resolver that collapses them into a single
// coarse State using priority-ordered, time-decaying thresholds.
package state

import (
	"fmt"
	"time"
)

// State is the coarse activity indicator shown by the presentation layer.
// Values are ordered by priority: a higher value wins when several decay
// windows are open at once.
type State int

const (
	Idle State = iota
	Thinking
	Typing
	Running
	Success
	Error
)

// All returns every state in priority order, lowest first.
func All() []State {
	return []State{Idle, Thinking, Typing, Running, Success, Error}
}

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Thinking:
		return "thinking"
	case Typing:
		return "typing"
	case Running:
		return "running"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Thresholds holds the decay durations that keep each state alive after its
// trigger. They are fixed at construction and constant for the process life.
type Thresholds struct {
	ErrorDuration     time.Duration
	SuccessDuration   time.Duration
	RunningDuration   time.Duration
	TypingThreshold   time.Duration
	ThinkingThreshold time.Duration
}

// DefaultThresholds returns the stock decay durations.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ErrorDuration:     6 * time.Second,
		SuccessDuration:   4 * time.Second,
		RunningDuration:   3 * time.Second,
		TypingThreshold:   1200 * time.Millisecond,
		ThinkingThreshold: 8 * time.Second,
	}
}

// Validate rejects non-positive durations. A zero or negative window would
// make its state unreachable or permanently active, so this is checked once
// at startup and treated as fatal by callers.
func (t Thresholds) Validate() error {
	checks := []struct {
		name string
		d    time.Duration
	}{
		{"error_duration", t.ErrorDuration},
		{"success_duration", t.SuccessDuration},
		{"running_duration", t.RunningDuration},
		{"typing_threshold", t.TypingThreshold},
		{"thinking_threshold", t.ThinkingThreshold},
	}
	for _, c := range checks {
		if c.d <= 0 {
			return fmt.Errorf("invalid threshold %s: must be positive, got %s", c.name, c.d)
		}
	}
	return nil
}
