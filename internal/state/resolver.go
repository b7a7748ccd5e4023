package state

import "time"

// Resolver derives the current State from a Ledger and a set of Thresholds.
// It holds no state of its own: Resolve is a pure function of the ledger
// snapshot and the supplied clock reading, evaluated fresh on every call.
type Resolver struct {
	ledger *Ledger
	th     Thresholds
}

// NewResolver returns a Resolver reading from the given ledger.
func NewResolver(ledger *Ledger, th Thresholds) *Resolver {
	return &Resolver{ledger: ledger, th: th}
}

// Resolve returns the highest-priority state whose decay window is still open
// at the given instant. Priority, top-down, first match wins:
// error > success > running > typing > thinking > idle.
//
// The fields are read without cross-field transactional consistency;
// sub-millisecond tearing between reads is harmless against second-scale
// thresholds.
func (r *Resolver) Resolve(now time.Time) State {
	n := now.UnixNano()

	if n-r.ledger.errored.Load() < int64(r.th.ErrorDuration) {
		return Error
	}
	if n-r.ledger.success.Load() < int64(r.th.SuccessDuration) {
		return Success
	}
	if n-r.ledger.running.Load() < int64(r.th.RunningDuration) {
		return Running
	}

	fs := r.ledger.fsActivity.Load()
	if n-fs < int64(r.th.TypingThreshold) {
		return Typing
	}

	last := fs
	if lg := r.ledger.logActivity.Load(); lg > last {
		last = lg
	}
	if n-last < int64(r.th.ThinkingThreshold) {
		return Thinking
	}

	return Idle
}
