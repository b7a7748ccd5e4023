package state

import (
	"sync/atomic"
	"time"
)

// Ledger records the last occurrence of each signal kind as unix nanoseconds.
// Each field has exactly one producer; stores are atomic so a reader never
// observes a half-written timestamp. The zero value means "never" — an
// instant far enough in the past that every decay window has expired.
//
// The Ledger is constructed once and passed by reference to every producer
// (watcher drain, tailer) and to the Resolver. It is never a package-level
// singleton.
type Ledger struct {
	now func() time.Time // swapped out in tests

	fsActivity  atomic.Int64
	logActivity atomic.Int64
	running     atomic.Int64
	success     atomic.Int64
	errored     atomic.Int64
}

// NewLedger returns a Ledger with every timestamp at "never".
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// OnFSActivity stamps the filesystem-activity timestamp.
func (l *Ledger) OnFSActivity() {
	l.fsActivity.Store(l.now().UnixNano())
}

// OnLogActivity stamps the generic log-activity timestamp.
func (l *Ledger) OnLogActivity() {
	l.logActivity.Store(l.now().UnixNano())
}

// OnRunning stamps the running timestamp. It also counts as log activity, so
// the thinking window is extended by classified events as well as generic
// ones.
func (l *Ledger) OnRunning() {
	l.running.Store(l.now().UnixNano())
	l.OnLogActivity()
}

// OnSuccess stamps the success timestamp and the generic log activity.
func (l *Ledger) OnSuccess() {
	l.success.Store(l.now().UnixNano())
	l.OnLogActivity()
}

// OnError stamps the error timestamp and the generic log activity.
func (l *Ledger) OnError() {
	l.errored.Store(l.now().UnixNano())
	l.OnLogActivity()
}
