// Package engine drives the monitoring cadences: fast state re-resolution,
// medium log polling, and a slow housekeeping tick for the presentation
// layer, while folding asynchronous filesystem notifications into the ledger.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aibou-sh/aibou/internal/state"
	"github.com/aibou-sh/aibou/internal/tailer"
)

// Default cadences. Resolution is fast so the presentation layer tracks
// activity promptly; log polling is slower because it may touch disk; the
// housekeeping tick is slower still.
const (
	DefaultResolveEvery      = 200 * time.Millisecond
	DefaultPollEvery         = 500 * time.Millisecond
	DefaultHousekeepingEvery = 2 * time.Second
)

// Sink receives the resolved state once per fast tick and the slow
// housekeeping signal. Implementations must not block: a sink that needs to
// do slow work must hand it off.
type Sink interface {
	SetState(s state.State)
	Refresh()
}

// Options configure an Engine. Ledger, Resolver and Sink are required.
// Tailer is optional: without one, log-driven states simply never trigger.
// Activity is the coalesced filesystem notification channel; nil disables
// fs-driven states.
type Options struct {
	Ledger   *state.Ledger
	Resolver *state.Resolver
	Tailer   *tailer.Tailer
	Activity <-chan struct{}
	Sink     Sink

	// RunID identifies this run; empty generates a fresh one. Callers that
	// show the id before constructing the engine pass their own.
	RunID string

	ResolveEvery      time.Duration
	PollEvery         time.Duration
	HousekeepingEvery time.Duration
}

// Engine owns the periodic loops. One Engine runs per process.
type Engine struct {
	runID string
	opts  Options
}

// New validates opts and returns an Engine ready to run.
func New(opts Options) (*Engine, error) {
	if opts.Ledger == nil || opts.Resolver == nil {
		return nil, errors.New("engine: ledger and resolver are required")
	}
	if opts.Sink == nil {
		return nil, errors.New("engine: sink is required")
	}
	if opts.ResolveEvery <= 0 {
		opts.ResolveEvery = DefaultResolveEvery
	}
	if opts.PollEvery <= 0 {
		opts.PollEvery = DefaultPollEvery
	}
	if opts.HousekeepingEvery <= 0 {
		opts.HousekeepingEvery = DefaultHousekeepingEvery
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	return &Engine{runID: opts.RunID, opts: opts}, nil
}

// RunID identifies this engine run; shown by presentation layers.
func (e *Engine) RunID() string {
	return e.runID
}

// Run blocks until ctx is cancelled. The log poller runs on its own
// goroutine so brief file I/O never delays the resolution tick; the ledger's
// atomic fields make that safe. Shutdown is process-wide and unordered: both
// loops stop on cancellation, in-flight polls finish or are abandoned.
func (e *Engine) Run(ctx context.Context) {
	if e.opts.Tailer != nil {
		go e.pollLogs(ctx)
	}

	resolve := time.NewTicker(e.opts.ResolveEvery)
	defer resolve.Stop()
	housekeeping := time.NewTicker(e.opts.HousekeepingEvery)
	defer housekeeping.Stop()

	// Push an initial state so the sink never shows a stale default.
	e.opts.Sink.SetState(e.opts.Resolver.Resolve(time.Now()))

	for {
		select {
		case <-ctx.Done():
			return

		case <-e.activity():
			// Fold the pending notification into the ledger between ticks.
			// The channel is coalescing, so a burst costs one stamp.
			e.opts.Ledger.OnFSActivity()

		case <-resolve.C:
			e.opts.Sink.SetState(e.opts.Resolver.Resolve(time.Now()))

		case <-housekeeping.C:
			e.opts.Sink.Refresh()
		}
	}
}

func (e *Engine) pollLogs(ctx context.Context) {
	poll := time.NewTicker(e.opts.PollEvery)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			e.opts.Tailer.Check()
		}
	}
}

// activity returns the notification channel, or a permanently idle one when
// filesystem watching is disabled.
func (e *Engine) activity() <-chan struct{} {
	if e.opts.Activity != nil {
		return e.opts.Activity
	}
	return neverChan
}

var neverChan = make(chan struct{})
