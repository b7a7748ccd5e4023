package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aibou-sh/aibou/internal/state"
	"github.com/aibou-sh/aibou/internal/tailer"
)

// captureSink records every pushed state and refresh.
type captureSink struct {
	mu        sync.Mutex
	states    []state.State
	refreshes int
}

func (c *captureSink) SetState(s state.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, s)
}

func (c *captureSink) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshes++
}

func (c *captureSink) last() (state.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.states) == 0 {
		return 0, false
	}
	return c.states[len(c.states)-1], true
}

func (c *captureSink) refreshCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func newTestEngine(t *testing.T, opts Options) (*Engine, *captureSink, <-chan struct{}) {
	t.Helper()
	sink := &captureSink{}
	opts.Sink = sink
	if opts.Ledger == nil {
		opts.Ledger = state.NewLedger()
	}
	if opts.Resolver == nil {
		opts.Resolver = state.NewResolver(opts.Ledger, state.DefaultThresholds())
	}
	if opts.ResolveEvery == 0 {
		opts.ResolveEvery = 10 * time.Millisecond
	}
	if opts.PollEvery == 0 {
		opts.PollEvery = 10 * time.Millisecond
	}
	if opts.HousekeepingEvery == 0 {
		opts.HousekeepingEvery = 30 * time.Millisecond
	}

	e, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()
	return e, sink, done
}

func TestNewRequiresCore(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	l := state.NewLedger()
	_, err = New(Options{Ledger: l, Resolver: state.NewResolver(l, state.DefaultThresholds())})
	require.Error(t, err, "sink is required")
}

func TestRunIDAssigned(t *testing.T) {
	l := state.NewLedger()
	e, err := New(Options{
		Ledger:   l,
		Resolver: state.NewResolver(l, state.DefaultThresholds()),
		Sink:     &captureSink{},
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.RunID())
}

func TestIdleWithoutSignals(t *testing.T) {
	_, sink, _ := newTestEngine(t, Options{})

	require.True(t, waitFor(t, time.Second, func() bool {
		s, ok := sink.last()
		return ok && s == state.Idle
	}))
}

func TestActivityDrivesTyping(t *testing.T) {
	activity := make(chan struct{}, 1)
	_, sink, _ := newTestEngine(t, Options{Activity: activity})

	activity <- struct{}{}

	require.True(t, waitFor(t, time.Second, func() bool {
		s, ok := sink.last()
		return ok && s == state.Typing
	}), "fs activity should surface as typing by the next resolve tick")
}

func TestTypingDecaysToIdle(t *testing.T) {
	th := state.Thresholds{
		ErrorDuration:     80 * time.Millisecond,
		SuccessDuration:   60 * time.Millisecond,
		RunningDuration:   50 * time.Millisecond,
		TypingThreshold:   30 * time.Millisecond,
		ThinkingThreshold: 60 * time.Millisecond,
	}
	l := state.NewLedger()
	activity := make(chan struct{}, 1)
	_, sink, _ := newTestEngine(t, Options{
		Ledger:   l,
		Resolver: state.NewResolver(l, th),
		Activity: activity,
	})

	activity <- struct{}{}

	require.True(t, waitFor(t, time.Second, func() bool {
		s, ok := sink.last()
		return ok && s == state.Typing
	}))
	require.True(t, waitFor(t, time.Second, func() bool {
		s, ok := sink.last()
		return ok && s == state.Idle
	}), "typing then thinking should decay to idle")
}

func TestLogPollFeedsLedger(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "agent.log")
	require.NoError(t, os.WriteFile(logPath, nil, 0o644))

	l := state.NewLedger()
	tl := tailer.New(logPath, l)
	_, sink, _ := newTestEngine(t, Options{Ledger: l, Tailer: tl})

	require.NoError(t, os.WriteFile(logPath, []byte("fatal: broken\n"), 0o644))

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		s, ok := sink.last()
		return ok && s == state.Error
	}), "classified log growth should surface as error")
}

func TestHousekeepingTick(t *testing.T) {
	_, sink, _ := newTestEngine(t, Options{})

	require.True(t, waitFor(t, time.Second, func() bool {
		return sink.refreshCount() >= 2
	}))
}

func TestCancellationStopsRun(t *testing.T) {
	sink := &captureSink{}
	l := state.NewLedger()
	e, err := New(Options{
		Ledger:   l,
		Resolver: state.NewResolver(l, state.DefaultThresholds()),
		Sink:     sink,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
