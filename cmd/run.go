package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aibou-sh/aibou/internal/engine"
	"github.com/aibou-sh/aibou/internal/packs"
	"github.com/aibou-sh/aibou/internal/prefs"
	"github.com/aibou-sh/aibou/internal/state"
	"github.com/aibou-sh/aibou/internal/tailer"
	"github.com/aibou-sh/aibou/internal/tui"
	"github.com/aibou-sh/aibou/internal/watcher"
)

var runFlags struct {
	assets    string
	logPath   string
	exclude   []string
	character string
	headless  bool

	errorDuration     float64
	successDuration   float64
	runningDuration   float64
	typingThreshold   float64
	thinkingThreshold float64
}

var runCmd = &cobra.Command{
	Use:   "run <project-dir>",
	Short: "Watch a project and show its activity state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetConfig()

		// Flags override config. Duration flags count as set only when the
		// user passed them, so an explicit zero is rejected by validation
		// rather than silently replaced by the default.
		if runFlags.assets != "" {
			c.AssetsDir = runFlags.assets
		}
		if runFlags.logPath != "" {
			c.LogPath = runFlags.logPath
		}
		c.Exclude = append(c.Exclude, runFlags.exclude...)
		if runFlags.character != "" {
			c.DefaultCharacter = runFlags.character
		}
		for flag, dst := range map[string]*float64{
			"error-duration":     &c.ErrorDurationSecs,
			"success-duration":   &c.SuccessDurationSecs,
			"running-duration":   &c.RunningDurationSecs,
			"typing-threshold":   &c.TypingThresholdSecs,
			"thinking-threshold": &c.ThinkingThresholdSecs,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetFloat64(flag)
				*dst = v
			}
		}

		th, err := c.Thresholds()
		if err != nil {
			return err
		}

		ledger := state.NewLedger()
		resolver := state.NewResolver(ledger, th)

		w, err := watcher.New(args[0], watcher.NewFilter(c.Exclude...))
		if err != nil {
			return err
		}

		// Missing log path silently disables log-driven states.
		var tl *tailer.Tailer
		if c.LogPath != "" {
			tl = tailer.New(c.LogPath, ledger)
		}

		// Pack discovery failures are warnings: the engine runs regardless.
		var discovered []packs.Pack
		if c.AssetsDir != "" {
			discovered, err = packs.Discover(c.AssetsDir)
			if err != nil {
				log.Printf("warning: %v", err)
			}
		}

		userPrefs := prefs.Load("")
		if c.DefaultCharacter != "" {
			if _, ok := packs.Find(discovered, c.DefaultCharacter); ok {
				userPrefs.Character = c.DefaultCharacter
			} else if len(discovered) > 0 {
				log.Printf("warning: character %q not found", c.DefaultCharacter)
			}
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		opts := engine.Options{
			RunID:    uuid.New().String(),
			Ledger:   ledger,
			Resolver: resolver,
			Tailer:   tl,
			Activity: w.Activity(),
		}

		if term.IsTerminal(os.Stdout.Fd()) && !runFlags.headless {
			return runTUI(ctx, opts, w, discovered, userPrefs)
		}
		return runHeadless(ctx, cmd.OutOrStdout(), opts, w)
	},
}

func runTUI(ctx context.Context, opts engine.Options, w *watcher.Watcher, discovered []packs.Pack, userPrefs prefs.Prefs) error {
	model := tui.New(tui.Options{
		RunID: opts.RunID,
		Packs: discovered,
		Prefs: userPrefs,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	opts.Sink = tui.NewProgramSink(p)
	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go w.Run(runCtx)
	go eng.Run(runCtx)

	_, err = p.Run()
	return err
}

func runHeadless(ctx context.Context, out io.Writer, opts engine.Options, w *watcher.Watcher) error {
	opts.Sink = &lineSink{out: out, runID: shortID(opts.RunID)}
	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	go w.Run(ctx)
	eng.Run(ctx)
	return nil
}

// lineSink prints one line per state transition; the housekeeping tick
// re-prints the current state so long quiet stretches still show signs of
// life. Both methods run on the engine goroutine, so no locking is needed.
type lineSink struct {
	out     io.Writer
	runID   string
	current state.State
	seen    bool
}

func (s *lineSink) SetState(st state.State) {
	if s.seen && st == s.current {
		return
	}
	s.current = st
	s.seen = true
	s.print()
}

func (s *lineSink) Refresh() {
	if s.seen {
		s.print()
	}
}

func (s *lineSink) print() {
	fmt.Fprintf(s.out, "%s run=%s state=%s\n",
		time.Now().Format(time.RFC3339), s.runID, s.current)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runCmd.Flags().StringVar(&runFlags.assets, "assets", "", "directory containing character packs")
	runCmd.Flags().StringVarP(&runFlags.logPath, "log", "l", "", "log file to monitor for status detection")
	runCmd.Flags().StringSliceVarP(&runFlags.exclude, "exclude", "e", nil, "additional directory names to exclude")
	runCmd.Flags().StringVar(&runFlags.character, "character", "", "character pack to start with")
	runCmd.Flags().BoolVar(&runFlags.headless, "headless", false, "print state transitions instead of the TUI")
	runCmd.Flags().Float64Var(&runFlags.errorDuration, "error-duration", 6.0, "seconds the error state stays active")
	runCmd.Flags().Float64Var(&runFlags.successDuration, "success-duration", 4.0, "seconds the success state stays active")
	runCmd.Flags().Float64Var(&runFlags.runningDuration, "running-duration", 3.0, "seconds the running state stays active")
	runCmd.Flags().Float64Var(&runFlags.typingThreshold, "typing-threshold", 1.2, "seconds of typing after filesystem activity")
	runCmd.Flags().Float64Var(&runFlags.thinkingThreshold, "thinking-threshold", 8.0, "seconds of thinking after any activity")

	rootCmd.AddCommand(runCmd)
}
