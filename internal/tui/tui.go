// Package tui provides the Bubble Tea presentation sink: a state badge, the
// active character pack, and a scrollback of recent state transitions.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aibou-sh/aibou/internal/packs"
	"github.com/aibou-sh/aibou/internal/prefs"
	"github.com/aibou-sh/aibou/internal/state"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	badgeBase = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 3)

	badgeColors = map[state.State]lipgloss.Color{
		state.Idle:     lipgloss.Color("240"),
		state.Thinking: lipgloss.Color("33"),
		state.Typing:   lipgloss.Color("39"),
		state.Running:  lipgloss.Color("178"),
		state.Success:  lipgloss.Color("35"),
		state.Error:    lipgloss.Color("160"),
	}

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Messages from the engine sink ─────────

// StateMsg carries the state resolved on the last fast tick.
type StateMsg struct {
	State state.State
}

// RefreshMsg is the slow housekeeping tick; it forces a repaint so dwell
// times stay current even when the state has not changed.
type RefreshMsg struct{}

// ── Transition history ─────────

type transition struct {
	at time.Time
	to state.State
}

const maxTransitions = 200

// ── Model ────────────────────

// Model is the root Bubble Tea model.
type Model struct {
	runID     string
	packs     []packs.Pack
	packIdx   int
	prefs     prefs.Prefs
	prefsPath string

	current     state.State
	since       time.Time
	transitions []transition

	vp     viewport.Model
	width  int
	height int
	ready  bool
}

// Options configure the TUI model.
type Options struct {
	RunID     string
	Packs     []packs.Pack
	Prefs     prefs.Prefs
	PrefsPath string
}

// New creates the model. The active pack is taken from prefs when it exists,
// otherwise the first discovered pack.
func New(opts Options) Model {
	m := Model{
		runID:     opts.RunID,
		packs:     opts.Packs,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		current:   state.Idle,
		since:     time.Now(),
	}
	for i, p := range m.packs {
		if p.Name == opts.Prefs.Character {
			m.packIdx = i
			break
		}
	}
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		if msg.State != m.current {
			m.current = msg.State
			m.since = time.Now()
			m.transitions = append(m.transitions, transition{at: m.since, to: msg.State})
			if len(m.transitions) > maxTransitions {
				m.transitions = m.transitions[len(m.transitions)-maxTransitions:]
			}
			m.rebuildViewport()
		}
		return m, nil

	case RefreshMsg:
		return m, nil // repaint only

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.cyclePack()
			return m, nil
		case "p":
			m.cyclePosition()
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.vp = viewport.New(msg.Width, maxInt(3, msg.Height-7))
		m.rebuildViewport()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	shortID := m.runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	title := titleStyle.Width(m.width).Render("  aibou  ·  run " + shortID)

	badge := badgeBase.Background(badgeColors[m.current]).
		Render(strings.ToUpper(m.current.String()))
	dwell := dimStyle.Render("  for " + time.Since(m.since).Round(time.Second).String())
	stateRow := "\n  " + badge + dwell + "\n"

	packRow := "  " + labelStyle.Render("character") + " " + m.packLabel() +
		dimStyle.Render("  ·  ") + labelStyle.Render("position") + " " + m.prefs.Position + "\n"

	hint := "  c character  p position  ↑/↓ scroll  q quit"
	bar := statusBarStyle.Width(m.width).Render(hintStyle.Render(hint))

	return title + stateRow + packRow + "\n" + m.vp.View() + "\n" + bar
}

// ── Helpers ───────────────

func (m *Model) rebuildViewport() {
	var b strings.Builder
	// newest first
	for i := len(m.transitions) - 1; i >= 0; i-- {
		tr := m.transitions[i]
		b.WriteString("  ")
		b.WriteString(timeStyle.Render(tr.at.Format("15:04:05")))
		b.WriteString("  → ")
		b.WriteString(strings.ToUpper(tr.to.String()))
		b.WriteString("\n")
	}
	if len(m.transitions) == 0 {
		b.WriteString(dimStyle.Render("  no transitions yet"))
	}
	m.vp.SetContent(b.String())
}

// packLabel renders the active pack name with its asset coverage, or a
// warning when no packs were discovered.
func (m Model) packLabel() string {
	if len(m.packs) == 0 {
		return warnStyle.Render("none found")
	}
	p := m.packs[m.packIdx]
	label := p.Name
	if !p.Complete() {
		label += dimStyle.Render(fmt.Sprintf(" (%d/%d assets)", len(p.Present), len(p.Present)+len(p.Missing)))
	}
	return label
}

// cyclePack advances to the next character pack and persists the choice.
// Persistence is best-effort; prefs are cosmetic.
func (m *Model) cyclePack() {
	if len(m.packs) < 2 {
		return
	}
	m.packIdx = (m.packIdx + 1) % len(m.packs)
	m.prefs.Character = m.packs[m.packIdx].Name
	_ = prefs.Save(m.prefsPath, m.prefs)
}

// cyclePosition advances to the next position preset and persists it.
func (m *Model) cyclePosition() {
	for i, p := range prefs.Positions {
		if p == m.prefs.Position {
			m.prefs.Position = prefs.Positions[(i+1)%len(prefs.Positions)]
			_ = prefs.Save(m.prefsPath, m.prefs)
			return
		}
	}
	m.prefs.Position = prefs.Positions[0]
	_ = prefs.Save(m.prefsPath, m.prefs)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ── Engine sink ───────────────

// ProgramSink adapts a running Bubble Tea program to the engine's Sink.
// Send hands messages to the program's own goroutine, so neither call blocks
// the engine's tick loop.
type ProgramSink struct {
	p *tea.Program
}

// NewProgramSink wraps p.
func NewProgramSink(p *tea.Program) *ProgramSink {
	return &ProgramSink{p: p}
}

func (s *ProgramSink) SetState(st state.State) {
	s.p.Send(StateMsg{State: st})
}

func (s *ProgramSink) Refresh() {
	s.p.Send(RefreshMsg{})
}
