package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aibou-sh/aibou/internal/packs"
	"github.com/aibou-sh/aibou/internal/prefs"
	"github.com/aibou-sh/aibou/internal/state"
)

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		RunID:     "0123456789abcdef",
		Packs:     []packs.Pack{{Name: "neko"}, {Name: "tanuki"}},
		Prefs:     prefs.Prefs{Character: "tanuki", Position: "bottom-right"},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}
}

func TestViewShowsCurrentState(t *testing.T) {
	m := sized(t, New(testOptions(t)))

	next, _ := m.Update(StateMsg{State: state.Running})
	m = next.(Model)

	if !strings.Contains(m.View(), "RUNNING") {
		t.Fatal("view does not show the current state")
	}
}

func TestPrefsSelectInitialPack(t *testing.T) {
	m := New(testOptions(t))
	if m.packs[m.packIdx].Name != "tanuki" {
		t.Fatalf("initial pack = %s, want tanuki from prefs", m.packs[m.packIdx].Name)
	}
}

func TestStateMsgRecordsTransitionsOnce(t *testing.T) {
	m := sized(t, New(testOptions(t)))

	for i := 0; i < 5; i++ { // repeated identical pushes, one transition
		next, _ := m.Update(StateMsg{State: state.Typing})
		m = next.(Model)
	}

	if len(m.transitions) != 1 {
		t.Fatalf("transitions = %d, want 1 (same-state pushes dedupe)", len(m.transitions))
	}
}

func TestCyclePackPersists(t *testing.T) {
	opts := testOptions(t)
	m := sized(t, New(opts))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(Model)

	if m.packs[m.packIdx].Name != "neko" {
		t.Fatalf("active pack = %s after cycle, want neko", m.packs[m.packIdx].Name)
	}
	saved := prefs.Load(opts.PrefsPath)
	if saved.Character != "neko" {
		t.Fatalf("saved character = %q, want neko", saved.Character)
	}
}

func TestQuitKeys(t *testing.T) {
	m := sized(t, New(testOptions(t)))
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch key {
		case "q":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s did not quit", key)
		}
	}
}

func TestViewWithoutPacksWarns(t *testing.T) {
	opts := testOptions(t)
	opts.Packs = nil
	m := sized(t, New(opts))

	if !strings.Contains(m.View(), "none found") {
		t.Fatal("view should warn when no character packs were discovered")
	}
}
