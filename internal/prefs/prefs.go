// Package prefs handles aibou user preference persistence.
// Preferences are stored in ~/.config/aibou/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds presentation-layer preferences: the active character pack and
// the preferred overlay position preset. They are hints for the presentation
// sink, never inputs to state resolution.
type Prefs struct {
	Character string `toml:"character"`
	Position  string `toml:"position"`
}

// Position preset names understood by presentation layers.
var Positions = []string{"top-right", "bottom-right", "top-left", "bottom-left", "center"}

const (
	defaultPrefsPath = "~/.config/aibou/prefs.toml"
	defaultPosition  = "bottom-right"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// missing or unreadable. Load never fails: preferences are cosmetic and a
// broken prefs file must not stop the engine.
func Load(path string) Prefs {
	prefs := Prefs{Position: defaultPosition}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Position: defaultPosition}
	}

	if !ValidPosition(prefs.Position) {
		prefs.Position = defaultPosition
	}

	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// Temp file + rename so a crash mid-write never leaves a torn file.
	tmp, err := os.CreateTemp(dir, "prefs-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// ValidPosition reports whether name is a known position preset.
func ValidPosition(name string) bool {
	for _, p := range Positions {
		if p == name {
			return true
		}
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
