// Package config loads and merges aibou configuration: a global JSON file, an
// optional per-project file, and caller overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/aibou-sh/aibou/internal/state"
)

// Config holds all configurable aibou settings. Durations are expressed in
// seconds so config files stay readable; they are converted to
// state.Thresholds once, at startup.
type Config struct {
	AssetsDir        string   `json:"assets_dir"`
	LogPath          string   `json:"log_path"`
	Exclude          []string `json:"exclude"` // extends the built-in exclusion set
	DefaultCharacter string   `json:"default_character"`

	ErrorDurationSecs     float64 `json:"error_duration_secs"`
	SuccessDurationSecs   float64 `json:"success_duration_secs"`
	RunningDurationSecs   float64 `json:"running_duration_secs"`
	TypingThresholdSecs   float64 `json:"typing_threshold_secs"`
	ThinkingThresholdSecs float64 `json:"thinking_threshold_secs"`
}

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		ErrorDurationSecs:     6.0,
		SuccessDurationSecs:   4.0,
		RunningDurationSecs:   3.0,
		TypingThresholdSecs:   1.2,
		ThinkingThresholdSecs: 8.0,
	}
}

// LoadGlobal reads $XDG_CONFIG_HOME/aibou/config.json
// (~/.config/aibou/config.json). Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json"), true)
}

// LoadProject reads .aibourc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".aibourc", false)
}

// configDir returns the aibou-specific XDG config directory.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "aibou"), nil
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults. A zero duration means
// "not set"; explicitly invalid values are rejected later by Thresholds.
// Exclusion lists accumulate across layers rather than replacing each other.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, project} {
		if layer == nil {
			continue
		}
		if layer.AssetsDir != "" {
			result.AssetsDir = layer.AssetsDir
		}
		if layer.LogPath != "" {
			result.LogPath = layer.LogPath
		}
		if len(layer.Exclude) > 0 {
			result.Exclude = append(result.Exclude, layer.Exclude...)
		}
		if layer.DefaultCharacter != "" {
			result.DefaultCharacter = layer.DefaultCharacter
		}
		if layer.ErrorDurationSecs != 0 {
			result.ErrorDurationSecs = layer.ErrorDurationSecs
		}
		if layer.SuccessDurationSecs != 0 {
			result.SuccessDurationSecs = layer.SuccessDurationSecs
		}
		if layer.RunningDurationSecs != 0 {
			result.RunningDurationSecs = layer.RunningDurationSecs
		}
		if layer.TypingThresholdSecs != 0 {
			result.TypingThresholdSecs = layer.TypingThresholdSecs
		}
		if layer.ThinkingThresholdSecs != 0 {
			result.ThinkingThresholdSecs = layer.ThinkingThresholdSecs
		}
	}
	return result
}

// Thresholds converts the configured durations and validates them. Any
// non-positive duration is rejected with a descriptive error; callers treat
// that as fatal before any loop starts.
func (c Config) Thresholds() (state.Thresholds, error) {
	th := state.Thresholds{
		ErrorDuration:     secs(c.ErrorDurationSecs),
		SuccessDuration:   secs(c.SuccessDurationSecs),
		RunningDuration:   secs(c.RunningDurationSecs),
		TypingThreshold:   secs(c.TypingThresholdSecs),
		ThinkingThreshold: secs(c.ThinkingThresholdSecs),
	}
	if err := th.Validate(); err != nil {
		return state.Thresholds{}, err
	}
	return th, nil
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
