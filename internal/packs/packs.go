// Package packs discovers character packs: subdirectories of an assets
// directory holding one animation per state, named <state>.gif. Packs are
// enumerated and validated only; decoding or rendering the assets is the
// presentation layer's business.
package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aibou-sh/aibou/internal/state"
)

// Pack describes one discovered character pack.
type Pack struct {
	Name    string
	Dir     string
	Present []state.State // states with an asset on disk
	Missing []state.State // states without one
}

// Complete reports whether the pack covers every state.
func (p Pack) Complete() bool {
	return len(p.Missing) == 0
}

// AssetPath returns the expected asset location for a state in this pack,
// whether or not the file exists.
func (p Pack) AssetPath(s state.State) string {
	return filepath.Join(p.Dir, s.String()+".gif")
}

// Discover scans assetsDir for character packs. A subdirectory qualifies when
// it holds at least one state asset; empty directories are skipped. Results
// are sorted by name. Incomplete packs are returned with their gaps recorded
// — missing assets are a presentation concern, not an error.
func Discover(assetsDir string) ([]Pack, error) {
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("read assets dir: %w", err)
	}

	var found []Pack
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p := Pack{Name: entry.Name(), Dir: filepath.Join(assetsDir, entry.Name())}
		for _, s := range state.All() {
			if _, err := os.Stat(p.AssetPath(s)); err == nil {
				p.Present = append(p.Present, s)
			} else {
				p.Missing = append(p.Missing, s)
			}
		}
		if len(p.Present) > 0 {
			found = append(found, p)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Find returns the pack with the given name, if discovered.
func Find(all []Pack, name string) (Pack, bool) {
	for _, p := range all {
		if p.Name == name {
			return p, true
		}
	}
	return Pack{}, false
}
