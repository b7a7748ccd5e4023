package watcher

import (
	"path/filepath"
	"strings"
)

// defaultExcludes are path-component names whose events never count as
// activity: version control metadata, dependency trees, caches and build
// output. Matching is by exact component name, never by prefix or glob.
var defaultExcludes = []string{
	".git", ".svn", ".hg",
	"node_modules", "__pycache__", ".venv", "venv",
	".pytest_cache", ".mypy_cache",
	"dist", "build", ".next", ".nuxt",
}

// Filter decides which raw filesystem events count as activity.
type Filter struct {
	exclude map[string]struct{}
}

// NewFilter returns a Filter with the default exclusion set extended by the
// given extra names. Extras add to the defaults; they never replace them.
func NewFilter(extra ...string) *Filter {
	f := &Filter{exclude: make(map[string]struct{}, len(defaultExcludes)+len(extra))}
	for _, name := range defaultExcludes {
		f.exclude[name] = struct{}{}
	}
	for _, name := range extra {
		if name = strings.TrimSpace(name); name != "" {
			f.exclude[name] = struct{}{}
		}
	}
	return f
}

// Ignore reports whether an event for path should be dropped. Directory
// events never count as activity; only file content changes do. A file is
// also dropped when any component of its path is an excluded name.
func (f *Filter) Ignore(path string, isDir bool) bool {
	if isDir {
		return true
	}
	return f.excludedComponent(path)
}

// IgnoreDir reports whether a directory should be skipped entirely when
// establishing watches, so excluded trees are never descended into.
func (f *Filter) IgnoreDir(path string) bool {
	return f.excludedComponent(path)
}

func (f *Filter) excludedComponent(path string) bool {
	clean := filepath.Clean(path)
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if _, ok := f.exclude[part]; ok {
			return true
		}
	}
	return false
}
