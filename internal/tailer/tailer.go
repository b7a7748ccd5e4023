// Package tailer incrementally reads a growing log file and feeds newly
// appended text through classification into the ledger.
package tailer

import (
	"io"
	"os"
	"strings"

	"github.com/aibou-sh/aibou/internal/classify"
)

// Recorder receives the outcome of classifying a chunk of appended log text.
// *state.Ledger satisfies it.
type Recorder interface {
	OnLogActivity()
	OnRunning()
	OnSuccess()
	OnError()
}

// Tailer tracks a byte cursor into one monitored file. The cursor is created
// once at startup from the file's current size, so only content written after
// startup is ever classified. It grows with the file and resets to zero when
// the file shrinks (rotation or truncation).
type Tailer struct {
	path   string
	cursor int64
	rec    Recorder
}

// New returns a Tailer positioned at the current end of the file at path.
// A missing file leaves the cursor at zero.
func New(path string, rec Recorder) *Tailer {
	t := &Tailer{path: path, rec: rec}
	if info, err := os.Stat(path); err == nil {
		t.cursor = info.Size()
	}
	return t
}

// Cursor returns the current byte offset.
func (t *Tailer) Cursor() int64 {
	return t.cursor
}

// Check reads any growth of the monitored file and classifies it as one
// chunk. It is a no-op when the file does not exist. Every I/O failure is
// swallowed with the cursor left unchanged; the next poll simply retries.
//
// When the file has shrunk below the cursor the whole new content is read
// from offset zero as a single chunk, even if some of it predates the
// rotation. Patterns split across two Check calls are not detected.
func (t *Tailer) Check() {
	info, err := os.Stat(t.path)
	if err != nil {
		return
	}
	size := info.Size()

	if size < t.cursor {
		t.cursor = 0 // rotation or truncation
	}
	if size <= t.cursor {
		return
	}

	f, err := os.Open(t.path)
	if err != nil {
		return
	}
	defer f.Close()

	if _, err := f.Seek(t.cursor, io.SeekStart); err != nil {
		return
	}

	buf := make([]byte, size-t.cursor)
	n, _ := io.ReadFull(f, buf)
	if n == 0 {
		return
	}
	t.cursor += int64(n)

	t.analyze(decode(buf[:n]))
}

func (t *Tailer) analyze(text string) {
	switch classify.Chunk(text) {
	case classify.Error:
		t.rec.OnError()
	case classify.Success:
		t.rec.OnSuccess()
	case classify.Running:
		t.rec.OnRunning()
	default:
		t.rec.OnLogActivity()
	}
}

// decode drops invalid byte sequences; a malformed write never aborts a poll.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
