// Package classify categorizes chunks of monitored log text.
//
// Classification is ordered and exclusive: error outranks success outranks
// running, and anything else is generic activity. A chunk matching both an
// error and a success pattern therefore reports only the error. Patterns are
// matched within a single chunk; text split across two reads is never joined,
// so a pattern straddling a chunk boundary goes undetected.
package classify

import "regexp"

// Kind is the category assigned to one chunk of log text.
type Kind int

const (
	Generic Kind = iota
	Running
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Running:
		return "running"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "generic"
	}
}

var (
	errorPattern   = regexp.MustCompile(`(?i)error|failed|exception|traceback|fatal`)
	successPattern = regexp.MustCompile(`(?i)success|passed|done|completed|finished`)
	runningPattern = regexp.MustCompile(`(?i)running|executing|pytest|npm test|pnpm test|yarn test|build|compile|install`)
)

// Chunk classifies one chunk of log text, first match wins.
func Chunk(text string) Kind {
	switch {
	case errorPattern.MatchString(text):
		return Error
	case successPattern.MatchString(text):
		return Success
	case runningPattern.MatchString(text):
		return Running
	default:
		return Generic
	}
}
