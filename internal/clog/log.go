// Package clog provides the two logging surfaces this toolkit needs: a
// charmbracelet/log timestamped logger for CLI-level messages, and a
// plain, timestamp-free scrollback window for the VM's own in-session
// log, shaped after the ring-buffered Window the original SDL front end
// scrolled through.
package clog

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// CLI is the root logger for command-line concerns: flag parsing,
// ROM/source loading, and errors returned to the process boundary. A
// VM FatalError from the run loop is printed to stderr directly instead.
var CLI = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
	Prefix:          "chip8",
})

// Scrollback is a ring-style log the debugger's info panel renders a
// trailing window of, the same role massung-CHIP-8/logger.go's Logger
// played for the SDL log panel, minus the scroll-position bookkeeping
// a line-oriented ANSI renderer doesn't need.
type Scrollback struct {
	lines []string
}

// NewScrollback returns an empty scrollback log.
func NewScrollback() *Scrollback {
	return &Scrollback{lines: make([]string, 0, 128)}
}

// Logf appends one formatted line, dropping the oldest lines once more
// than 128 are held.
func (s *Scrollback) Logf(format string, args ...interface{}) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
	if len(s.lines) > 128 {
		s.lines = s.lines[len(s.lines)-128:]
	}
}

// Window returns the last n lines (or fewer, near the start).
func (s *Scrollback) Window(n int) []string {
	if n >= len(s.lines) {
		return s.lines
	}
	return s.lines[len(s.lines)-n:]
}
