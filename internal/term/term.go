// Package term puts stdin into cbreak mode so the runtime loop can
// sample single keystrokes (including Escape) without waiting on Enter,
// while the debugger's line-buffered prompt still reads whole lines
// through the same descriptor. Raw-mode handling is done directly with
// termios ioctls, the same layer golang.org/x/sys/unix exposes to every
// other terminal-driving example in this corpus.
package term

import (
	"os"

	"golang.org/x/sys/unix"
)

// State is a saved terminal mode that Restore can put back.
type State struct {
	fd     int
	saved  unix.Termios
	active bool
}

// MakeCbreak switches fd (normally os.Stdin's) into cbreak mode:
// unbuffered, unechoed, but signal-generating keys still work. The
// returned State restores the original mode.
func MakeCbreak(f *os.File) (*State, error) {
	fd := int(f.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetAttr)
	if err != nil {
		return nil, err
	}
	saved := *termios

	raw := *termios
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetAttr, &raw); err != nil {
		return nil, err
	}

	return &State{fd: fd, saved: saved, active: true}, nil
}

// Restore puts the terminal back into the mode captured by MakeCbreak.
// Safe to call once; a second call is a no-op.
func (s *State) Restore() error {
	if s == nil || !s.active {
		return nil
	}
	s.active = false
	return unix.IoctlSetTermios(s.fd, ioctlSetAttr, &s.saved)
}
