// Package stdin provides a background, line-buffered, non-blocking
// reader for the debugger's command prompt, plus an injection channel
// the debugger uses to pre-fill the edit buffer during history
// navigation. Both directions are single-producer/single-consumer.
//
// Host keyboard sampling for gameplay rides the same byte stream: a
// raw-mode terminal hands us individual keydown bytes with no
// line-discipline help, and spec §5 allows exactly one background
// thread besides the main loop. Rather than open a second goroutine
// that also reads os.Stdin — which would race this one for bytes —
// the reader fans every non-escape-sequence byte out through an
// optional observer callback before folding it into the line buffer.
package stdin

import (
	"bufio"
	"io"
	"sync"
)

// HistoryNav supplies the debugger's command history to the reader so
// Up/Down arrow bytes can pre-fill the in-progress edit buffer, per
// spec §4.6/§4.7's history navigation.
type HistoryNav struct {
	Up   func() (string, bool)
	Down func() (string, bool)
}

// Reader reads raw bytes from an underlying io.Reader on a background
// goroutine, assembles them into newline-terminated lines, and
// publishes completed lines on a buffered channel so the caller can
// poll without blocking. The channel holds 64 lines; while 64 are
// pending, the background goroutine waits until the caller takes one.
// It runs for the rest of the process; there is no Close.
type Reader struct {
	lines  chan string
	inject chan string

	cfgMu  sync.Mutex
	nav    HistoryNav
	onByte func(b byte)
}

// New starts the background reader over r (normally os.Stdin).
func New(r io.Reader) *Reader {
	rd := &Reader{
		lines:  make(chan string, 64),
		inject: make(chan string, 1),
	}
	go rd.run(r)
	return rd
}

// SetOnByte wires a callback invoked for every raw byte that is not
// part of a recognized arrow-key escape sequence — this is how the
// host-key sampler observes keystrokes without opening its own reader
// on the same file descriptor. Safe to call concurrently with the
// background reader goroutine.
func (rd *Reader) SetOnByte(fn func(b byte)) {
	rd.cfgMu.Lock()
	rd.onByte = fn
	rd.cfgMu.Unlock()
}

// SetHistoryNav wires Up/Down arrow handling to the debugger's history.
// Safe to call concurrently with the background reader goroutine.
func (rd *Reader) SetHistoryNav(nav HistoryNav) {
	rd.cfgMu.Lock()
	rd.nav = nav
	rd.cfgMu.Unlock()
}

func (rd *Reader) run(r io.Reader) {
	br := bufio.NewReader(r)
	var buf []byte

	emit := func(b byte) {
		rd.cfgMu.Lock()
		fn := rd.onByte
		rd.cfgMu.Unlock()
		if fn != nil {
			fn(b)
		}
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			close(rd.lines)
			return
		}

		if b == 0x1b {
			next, err := br.Peek(1)
			if err != nil || next[0] != '[' {
				emit(b)
				continue
			}
			br.ReadByte() // consume '['
			dir, err := br.ReadByte()
			if err != nil {
				continue
			}

			rd.cfgMu.Lock()
			nav := rd.nav
			rd.cfgMu.Unlock()

			switch dir {
			case 'A': // Up
				if nav.Up != nil {
					if s, ok := nav.Up(); ok {
						buf = []byte(s)
						rd.Inject(s)
					}
				}
			case 'B': // Down
				if nav.Down != nil {
					if s, ok := nav.Down(); ok {
						buf = []byte(s)
						rd.Inject(s)
					}
				}
			default:
				// left/right and anything else: not part of the
				// history-navigation contract, ignored.
			}
			continue
		}

		if b == '\n' || b == '\r' {
			emit(b)
			if len(buf) == 0 && b == '\r' {
				continue
			}
			line := string(buf)
			buf = buf[:0]
			rd.lines <- line
			continue
		}

		buf = append(buf, b)
		emit(b)
	}
}

// ReadLine returns the next completed line and true, or ("", false) if
// none is available yet. It never blocks.
func (rd *Reader) ReadLine() (string, bool) {
	select {
	case line, ok := <-rd.lines:
		return line, ok
	default:
		return "", false
	}
}

// Inject delivers a string that a subsequent prompt redraw should treat
// as the current edit buffer contents, for history Up/Down navigation.
func (rd *Reader) Inject(s string) {
	select {
	case rd.inject <- s:
	default:
		// drop the stale prefill if the debugger hasn't consumed the
		// previous one yet; only the latest history position matters.
		select {
		case <-rd.inject:
		default:
		}
		rd.inject <- s
	}
}

// TakeInjected returns a pending prefill string and true, or ("", false)
// if none is pending.
func (rd *Reader) TakeInjected() (string, bool) {
	select {
	case s := <-rd.inject:
		return s, true
	default:
		return "", false
	}
}
