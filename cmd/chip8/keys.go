package main

import (
	"os"
	"sync"
	"time"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/keymap"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/term"
)

// holdDuration is how long a sampled keypress counts as "pressed" once
// read. A raw ANSI terminal delivers key-down bytes but no key-up
// event, so — unlike the SDL front end this toolkit's VM logic was
// ported from, which gets real press/release events — presence is
// approximated by a short decay window. This is the one place the
// terminal target genuinely needs different plumbing than the source's
// windowed input, not just a different rendering backend.
const holdDuration = 150 * time.Millisecond

// termKeySampler tracks, for each CHIP-8 key code, whether it was
// observed within the last holdDuration. It does not read stdin itself:
// bytes arrive via Observe, fed by the same background reader that
// feeds the debugger's line buffer, since spec §5 allows only one
// reader thread on the descriptor.
type termKeySampler struct {
	mu       sync.Mutex
	deadline [16]time.Time
	escape   bool
	state    *term.State
}

func newTermKeySampler() (*termKeySampler, error) {
	state, err := term.MakeCbreak(os.Stdin)
	if err != nil {
		return nil, err
	}
	return &termKeySampler{state: state}, nil
}

// Observe records one raw input byte as a possible key-down event. It
// is safe to call from the stdin reader's background goroutine.
func (s *termKeySampler) Observe(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b == 0x1b {
		s.escape = true
		return
	}
	if code, ok := keymap.CodeForKey(rune(b)); ok {
		s.deadline[code] = time.Now().Add(holdDuration)
	}
}

// Sample implements runtime.KeySampler.
func (s *termKeySampler) Sample() (chip8.Keys, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys chip8.Keys
	now := time.Now()
	for i, dl := range s.deadline {
		keys[i] = now.Before(dl)
	}
	escape := s.escape
	s.escape = false
	return keys, escape
}

func (s *termKeySampler) Close() error {
	return s.state.Restore()
}
