// Package runtime drives the single-threaded cooperative fetch/decode/
// execute cycle: it samples the keyboard, advances the machine, paces
// itself to a target step rate, renders frames, and hands control to
// the debugger on Escape or a breakpoint hit.
package runtime

import (
	"time"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/debugger"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/display"
)

// DefaultSpeed is the instruction rate (steps/second) the vsync gate's
// 1-in-12 cadence is tuned against, yielding a 60Hz draw rate.
const DefaultSpeed = 720

// KeySampler returns the currently pressed CHIP-8 key codes and whether
// Escape is currently held. It is the runtime loop's only input source;
// the cmd layer supplies the concrete host-keyboard-backed sampler.
type KeySampler interface {
	Sample() (keys chip8.Keys, escape bool)
}

// Loop bundles a machine with everything the runtime needs to drive it:
// the renderer, the debugger, and the key source.
type Loop struct {
	Machine *chip8.Machine
	Render  *display.Renderer
	Debug   *debugger.Debugger
	Keys    KeySampler
	Speed   int

	debugMode bool
	prevKeys  chip8.Keys
}

// EnterDebug latches debug mode before the first step, equivalent to
// the runtime loop observing Escape on its very first keyboard sample.
func (l *Loop) EnterDebug() {
	l.debugMode = true
}

// New returns a loop ready to Run, with Speed defaulted if zero.
func New(m *chip8.Machine, r *display.Renderer, d *debugger.Debugger, keys KeySampler, speed int) *Loop {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Loop{Machine: m, Render: r, Debug: d, Keys: keys, Speed: speed}
}

// Run executes steps until the machine hits a fatal error or the
// process is otherwise terminated by the host.
func (l *Loop) Run() error {
	period := time.Second / time.Duration(l.Speed)

	for {
		pressed, escape := l.Keys.Sample()
		if escape {
			l.debugMode = true
		}

		pc := l.Machine.PC
		word := l.Machine.Fetch()
		l.Machine.PC = (l.Machine.PC + 2) & chip8.AddressMask
		inst := chip8.Decode(word)

		var snap chip8.Snapshot
		if l.debugMode {
			snap = l.Machine.Snapshot()
		}
		if l.Debug != nil {
			l.Debug.RecordStep(pc, word, inst)
		}

		if _, err := l.Machine.Execute(pc, inst, pressed, l.prevKeys); err != nil {
			return err
		}

		l.Machine.Steps++
		if l.Machine.Steps%12 == 0 {
			l.Machine.DecrementTimers()
		}

		frameBoundary := l.Machine.Steps%12 == 0
		if frameBoundary || l.debugMode {
			var info []string
			if l.debugMode && l.Debug != nil {
				info = l.Debug.InfoLines(snap)
			}
			l.Render.Render(&l.Machine.Display, l.Machine.ST, l.debugMode, info)
		}

		time.Sleep(period)

		if l.debugMode || l.Machine.AtBreakpoint(pc) {
			l.debugMode = true
			if l.Debug != nil {
				l.debugMode = l.Debug.Run()
			}
		}

		l.prevKeys = pressed
	}
}
