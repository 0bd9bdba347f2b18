// Package display renders the CHIP-8 framebuffer inline to an ANSI
// terminal: cursor repositioning via raw escape codes rather than a
// full-screen takeover, so the debugger's line-buffered REPL can
// coexist with the emulator's own redraws — the same reasoning
// original_source/src/debug_terminal.rs applies to its prompt redraw.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
)

// cellState is which of the four diff-animated glyphs a cell renders.
type cellState int

const (
	blank cellState = iota
	stillOn
	newlyOn
	newlyOff
)

// Renderer owns the previous frame's pixels so it can diff against the
// current ones, and a termenv color profile so cell styling degrades
// gracefully on terminals without full color.
type Renderer struct {
	out     io.Writer
	profile termenv.Profile

	prev    [chip8.DisplayWidth * chip8.DisplayHeight]bool
	primed  bool
	lines   int // lines written by the previous Render call, for cursor-up repositioning
}

// New returns a renderer writing ANSI output to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out, profile: termenv.ColorProfile()}
}

var (
	styleBlank    = func(p termenv.Profile) termenv.Style { return termenv.String(" ").Foreground(p.Color("240")) }
	styleStillOn  = func(p termenv.Profile) termenv.Style { return termenv.String("#").Foreground(p.Color("15")) }
	styleNewlyOn  = func(p termenv.Profile) termenv.Style { return termenv.String("#").Foreground(p.Color("10")).Bold() }
	styleNewlyOff = func(p termenv.Profile) termenv.Style { return termenv.String("#").Foreground(p.Color("9")) }
)

func glyph(p termenv.Profile, s cellState) string {
	switch s {
	case stillOn:
		return styleStillOn(p).String()
	case newlyOn:
		return styleNewlyOn(p).String()
	case newlyOff:
		return styleNewlyOff(p).String()
	default:
		return styleBlank(p).String()
	}
}

// Render draws one frame: the display grid bordered top/bottom and on
// the right, a sound indicator beside the top border when st != 0, and
// — when isDebug — the debugger's pre-computed info lines to the right
// of each display row.
func (r *Renderer) Render(d *[chip8.DisplayWidth * chip8.DisplayHeight]bool, st byte, isDebug bool, infoLines []string) {
	if r.primed {
		// move cursor back to the top-left of the previous frame.
		fmt.Fprintf(r.out, "\x1b[%dA", r.lines)
	}

	var b strings.Builder
	lineCount := 0

	writeLine := func(s string) {
		b.WriteString("\x1b[2K\r")
		b.WriteString(s)
		b.WriteByte('\n')
		lineCount++
	}

	top := "+" + strings.Repeat("-", chip8.DisplayWidth) + "+"
	if st != 0 {
		top += " (*)"
	}
	writeLine(top)

	for y := 0; y < chip8.DisplayHeight; y++ {
		var row strings.Builder
		row.WriteByte('|')
		for x := 0; x < chip8.DisplayWidth; x++ {
			idx := y*chip8.DisplayWidth + x
			cur := d[idx]
			was := r.primed && r.prev[idx]

			state := blank
			switch {
			case cur && was:
				state = stillOn
			case cur && !was:
				state = newlyOn
			case !cur && was:
				state = newlyOff
			}
			row.WriteString(glyph(r.profile, state))
		}
		row.WriteByte('|')

		if isDebug && y < len(infoLines) {
			row.WriteString("  ")
			row.WriteString(infoLines[y])
		}

		writeLine(row.String())
	}

	writeLine("+" + strings.Repeat("-", chip8.DisplayWidth) + "+")

	if isDebug {
		for i := chip8.DisplayHeight + 2; i < len(infoLines); i++ {
			writeLine(infoLines[i])
		}
	}

	io.WriteString(r.out, b.String())

	r.prev = *d
	r.primed = true
	r.lines = lineCount
}
