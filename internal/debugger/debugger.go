// Package debugger implements the interactive command REPL that the
// runtime loop hands control to on Escape or a breakpoint hit. It is a
// blocking function call between instructions — the simplest correct
// design, since the VM is naturally paused while the REPL runs — mirroring
// the inversion original_source/src/debug_terminal.rs uses for the same
// purpose.
package debugger

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/clog"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/display"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/stdin"
)

// HistEntry is one (address, raw word, decoded instruction) tuple kept
// in the recent-instruction ring the info panel lists above the current
// instruction.
type HistEntry struct {
	Addr uint16
	Raw  uint16
	Inst chip8.Instruction
}

// Debugger holds everything that must survive between REPL entries:
// breakpoints live on the machine itself (so the runtime loop can test
// them without asking the debugger), but command history, the recent-
// instruction ring, and the previous-frame snapshot for diffing live
// here.
type Debugger struct {
	m      *chip8.Machine
	reader *stdin.Reader
	out    io.Writer
	log    *clog.Scrollback
	render *display.Renderer

	history     []string
	historyPos  int
	recent      []HistEntry
	lastCommand string
	lastSnap    chip8.Snapshot
}

// New returns a debugger bound to m, reading commands from r, writing
// diagnostics to out, and refreshing render's side panel whenever a
// command mutates visible VM state without advancing a step.
func New(m *chip8.Machine, r *stdin.Reader, out io.Writer, render *display.Renderer) *Debugger {
	return &Debugger{m: m, reader: r, out: out, log: clog.NewScrollback(), render: render}
}

// RecordStep pushes the just-fetched instruction into the capacity-3
// recent ring, dropping the oldest entry once full.
func (d *Debugger) RecordStep(addr, raw uint16, inst chip8.Instruction) {
	d.recent = append(d.recent, HistEntry{addr, raw, inst})
	if len(d.recent) > 3 {
		d.recent = d.recent[len(d.recent)-3:]
	}
}

// Run blocks, reading and executing debugger commands, until the user
// issues continue (returns false: leave debug mode) or next (returns
// true: stay in debug mode, but let the runtime loop execute one more
// instruction before re-entering). Every other command loops back to
// the prompt.
func (d *Debugger) Run() (stayInDebugMode bool) {
	for {
		line, ok := d.nextLine()
		if !ok {
			continue
		}
		if line == "" {
			line = d.lastCommand
		}
		if line == "" {
			continue
		}
		if line != d.lastCommand {
			d.history = append(d.history, line)
		}
		d.lastCommand = line
		d.historyPos = len(d.history)

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "h", "help":
			d.printHelp()
		case "c", "continue":
			return false
		case "n", "next":
			return true
		case "j", "jump":
			d.cmdJump(args)
		case "p", "print":
			d.cmdPrint(args)
		case "s", "set":
			d.cmdSet(args)
		case "push":
			d.cmdPush(args)
		case "pop":
			d.cmdPop()
		case "b", "breakpoint":
			d.cmdBreakpoint(args)
		case "x", "examine":
			d.cmdExamine(args)
		default:
			d.log.Logf("unknown command %q", cmd)
			fmt.Fprintf(d.out, "? unknown command %q (h for help)\n", cmd)
		}
	}
}

// nextLine polls the background reader until a line arrives; between
// polls it yields briefly so the process doesn't spin a CPU core. It
// also drains any pending history prefill (Up/Down arrow navigation)
// and echoes it, since cbreak mode leaves the terminal's own echo
// disabled — without this the recalled command would silently load
// into the edit buffer and execute on Enter with nothing shown for it.
func (d *Debugger) nextLine() (string, bool) {
	for {
		if s, ok := d.reader.TakeInjected(); ok {
			fmt.Fprintf(d.out, "%s\n", s)
		}
		if line, ok := d.reader.ReadLine(); ok {
			return strings.TrimSpace(line), true
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (d *Debugger) printHelp() {
	fmt.Fprint(d.out, `commands:
  h, help                print this message
  c, continue            leave debug mode
  n, next                execute one instruction, remain in debug mode
  j, jump addr            PC <- addr
  p, print target         print vX | i | pc | d | s | addr
  s, set target value      write vX | i | pc | d | s | addr
  push value              push value onto the call stack
  pop                     pop and print the call stack
  b, breakpoint [addr|list|remove addr]
  x, examine count addr   dump count bytes starting at addr
`)
}

func (d *Debugger) cmdJump(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: jump addr")
		return
	}
	addr, ok := parseNumber(args[0])
	if !ok || addr > chip8.AddressMask {
		fmt.Fprintln(d.out, "bad address")
		return
	}
	d.m.PC = addr
	d.log.Logf("jump pc -> %#04x", addr)
	d.refresh()
}

func (d *Debugger) cmdPrint(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: print target")
		return
	}
	v, err := d.readTarget(args[0])
	if err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	fmt.Fprintf(d.out, "%s = %#04x\n", args[0], v)
}

func (d *Debugger) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(d.out, "usage: set target value")
		return
	}
	value, ok := parseNumber(args[1])
	if !ok {
		fmt.Fprintln(d.out, "bad value")
		return
	}
	if err := d.writeTarget(args[0], value); err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	d.log.Logf("set %s = %#04x", args[0], value)
	d.refresh()
}

func (d *Debugger) cmdPush(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "usage: push value")
		return
	}
	v, ok := parseNumber(args[0])
	if !ok || v > chip8.AddressMask {
		fmt.Fprintln(d.out, "bad address")
		return
	}
	if err := d.m.Push(v); err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	d.log.Logf("push %#04x", v)
	d.refresh()
}

func (d *Debugger) cmdPop() {
	v, err := d.m.Pop()
	if err != nil {
		fmt.Fprintln(d.out, "stack empty")
		return
	}
	fmt.Fprintf(d.out, "%#04x\n", v)
	d.log.Logf("pop %#04x", v)
	d.refresh()
}

func (d *Debugger) cmdBreakpoint(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(d.out, "usage: breakpoint addr|list|remove addr")
		return
	}
	switch args[0] {
	case "l", "list":
		for addr := range d.m.Breakpoints {
			fmt.Fprintf(d.out, "%#04x\n", addr)
		}
	case "r", "remove":
		if len(args) != 2 {
			fmt.Fprintln(d.out, "usage: breakpoint remove addr")
			return
		}
		addr, ok := parseNumber(args[1])
		if !ok {
			fmt.Fprintln(d.out, "bad address")
			return
		}
		d.m.RemoveBreakpoint(addr)
		d.log.Logf("breakpoint removed at %#04x", addr)
		d.refresh()
	default:
		addr, ok := parseNumber(args[0])
		if !ok || addr > chip8.AddressMask {
			fmt.Fprintln(d.out, "bad address")
			return
		}
		d.m.SetBreakpoint(addr)
		d.log.Logf("breakpoint set at %#04x", addr)
		d.refresh()
	}
}

// refresh redraws the side panel in place — is_debug stays true and no
// step advances — so a command that mutates visible VM state (PC, a
// register, I, the stack, a breakpoint) doesn't leave the panel stale
// until the next instruction steps, per spec §4.7.
func (d *Debugger) refresh() {
	if d.render == nil {
		return
	}
	d.render.Render(&d.m.Display, d.m.ST, true, d.InfoLines(d.lastSnap))
}

func (d *Debugger) cmdExamine(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(d.out, "usage: examine count addr")
		return
	}
	count, ok1 := parseNumber(args[0])
	addr, ok2 := parseNumber(args[1])
	if !ok1 || !ok2 {
		fmt.Fprintln(d.out, "bad count or address")
		return
	}
	for i := uint16(0); i < count; i += 8 {
		fmt.Fprintf(d.out, "%04X:", (addr+i)&chip8.AddressMask)
		for j := uint16(0); j < 8 && i+j < count; j++ {
			fmt.Fprintf(d.out, " %02X", d.m.Memory[(addr+i+j)&chip8.AddressMask])
		}
		fmt.Fprintln(d.out)
	}
}

// readTarget resolves "vX", "i", "pc", "d", "s", or a bare address into
// its current value.
func (d *Debugger) readTarget(target string) (uint16, error) {
	t := strings.ToLower(target)
	switch t {
	case "i":
		return d.m.I, nil
	case "pc":
		return d.m.PC, nil
	case "d":
		return uint16(d.m.DT), nil
	case "s":
		return uint16(d.m.ST), nil
	}
	if reg, ok := parseRegisterName(t); ok {
		return uint16(d.m.V[reg]), nil
	}
	if addr, ok := parseNumber(target); ok {
		return uint16(d.m.Memory[addr&chip8.AddressMask]), nil
	}
	return 0, fmt.Errorf("unrecognized target %q", target)
}

// writeTarget validates value's bit width for target before writing.
func (d *Debugger) writeTarget(target string, value uint16) error {
	t := strings.ToLower(target)
	switch t {
	case "i":
		if value > chip8.AddressMask {
			return fmt.Errorf("i must fit in 12 bits")
		}
		d.m.I = value
		return nil
	case "pc":
		if value > chip8.AddressMask {
			return fmt.Errorf("pc must fit in 12 bits")
		}
		d.m.PC = value
		return nil
	case "d":
		if value > 0xFF {
			return fmt.Errorf("delay timer must fit in 8 bits")
		}
		d.m.DT = byte(value)
		return nil
	case "s":
		if value > 0xFF {
			return fmt.Errorf("sound timer must fit in 8 bits")
		}
		d.m.ST = byte(value)
		return nil
	}
	if reg, ok := parseRegisterName(t); ok {
		if value > 0xFF {
			return fmt.Errorf("register must fit in 8 bits")
		}
		d.m.V[reg] = byte(value)
		return nil
	}
	if addr, ok := parseNumber(target); ok {
		if value > 0xFF {
			return fmt.Errorf("memory write must fit in 8 bits")
		}
		d.m.Memory[addr&chip8.AddressMask] = byte(value)
		return nil
	}
	return fmt.Errorf("unrecognized target %q", target)
}

func parseRegisterName(t string) (chip8.Register, bool) {
	if len(t) != 2 || t[0] != 'v' {
		return 0, false
	}
	n, err := strconv.ParseUint(t[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return chip8.RegisterFromNibble(uint8(n)), true
}

// parseNumber accepts decimal, 0x-prefixed hex, and 0b-prefixed binary,
// per the three forms the debugger grammar promises.
func parseNumber(tok string) (uint16, bool) {
	switch {
	case strings.HasPrefix(tok, "0x"), strings.HasPrefix(tok, "0X"):
		v, err := strconv.ParseUint(tok[2:], 16, 16)
		return uint16(v), err == nil
	case strings.HasPrefix(tok, "0b"), strings.HasPrefix(tok, "0B"):
		v, err := strconv.ParseUint(tok[2:], 2, 16)
		return uint16(v), err == nil
	default:
		v, err := strconv.ParseUint(tok, 10, 16)
		return uint16(v), err == nil
	}
}

// HistoryUp returns the previous history entry (older), or ("", false)
// at the beginning.
func (d *Debugger) HistoryUp() (string, bool) {
	if d.historyPos == 0 {
		return "", false
	}
	d.historyPos--
	return d.history[d.historyPos], true
}

// HistoryDown returns the next history entry (newer), or ("", true)
// once past the end (an empty prefill).
func (d *Debugger) HistoryDown() (string, bool) {
	if d.historyPos >= len(d.history) {
		return "", false
	}
	d.historyPos++
	if d.historyPos == len(d.history) {
		return "", true
	}
	return d.history[d.historyPos], true
}

// InfoLines renders the panel the renderer places beside the display:
// recent/current/predicted instructions, 16 register rows annotated
// against prev, the I-triple, and the stack and timers. It caches prev
// so a later in-REPL refresh (a mutation command redrawing the panel
// without a step advancing) diffs against the same baseline.
func (d *Debugger) InfoLines(prev chip8.Snapshot) []string {
	d.lastSnap = prev
	var lines []string

	for _, h := range d.recentDimmed() {
		lines = append(lines, "  "+h)
	}
	if len(d.recent) > 0 {
		cur := d.recent[len(d.recent)-1]
		lines = append(lines, "> "+chip8.DisassembleLine(d.m.Memory[:], cur.Addr))
	}
	for _, p := range d.predict() {
		lines = append(lines, "? "+p)
	}

	lines = append(lines, "")
	for r := 0; r < 16; r++ {
		reg := chip8.Register(r)
		line := fmt.Sprintf("%-3s %02X", reg, d.m.V[r])
		if d.m.V[r] != prev.Registers[r] {
			line += fmt.Sprintf(" (was %02X)", prev.Registers[r])
		}
		lines = append(lines, line)
	}

	lines = append(lines, fmt.Sprintf("I   %03X -> %02X %02X", d.m.I, d.m.Memory[d.m.I], d.m.Memory[(d.m.I+2)&chip8.AddressMask]))
	lines = append(lines, fmt.Sprintf("DT  %-3d ST %d", d.m.DT, d.m.ST))
	lines = append(lines, d.stackLine())

	if log := d.log.Window(logWindowDepth); len(log) > 0 {
		lines = append(lines, "")
		for _, l := range log {
			lines = append(lines, "log: "+l)
		}
	}

	return lines
}

// logWindowDepth bounds how many trailing Scrollback lines the info
// panel shows below the register/stack block.
const logWindowDepth = 4

// stackLine renders the top stackDisplayDepth call-stack entries,
// most-recently-pushed first, aligned in fixed-width hex columns — the
// "aligned columns for stack contents (top-N)" the info panel requires
// alongside the two timers.
func (d *Debugger) stackLine() string {
	if d.m.SP == 0 {
		return "STK (empty)"
	}
	depth := int(d.m.SP)
	if depth > stackDisplayDepth {
		depth = stackDisplayDepth
	}
	var b strings.Builder
	b.WriteString("STK")
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, " %03X", d.m.Stack[int(d.m.SP)-1-i])
	}
	if int(d.m.SP) > depth {
		b.WriteString(" ...")
	}
	return b.String()
}

// stackDisplayDepth caps how many call-stack entries the info panel
// shows; the full stack is already bounded to chip8.StackSize, but a
// long panel line wraps ugly in an 80-column terminal.
const stackDisplayDepth = 8

func (d *Debugger) recentDimmed() []string {
	if len(d.recent) <= 1 {
		return nil
	}
	past := d.recent[:len(d.recent)-1]
	out := make([]string, 0, len(past))
	for _, h := range past {
		out = append(out, chip8.DisassembleLine(d.m.Memory[:], h.Addr))
	}
	return out
}

// predict best-effort computes the next 3 instruction addresses from
// the current PC, following Jump/JumpOffset/SubroutineCall statically
// and peeking the stack for SubroutineReturn; every other instruction
// predicts PC+2.
func (d *Debugger) predict() []string {
	if len(d.recent) == 0 {
		return nil
	}
	pc := d.m.PC
	var out []string
	for i := 0; i < 3; i++ {
		word := uint16(d.m.Memory[pc])<<8 | uint16(d.m.Memory[(pc+1)&chip8.AddressMask])
		inst := chip8.Decode(word)
		out = append(out, chip8.DisassembleLine(d.m.Memory[:], pc))

		switch inst.Kind {
		case chip8.Jump:
			pc = inst.NNN
		case chip8.JumpOffset:
			pc = (inst.NNN + uint16(d.m.V[chip8.V0])) & chip8.AddressMask
		case chip8.SubroutineCall:
			pc = inst.NNN
		case chip8.SubroutineReturn:
			if d.m.SP == 0 {
				return out
			}
			pc = d.m.Stack[d.m.SP-1]
		default:
			pc = (pc + 2) & chip8.AddressMask
		}
	}
	return out
}
