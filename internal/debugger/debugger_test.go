package debugger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/display"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/stdin"
)

func newTestDebugger(t *testing.T, lines string) (*Debugger, *chip8.Machine, *bytes.Buffer) {
	t.Helper()
	m := chip8.NewMachine(chip8.DefaultQuirks())
	r := stdin.New(strings.NewReader(lines))
	var out bytes.Buffer
	render := display.New(&out)
	return New(m, r, &out, render), m, &out
}

// waitForLines sleeps long enough for the debugger's background reader
// to publish all lines fed through strings.NewReader before Run drains
// them.
func waitForLines() {
	time.Sleep(20 * time.Millisecond)
}

func TestJumpSetsPC(t *testing.T) {
	d, m, _ := newTestDebugger(t, "j 0x300\nc\n")
	waitForLines()
	if stay := d.Run(); stay {
		t.Fatal("continue should leave debug mode")
	}
	if m.PC != 0x300 {
		t.Fatalf("PC = %#04x, want 0x300", m.PC)
	}
}

func TestNextReturnsStayInDebugMode(t *testing.T) {
	d, _, _ := newTestDebugger(t, "n\n")
	waitForLines()
	if stay := d.Run(); !stay {
		t.Fatal("next should keep the debugger active")
	}
}

func TestPrintRegister(t *testing.T) {
	d, m, out := newTestDebugger(t, "p v0\nc\n")
	m.V[chip8.V0] = 0x42
	waitForLines()
	d.Run()
	if !strings.Contains(out.String(), "0x42") {
		t.Fatalf("print output = %q, want it to contain 0x42", out.String())
	}
}

func TestSetRegisterRejectsOutOfRange(t *testing.T) {
	d, m, out := newTestDebugger(t, "s v0 0x200\nc\n")
	waitForLines()
	d.Run()
	if m.V[chip8.V0] != 0 {
		t.Fatalf("V0 = %#02x, want unchanged (0) after an out-of-range set", m.V[chip8.V0])
	}
	if !strings.Contains(out.String(), "8 bits") {
		t.Fatalf("expected an 8-bit range diagnostic, got %q", out.String())
	}
}

func TestBreakpointSetListRemove(t *testing.T) {
	d, m, out := newTestDebugger(t, "b 0x210\nb list\nb remove 0x210\nc\n")
	waitForLines()
	d.Run()
	if !strings.Contains(out.String(), "0x210") {
		t.Fatalf("breakpoint list output = %q, want it to mention 0x210", out.String())
	}
	if m.AtBreakpoint(0x210) {
		t.Fatal("breakpoint should have been removed")
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	d, _, out := newTestDebugger(t, "push 0x222\npop\nc\n")
	waitForLines()
	d.Run()
	if !strings.Contains(out.String(), "0x222") {
		t.Fatalf("pop output = %q, want it to contain 0x222", out.String())
	}
}

func TestBlankLineReplaysLastCommand(t *testing.T) {
	d, m, _ := newTestDebugger(t, "j 0x400\n\nc\n")
	waitForLines()
	d.Run()
	// the blank line replays "j 0x400" a second time; PC should still
	// land on 0x400, not error out or advance anywhere else.
	if m.PC != 0x400 {
		t.Fatalf("PC = %#04x, want 0x400", m.PC)
	}
}

func TestExamineDumpsBytes(t *testing.T) {
	d, m, out := newTestDebugger(t, "x 4 0x200\nc\n")
	m.Memory[0x200] = 0xAB
	m.Memory[0x201] = 0xCD
	waitForLines()
	d.Run()
	if !strings.Contains(out.String(), "AB CD") {
		t.Fatalf("examine output = %q, want it to contain \"AB CD\"", out.String())
	}
}

func TestRecordStepKeepsOnlyThreeMostRecent(t *testing.T) {
	d, _, _ := newTestDebugger(t, "")
	for i := 0; i < 5; i++ {
		d.RecordStep(uint16(0x200+i*2), 0x00E0, chip8.Decode(0x00E0))
	}
	if len(d.recent) != 3 {
		t.Fatalf("recent ring length = %d, want 3", len(d.recent))
	}
	if d.recent[0].Addr != 0x200+2*2 {
		t.Fatalf("oldest retained entry addr = %#04x, want %#04x", d.recent[0].Addr, 0x200+2*2)
	}
}

func TestHistorySkipsConsecutiveDuplicates(t *testing.T) {
	d, _, _ := newTestDebugger(t, "j 0x300\nj 0x300\nc\n")
	waitForLines()
	d.Run()
	count := 0
	for _, h := range d.history {
		if h == "j 0x300" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("consecutive duplicate \"j 0x300\" entries in history = %d, want 1", count)
	}
}
