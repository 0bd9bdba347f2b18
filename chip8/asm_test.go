package chip8

import (
	"strings"
	"testing"
)

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
		CLS
		JP #020A
	`
	asm, err := Assemble([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0xE0, 0x12, 0x0A}
	if len(asm.ROM) != len(want) {
		t.Fatalf("ROM length = %d, want %d", len(asm.ROM), len(want))
	}
	for i, b := range want {
		if asm.ROM[i] != b {
			t.Errorf("ROM[%d] = %#02x, want %#02x", i, asm.ROM[i], b)
		}
	}
}

func TestAssembleForwardLabelReference(t *testing.T) {
	src := `
		JP :loop
		:loop
		CLS
	`
	asm, err := Assemble([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	inst := Decode(uint16(asm.ROM[0])<<8 | uint16(asm.ROM[1]))
	if inst.Kind != Jump || inst.NNN != ProgramBase+2 {
		t.Fatalf("JP :loop = %+v, want Jump to %#04x", inst, ProgramBase+2)
	}
}

func TestAssembleDisassembleRoundTrip(t *testing.T) {
	src := `
		LD     V0, #0A
		LD     V1, #00
		ADD    V0, V1
		DRW    V0, V1, #5
		JP     #0200
	`
	asm, err := Assemble([]byte(src))
	if err != nil {
		t.Fatal(err)
	}

	mem := make([]byte, MemorySize)
	copy(mem[ProgramBase:], asm.ROM)

	lines := Disassemble(mem[:ProgramBase+len(asm.ROM)], ProgramBase)
	if len(lines) != len(asm.ROM)/2 {
		t.Fatalf("got %d disassembled lines, want %d", len(lines), len(asm.ROM)/2)
	}

	var disasm strings.Builder
	for _, line := range lines {
		_, text, ok := strings.Cut(line, " - ")
		if !ok {
			t.Fatalf("disassembled line %q has no address prefix", line)
		}
		disasm.WriteString(text + "\n")
	}

	reasm, err := Assemble([]byte(disasm.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(reasm.ROM) != len(asm.ROM) {
		t.Fatalf("re-assembled length %d != original %d", len(reasm.ROM), len(asm.ROM))
	}
	for i := range asm.ROM {
		if reasm.ROM[i] != asm.ROM[i] {
			t.Errorf("byte %d differs: %#02x vs %#02x", i, reasm.ROM[i], asm.ROM[i])
		}
	}
}

func TestAssembleUnresolvedLabelErrors(t *testing.T) {
	_, err := Assemble([]byte("JP :nowhere\n"))
	if err == nil {
		t.Fatal("expected an unresolved-label error")
	}
}
