package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetBlitsFontAndLoadsROM(t *testing.T) {
	m := NewMachine(DefaultQuirks())
	rom := []byte{0x00, 0xE0, 0x12, 0x0A}

	require.NoError(t, m.LoadROM(rom))
	assert.Equal(t, uint16(ProgramBase), m.PC)
	for i, b := range rom {
		assert.Equalf(t, b, m.Memory[ProgramBase+i], "Memory[%#04x]", ProgramBase+i)
	}
	assert.Equal(t, font[0], m.Memory[FontBase], "font not blitted at FontBase")

	m.V[V0] = 0xAB
	m.Reset()
	assert.Equal(t, byte(0), m.V[V0], "V0 after Reset")
	assert.Equal(t, rom[0], m.Memory[ProgramBase], "Reset did not reload the ROM")
}

func TestBreakpoints(t *testing.T) {
	m := NewMachine(DefaultQuirks())
	m.SetBreakpoint(0x204)

	require.True(t, m.AtBreakpoint(0x204))
	m.RemoveBreakpoint(0x204)
	assert.False(t, m.AtBreakpoint(0x204))
}

func TestPushPopStackOverflow(t *testing.T) {
	m := NewMachine(DefaultQuirks())
	for i := 0; i < StackSize; i++ {
		require.NoErrorf(t, m.Push(uint16(0x200+i*2)), "push at depth %d", i)
	}
	assert.Error(t, m.Push(0x300), "expected overflow error on the 17th push")

	for i := StackSize - 1; i >= 0; i-- {
		v, err := m.Pop()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x200+i*2), v)
	}
	_, err := m.Pop()
	assert.Error(t, err, "expected underflow error on empty stack")
}

func TestDecrementTimersSaturatesAtZero(t *testing.T) {
	m := NewMachine(DefaultQuirks())
	m.DT, m.ST = 0, 1

	m.DecrementTimers()
	assert.Equal(t, byte(0), m.DT, "DT saturated")
	assert.Equal(t, byte(0), m.ST)
}
