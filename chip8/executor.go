/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

// Keys is the 16-entry pressed/released sample the runtime loop builds
// from the host keymap before every fetch. Index is the CHIP-8 logical
// key code 0..F, not a host key.
type Keys [16]bool

// Execute mutates machine state per the semantics of a single decoded
// instruction. It is a total function over (Instruction, pressed,
// prevPressed, step count): every Kind is handled below, and the
// exhaustiveness of the switch — not a dispatch table — is the guard
// against a forgotten opcode.
//
// Draw and GetKey can both decline to commit this step; in that case
// Execute rewinds PC by 2 so the runtime loop re-fetches the same
// instruction next step, and returns (false, nil). Every other
// instruction returns (true, nil) on success, or an error from the
// FatalError taxonomy.
//
// addr is the instruction's own address — PC before the runtime loop's
// fetch increment — so a FatalError raised here (or by Push/Pop/setPC/
// setIndex below, which PC has often already moved past by the time
// they fail) names the instruction that actually failed rather than
// whatever comes next.
func (m *Machine) Execute(addr uint16, inst Instruction, pressed, prevPressed Keys) (bool, error) {
	m.execAddr = addr

	switch inst.Kind {
	case Db:
		return false, m.fatalf("undecodable instruction %#04x", inst.Raw)

	case ExecuteMachineLanguageRoutine:
		return false, m.fatalf("0NNN native call to %#04x is not hosted", inst.NNN)

	case Clear:
		for i := range m.Display {
			m.Display[i] = false
		}

	case SubroutineReturn:
		addr, err := m.Pop()
		if err != nil {
			return false, err
		}
		if err := m.setPC(addr); err != nil {
			return false, err
		}

	case Jump:
		if err := m.setPC(inst.NNN); err != nil {
			return false, err
		}

	case SubroutineCall:
		if err := m.Push(m.PC); err != nil {
			return false, err
		}
		if err := m.setPC(inst.NNN); err != nil {
			return false, err
		}

	case SkipConditional1:
		if m.V[inst.X] == inst.NN {
			m.skip()
		}

	case SkipConditional2:
		if m.V[inst.X] != inst.NN {
			m.skip()
		}

	case SkipConditional3:
		if m.V[inst.X] == m.V[inst.Y] {
			m.skip()
		}

	case SetRegister:
		m.V[inst.X] = inst.NN

	case Add:
		m.V[inst.X] += inst.NN

	case RegSet:
		m.V[inst.X] = m.V[inst.Y]

	case BinaryOr:
		m.V[inst.X] |= m.V[inst.Y]
		m.V[VF] = 0

	case BinaryAnd:
		m.V[inst.X] &= m.V[inst.Y]
		m.V[VF] = 0

	case BinaryXor:
		m.V[inst.X] ^= m.V[inst.Y]
		m.V[VF] = 0

	case RegAdd:
		sum := uint16(m.V[inst.X]) + uint16(m.V[inst.Y])
		modulus := uint16(256)
		if m.Quirks.AddWrapsMod255 {
			modulus = 255
		}
		carry := byte(0)
		if sum > 255 {
			carry = 1
		}
		m.V[inst.X] = byte(sum % modulus)
		m.V[VF] = carry

	case Subtract1:
		vx, vy := m.V[inst.X], m.V[inst.Y]
		flag := byte(0)
		if vx >= vy {
			flag = 1
		}
		m.V[inst.X] = vx - vy
		m.V[VF] = flag

	case ShiftRight:
		src := m.V[inst.X]
		if m.Quirks.ShiftUsesVY {
			src = m.V[inst.Y]
		}
		m.V[inst.X] = src >> 1
		m.V[VF] = src & 0x1

	case Subtract2:
		vx, vy := m.V[inst.X], m.V[inst.Y]
		flag := byte(0)
		if vy >= vx {
			flag = 1
		}
		m.V[inst.X] = vy - vx
		m.V[VF] = flag

	case ShiftLeft:
		src := m.V[inst.X]
		if m.Quirks.ShiftUsesVY {
			src = m.V[inst.Y]
		}
		m.V[inst.X] = src << 1
		m.V[VF] = (src >> 7) & 0x1

	case SkipConditional4:
		if m.V[inst.X] != m.V[inst.Y] {
			m.skip()
		}

	case SetIndexRegister:
		if err := m.setIndex(inst.NNN); err != nil {
			return false, err
		}

	case JumpOffset:
		if err := m.setPC((inst.NNN + uint16(m.V[V0])) & AddressMask); err != nil {
			return false, err
		}

	case Random:
		m.V[inst.X] = byte(m.rng.Intn(256)) & inst.NN

	case Draw:
		if m.Steps%12 != 1 {
			m.rewind()
			return false, nil
		}
		m.draw(inst)

	case SkipIfKey:
		if pressed[m.V[inst.X]&0x0F] {
			m.skip()
		}

	case SkipIfNotKey:
		if !pressed[m.V[inst.X]&0x0F] {
			m.skip()
		}

	case GetDelayTimer:
		m.V[inst.X] = m.DT

	case GetKey:
		code, ok := releaseEdge(pressed, prevPressed)
		if !ok {
			m.rewind()
			return false, nil
		}
		m.V[inst.X] = code

	case SetDelayTimer:
		m.DT = m.V[inst.X]

	case SetSoundTimer:
		m.ST = m.V[inst.X]

	case AddToIndex:
		m.I = (m.I + uint16(m.V[inst.X])) & AddressMask

	case FontCharacter:
		addr := FontAddress(m.V[inst.X])
		if m.Quirks.FontWritesAddressToMemory {
			m.Memory[m.I] = byte(addr >> 8)
			m.Memory[(m.I+1)&AddressMask] = byte(addr)
		} else if err := m.setIndex(addr); err != nil {
			return false, err
		}

	case BCD:
		v := m.V[inst.X]
		m.Memory[m.I] = v / 100
		m.Memory[(m.I+1)&AddressMask] = (v / 10) % 10
		m.Memory[(m.I+2)&AddressMask] = v % 10

	case StoreMemory:
		i := m.I
		for r := uint8(0); r <= inst.X.Index(); r++ {
			m.Memory[i&AddressMask] = m.V[r]
			i++
		}
		if m.Quirks.IncrementIndexOnMemoryOp {
			m.I = i & AddressMask
		}

	case LoadMemory:
		i := m.I
		for r := uint8(0); r <= inst.X.Index(); r++ {
			m.V[r] = m.Memory[i&AddressMask]
			i++
		}
		if m.Quirks.IncrementIndexOnMemoryOp {
			m.I = i & AddressMask
		}

	default:
		return false, m.fatalf("unhandled instruction kind %d", inst.Kind)
	}

	return true, nil
}

// skip advances PC by one additional instruction width, for the four
// SkipConditional variants.
func (m *Machine) skip() {
	m.PC = (m.PC + 2) & AddressMask
}

// rewind backs PC up by one instruction width so the runtime loop
// re-fetches and re-attempts the same word next step. Used by Draw's
// vsync gate and GetKey's edge wait.
func (m *Machine) rewind() {
	m.PC = (m.PC - 2) & AddressMask
}

// releaseEdge finds a key held last sample but not this one, per the
// single release-edge GetKey blocks on.
func releaseEdge(pressed, prevPressed Keys) (byte, bool) {
	for code := 0; code < len(prevPressed); code++ {
		if prevPressed[code] && !pressed[code] {
			return byte(code), true
		}
	}
	return 0, false
}

// draw XORs an N-row, 8-column sprite from memory[I:I+N] onto the
// display at (VX mod width, VY mod height), clipping at the edges
// rather than wrapping, and sets VF if any pixel flipped on→off.
func (m *Machine) draw(inst Instruction) {
	ox := int(m.V[inst.X]) % DisplayWidth
	oy := int(m.V[inst.Y]) % DisplayHeight

	collision := false

	for row := 0; row < int(inst.N); row++ {
		y := oy + row
		if y >= DisplayHeight {
			break
		}
		rowByte := m.Memory[(m.I+uint16(row))&AddressMask]

		for col := 0; col < 8; col++ {
			x := ox + col
			if x >= DisplayWidth {
				break
			}
			if rowByte&(0x80>>uint(col)) == 0 {
				continue
			}

			idx := y*DisplayWidth + x
			was := m.Display[idx]
			m.Display[idx] = !was
			if was && !m.Display[idx] {
				collision = true
			}
		}
	}

	if collision {
		m.V[VF] = 1
	} else {
		m.V[VF] = 0
	}
}
