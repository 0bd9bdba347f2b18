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

import "fmt"

// DisassembleWord decodes a single 16-bit word and renders it the way
// DisassembleLine renders a memory location: an undecodable word comes
// back as "DB #wwww" rather than an error, matching Decode's total
// contract.
func DisassembleWord(word uint16) string {
	return Decode(word).String()
}

// DisassembleLine decodes the word at address addr in mem and renders
// it address-prefixed, the form the disassembler CLI and the debugger's
// instruction-history panel both use.
func DisassembleLine(mem []byte, addr uint16) string {
	if int(addr)+1 >= len(mem) {
		return fmt.Sprintf("%04X -", addr)
	}
	word := uint16(mem[addr])<<8 | uint16(mem[addr+1])
	return fmt.Sprintf("%04X - %s", addr, DisassembleWord(word))
}

// Disassemble walks mem two bytes at a time from base through the end
// of the slice, producing one address-prefixed line per instruction.
// It never fails: words that don't decode render as "DB #wwww".
func Disassemble(mem []byte, base uint16) []string {
	lines := make([]string, 0, (len(mem)-int(base))/2)
	for addr := int(base); addr+1 < len(mem); addr += 2 {
		lines = append(lines, DisassembleLine(mem, uint16(addr)))
	}
	return lines
}
