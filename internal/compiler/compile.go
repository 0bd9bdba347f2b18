package compiler

import (
	"fmt"
	"strings"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
)

// Compile lowers a parsed program to CHIP-8 assembly text, ready for
// chip8.Assemble. It mirrors original_source/c8cc/src/compile.rs's
// Expr::Constant arm exactly: load the return value into V0, load the
// font glyph address for V0 into I, zero V0 and V1, draw the glyph at
// the origin, and loop forever at the fixed address the source jumps
// to.
func Compile(program ProgramNode) (string, error) {
	switch v := program.Func.Statement.Expr.Value.(type) {
	case Constant:
		if v < 0 || v > 0xF {
			return "", fmt.Errorf("c8cc: return value %d must be a single hex digit (0-15)", int(v))
		}
		return render(byte(v)), nil
	case Unary:
		return "", fmt.Errorf("c8cc: unary expressions are not yet supported")
	default:
		return "", fmt.Errorf("c8cc: unrecognized expression node %T", v)
	}
}

func render(retVal byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LD     V0, #%02X\n", retVal)
	fmt.Fprintln(&b, "LD     F, V0")
	fmt.Fprintln(&b, "LD     V0, #00")
	fmt.Fprintln(&b, "LD     V1, #00")
	fmt.Fprintln(&b, "DRW    V0, V1, #F")
	fmt.Fprintf(&b, "JP     #%04X\n", haltAddress)
	return b.String()
}

// haltAddress is the fixed address the compiled program's closing jump
// targets: its own jump instruction, a tight spin loop. It is the sixth
// instruction, five instructions (10 bytes) past chip8.ProgramBase.
const haltAddress = chip8.ProgramBase + 5*2
