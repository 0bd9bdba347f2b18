// Command chip8 is the toolkit's entry point: a cobra command tree
// exposing the virtual machine's interactive debugger, the two-pass
// assembler, the disassembler, and the miniature C compiler.
package main

import (
	"os"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nathan-anderson16/chip-8-toolkit/internal/clog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		clog.CLI.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chip8 [rom]",
		Short: "A CHIP-8 virtual machine, debugger, assembler, disassembler, and compiler",
		// No Args validator here: an invocation-count mismatch (0, or 2+,
		// positional args) must print usage and exit 0, not trip cobra's
		// own arg-count error path, which Execute() would otherwise
		// surface as a non-nil error and exit 1.
		RunE: func(cmd *cobra.Command, args []string) error {
			// "chip8 <rom>" is an alias for "chip8 run <rom>".
			if len(args) != 1 {
				return cmd.Usage()
			}
			return runCmd().RunE(cmd, args)
		},
	}

	root.AddCommand(runCmd(), asmCmd(), disasmCmd(), ccCmd())
	return root
}

// isTextSource guesses whether program is an assembly source file
// rather than packed opcode bytes, the same heuristic
// massung-CHIP-8/chip8/chip8.go's LoadFile uses: any non-whitespace,
// non-printable byte means it must be binary.
func isTextSource(program []byte) bool {
	for _, r := range string(program) {
		if !unicode.IsSpace(r) && !unicode.IsGraphic(r) {
			return false
		}
	}
	return true
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "chip8: reading %s", path)
	}
	return data, nil
}
