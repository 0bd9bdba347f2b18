package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
)

func asmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm <in.c8asm> <out.rom>",
		Short: "Assemble a CHIP-8 assembly source file into packed opcode bytes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readFile(args[0])
			if err != nil {
				return err
			}
			asm, err := chip8.Assemble(src)
			if err != nil {
				return fmt.Errorf("chip8 asm: %w", err)
			}
			if err := os.WriteFile(args[1], asm.ROM, 0o644); err != nil {
				return fmt.Errorf("chip8 asm: writing %s: %w", args[1], err)
			}
			fmt.Printf("assembled %d bytes, %d labels, %d breakpoints\n", len(asm.ROM), len(asm.Labels), len(asm.Breakpoints))
			return nil
		},
	}
}
