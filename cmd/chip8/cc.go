package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathan-anderson16/chip-8-toolkit/internal/compiler"
)

func ccCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cc <in.c8c> <out.c8asm>",
		Short: "Compile the miniature C subset to CHIP-8 assembly text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readFile(args[0])
			if err != nil {
				return err
			}
			program, err := compiler.Parse(string(src))
			if err != nil {
				return fmt.Errorf("chip8 cc: %w", err)
			}
			asm, err := compiler.Compile(program)
			if err != nil {
				return fmt.Errorf("chip8 cc: %w", err)
			}
			if err := os.WriteFile(args[1], []byte(asm), 0o644); err != nil {
				return fmt.Errorf("chip8 cc: writing %s: %w", args[1], err)
			}
			return nil
		},
	}
}
