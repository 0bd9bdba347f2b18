package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
)

func disasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <in.rom>",
		Short: "Disassemble packed opcode bytes into one mnemonic line per instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := readFile(args[0])
			if err != nil {
				return err
			}
			mem := make([]byte, chip8.MemorySize)
			copy(mem[chip8.ProgramBase:], rom)
			for _, line := range chip8.Disassemble(mem[:chip8.ProgramBase+len(rom)], chip8.ProgramBase) {
				fmt.Println(line)
			}
			return nil
		},
	}
}
