package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nathan-anderson16/chip-8-toolkit/chip8"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/clog"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/debugger"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/display"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/runtime"
	"github.com/nathan-anderson16/chip-8-toolkit/internal/stdin"
)

func runCmd() *cobra.Command {
	var speed int
	var startDebug bool

	cmd := &cobra.Command{
		Use:   "run <rom>",
		Short: "Load and run a ROM or assembly source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRun(args[0], speed, startDebug)
		},
	}

	cmd.Flags().IntVar(&speed, "speed", runtime.DefaultSpeed, "instructions per second")
	cmd.Flags().BoolVar(&startDebug, "debug", false, "start with the debugger already active")
	return cmd
}

func doRun(path string, speed int, startDebug bool) error {
	program, err := readFile(path)
	if err != nil {
		return err
	}

	m := chip8.NewMachine(chip8.DefaultQuirks())

	if isTextSource(program) {
		asm, err := chip8.Assemble(program)
		if err != nil {
			return errors.Wrapf(err, "chip8: assembling %s", path)
		}
		if err := m.LoadROM(asm.ROM); err != nil {
			return err
		}
		for addr := range asm.Breakpoints {
			m.SetBreakpoint(addr)
		}
	} else {
		if err := m.LoadROM(program); err != nil {
			return errors.Wrapf(err, "chip8: loading %s", path)
		}
	}

	sampler, err := newTermKeySampler()
	if err != nil {
		return errors.Wrap(err, "chip8: enabling raw terminal input")
	}
	defer sampler.Close()

	reader := stdin.New(os.Stdin)
	reader.SetOnByte(sampler.Observe)
	out := os.Stdout
	render := display.New(out)
	dbg := debugger.New(m, reader, out, render)
	reader.SetHistoryNav(stdin.HistoryNav{Up: dbg.HistoryUp, Down: dbg.HistoryDown})

	clog.CLI.Info("loaded", "path", path, "bytes", len(program))

	loop := runtime.New(m, render, dbg, sampler, speed)
	if startDebug {
		loop.EnterDebug()
	}

	if err := loop.Run(); err != nil {
		if fe, ok := err.(*chip8.FatalError); ok {
			fmt.Fprintln(os.Stderr, fe.Error())
			os.Exit(1)
		}
		return err
	}
	return nil
}
