package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cockpit-vm/cockpitvm/internal/loader"
	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

// newStepCmd is modeled on the teacher's RunProgramDebugMode (vm/run.go):
// an interactive "n(ext)"/"r(un)" prompt, generalized to the new
// opcode set and to the Facade's single-step API instead of direct
// engine state pokes.
func newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <file>",
		Short: "single-step through a bytecode file, printing state after each instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loader.LoadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "cockpitvm step")
			}

			f, _, err := buildFacade(args[0])
			if err != nil {
				return err
			}
			if err := f.LoadProgram(program); err != nil {
				return errors.Wrap(err, "cockpitvm step")
			}

			reg := vm.NewRegistry()
			reg.Register(args[0], f)
			defer reg.Unregister(args[0])

			fmt.Println("Commands: n(ext), r(un) to completion, q(uit)")
			printState(f)

			reader := bufio.NewReader(os.Stdin)
			running := false
			for {
				if !running {
					fmt.Print("-> ")
					line, _ := reader.ReadString('\n')
					line = strings.ToLower(strings.TrimSpace(line))
					switch line {
					case "q", "quit":
						return nil
					case "r", "run":
						running = true
					case "n", "next", "":
						// fall through to single step below
					default:
						fmt.Println("unrecognized command")
						continue
					}
				}

				if f.IsHalted() {
					fmt.Println("program halted")
					return nil
				}

				if err := f.ExecuteSingleStep(); err != nil {
					printState(f)
					return errors.Wrap(err, "cockpitvm step")
				}
				printState(f)
				if f.IsHalted() {
					return nil
				}
			}
		},
	}
}

func printState(f interface {
	ProgramCounter() int
	StackPointer() int
	IsHalted() bool
}) {
	fmt.Printf("pc=%d sp=%d halted=%v\n", f.ProgramCounter(), f.StackPointer(), f.IsHalted())
}
