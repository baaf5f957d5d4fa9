package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cockpit-vm/cockpitvm/internal/loader"
)

// newDisasmCmd prints each instruction as "mnemonic flags imm", in the
// teacher's formatInstructionStr style (vm/run.go), generalized to the
// new opcode set.
func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file>",
		Short: "print each decoded instruction as mnemonic, flags, and immediate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loader.LoadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "cockpitvm disasm")
			}

			for i, instr := range program {
				fmt.Printf("%4d: %-14s flags=%#02x imm=%d\n", i, instr.Opcode.String(), instr.Flags, instr.Immediate)
			}
			return nil
		},
	}
}
