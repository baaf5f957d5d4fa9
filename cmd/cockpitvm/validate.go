package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cockpit-vm/cockpitvm/internal/loader"
	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

// newValidateCmd performs a decode-only pass: it rejects any
// instruction with opcode > MAX_OPCODE without executing anything,
// applying the dispatcher's out-of-range check eagerly to the whole
// program up front. Unassigned opcodes at or below MAX_OPCODE pass this
// check; the dispatcher rejects those only when they execute.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "decode a bytecode file and reject any opcode above MAX_OPCODE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loader.LoadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "cockpitvm validate")
			}

			for i, instr := range program {
				if instr.Opcode > vm.MaxOpcode {
					return errors.Errorf("cockpitvm validate: instruction %d: opcode %#x exceeds MAX_OPCODE (%#x)", i, instr.Opcode, vm.MaxOpcode)
				}
			}

			fmt.Printf("ok: %d instructions, all opcodes within range\n", len(program))
			return nil
		},
	}
}
