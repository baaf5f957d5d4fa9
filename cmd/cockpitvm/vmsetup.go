package main

import (
	"github.com/pkg/errors"

	"github.com/cockpit-vm/cockpitvm/internal/hostio"
	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

// buildFacade loads the layered VMConfig (file/env/flag), applies a
// positive --max-globals override, and wires a fresh Facade against a
// SimPort — the reference, host-memory I/O port the CLI uses to have
// something concrete to run bytecode against; real hardware drivers
// remain out of scope for this module.
func buildFacade(label string) (*vm.Facade, *hostio.SimPort, error) {
	cfg, err := vm.LoadVMConfig(v)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cockpitvm: loading vm config")
	}
	if maxGlobals > 0 {
		cfg.MaxGlobals = maxGlobals
		if err := cfg.Validate(); err != nil {
			return nil, nil, errors.Wrap(err, "cockpitvm: --max-globals")
		}
	}

	port := hostio.NewSimPort(hostio.NewStringTable())
	f := vm.NewFacade(cfg, port, log, label)
	return f, port, nil
}
