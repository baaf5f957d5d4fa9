// Command cockpitvm drives the CockpitVM execution substrate from the
// host: it loads a packed-word bytecode file, runs it against a
// simulated I/O port, and reports the resulting engine state.
// Everything here is glue around the internal/vm Facade, not part of
// the execution substrate itself.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
