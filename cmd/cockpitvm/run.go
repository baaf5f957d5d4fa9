package main

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cockpit-vm/cockpitvm/internal/loader"
	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

// newRunCmd loads one or more bytecode files and runs each to
// completion. Multiple files run concurrently, each against its own
// Facade (independent Engine, Memory Context, and I/O Port), tracked
// in a Registry keyed by file path so results can be reported back in
// a stable order once every goroutine finishes.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file> [file...]",
		Short: "load one or more bytecode files and run each to completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := vm.NewRegistry()

			type result struct {
				path string
				err  error
			}
			results := make([]result, len(args))

			var wg sync.WaitGroup
			for i, path := range args {
				f, _, err := buildFacade(path)
				if err != nil {
					results[i] = result{path: path, err: err}
					continue
				}
				reg.Register(path, f)

				wg.Add(1)
				go func(i int, path string, f *vm.Facade) {
					defer wg.Done()
					program, err := loader.LoadFile(path)
					if err != nil {
						results[i] = result{path: path, err: errors.Wrap(err, "cockpitvm run")}
						return
					}
					runErr := f.ExecuteProgram(program)
					results[i] = result{path: path, err: runErr}
				}(i, path, f)
			}
			wg.Wait()

			var failed error
			for _, path := range args {
				f, ok := reg.Get(path)
				if !ok {
					continue
				}
				metrics := f.PerformanceMetrics()
				fmt.Printf("%s: instructions_executed=%d execution_time_ms=%d memory_operations=%d io_operations=%d\n",
					path, metrics.InstructionsExecuted, metrics.ExecutionTimeMs, metrics.MemoryOperations, metrics.IOOperations)
				fmt.Printf("%s: halted=%v pc=%d sp=%d last_error=%s\n",
					path, f.IsHalted(), f.ProgramCounter(), f.StackPointer(), f.LastError())
				reg.Unregister(path)
			}
			for _, r := range results {
				if r.err != nil {
					fmt.Printf("%s: error: %v\n", r.path, r.err)
					failed = errors.Wrap(r.err, "cockpitvm run")
				}
			}
			return failed
		},
	}
}
