package vm

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// isMemoryOp / isIOOp classify an opcode by band so the Facade can
// aggregate memory_operations and io_operations without the Engine
// itself needing to know about Facade-level bookkeeping.
func isMemoryOp(op Opcode) bool {
	return op >= OpLoadGlobal && op <= OpCreateArray
}

func isIOOp(op Opcode) bool {
	return op >= OpDigitalWrite && op <= OpMicros
}

// Facade composes one Engine, one MemoryContext, and one IOPort. It is
// the external control surface: program loading, run-to-completion,
// single-step, reset, metrics, and observer fan-out.
type Facade struct {
	engine *Engine
	mem    *MemoryContext
	io     IOPort
	log    *zap.SugaredLogger

	metrics *metricsRegistry
	obs     observerList

	programLoaded bool
	lastError     ErrorKind
	runStart      time.Time

	maxSteps int
}

// NewFacade constructs a Facade from a validated VMConfig. log may be
// nil — the hot dispatch loop never logs regardless.
func NewFacade(cfg VMConfig, io IOPort, log *zap.SugaredLogger, instanceLabel string) *Facade {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	f := &Facade{
		engine:  NewEngine(cfg.DebugChecks),
		mem:     NewMemoryContext(cfg.MaxGlobals),
		io:      io,
		log:     log,
		metrics: newMetricsRegistry(instanceLabel),
	}
	log.Debugw("facade constructed", "instance", instanceLabel, "max_globals", cfg.MaxGlobals)
	return f
}

// LoadProgram validates the program is non-empty, attaches it to the
// Engine, and clears run state.
func (f *Facade) LoadProgram(program []Instruction) error {
	if len(program) == 0 {
		return errors.New("cockpitvm: cannot load an empty program")
	}
	f.engine.LoadProgram(program)
	f.programLoaded = true
	f.lastError = ErrNone
	f.log.Debugw("program loaded", "instructions", len(program))
	return nil
}

// ExecuteProgram loads program, resets metrics, then steps until halt,
// failure, or the program-length step budget is exhausted.
func (f *Facade) ExecuteProgram(program []Instruction) error {
	if err := f.LoadProgram(program); err != nil {
		return err
	}
	f.ResetPerformanceMetrics()

	f.maxSteps = len(program)
	f.runStart = time.Now()

	for steps := 0; steps < f.maxSteps; steps++ {
		res, ok := f.engine.Step(f.mem, f.io)
		if !ok {
			if f.engine.Halted() {
				break
			}
			f.lastError = f.engine.LastError()
			f.log.Warnw("execution faulted", "pc", f.engine.PC(), "error", ErrorString(f.lastError))
			return errors.Errorf("cockpitvm: %s at pc=%d", ErrorString(f.lastError), f.engine.PC())
		}

		f.recordStep(res)

		if f.engine.Halted() {
			break
		}
	}

	elapsed := uint32(time.Since(f.runStart).Milliseconds())
	f.metrics.setExecutionTimeMs(elapsed)

	if !f.engine.Halted() {
		f.lastError = ErrExecutionFailed
		f.obs.notifyExecutionComplete(f.metrics.snapshot().InstructionsExecuted, elapsed)
		return errors.New("cockpitvm: program exhausted its step budget without halting")
	}

	f.obs.notifyExecutionComplete(f.metrics.snapshot().InstructionsExecuted, elapsed)
	return nil
}

// ExecuteSingleStep executes exactly one instruction. It fails with
// ErrProgramNotLoaded if no program has been loaded.
func (f *Facade) ExecuteSingleStep() error {
	if !f.programLoaded {
		f.lastError = ErrProgramNotLoaded
		return errors.New("cockpitvm: no program loaded")
	}

	res, ok := f.engine.Step(f.mem, f.io)
	if !ok {
		if f.engine.Halted() {
			return nil
		}
		f.lastError = f.engine.LastError()
		return errors.Errorf("cockpitvm: %s at pc=%d", ErrorString(f.lastError), f.engine.PC())
	}

	f.recordStep(res)
	return nil
}

func (f *Facade) recordStep(res stepResult) {
	f.metrics.recordInstruction()
	if isMemoryOp(res.opcode) {
		f.metrics.recordMemoryOp()
	}
	if isIOOp(res.opcode) {
		f.metrics.recordIOOp()
	}
	f.obs.notifyInstructionExecuted(res.pc, res.opcode, res.operand)
}

// ResetVM resets the engine, clears memory, cycles the I/O port, zeros
// metrics, clears last_error, and notifies observers.
func (f *Facade) ResetVM() {
	f.engine.Reset()
	f.mem.Reset()
	f.io.ResetHardware()
	f.ResetPerformanceMetrics()
	f.lastError = ErrNone
	f.programLoaded = false
	f.io.InitializeHardware()
	f.obs.notifyVMReset()
	f.log.Debugw("vm reset")
}

func (f *Facade) IsRunning() bool {
	return f.programLoaded && !f.engine.Halted() && f.lastError == ErrNone
}
func (f *Facade) IsHalted() bool { return f.engine.Halted() }

func (f *Facade) InstructionCount() uint64 {
	return f.metrics.snapshot().InstructionsExecuted
}

func (f *Facade) LastError() ErrorKind { return f.lastError }

func (f *Facade) PerformanceMetrics() PerformanceMetrics { return f.metrics.snapshot() }

func (f *Facade) ResetPerformanceMetrics() { f.metrics.reset() }

// ValidateMemoryIntegrity reports whether the operand stack's debug
// canaries are both still intact.
func (f *Facade) ValidateMemoryIntegrity() bool {
	return f.engine.CanariesIntact()
}

func (f *Facade) StackPointer() int   { return f.engine.StackPointer() }
func (f *Facade) ProgramCounter() int { return f.engine.PC() }

// FinalStateSpec describes the end-to-end assertions an integration
// harness wants checked in one call to validate_final_state.
type FinalStateSpec struct {
	ExpectHalted bool
	ExpectError  ErrorKind
	ExpectTOS    *int32
	ExpectGlobal map[uint8]int32
}

// ValidateFinalState checks the Facade's terminal state against spec,
// returning a descriptive error for the first mismatch found.
func (f *Facade) ValidateFinalState(spec FinalStateSpec) error {
	if f.engine.Halted() != spec.ExpectHalted {
		return errors.Errorf("cockpitvm: expected halted=%v, got %v", spec.ExpectHalted, f.engine.Halted())
	}
	if f.lastError != spec.ExpectError {
		return errors.Errorf("cockpitvm: expected error=%s, got %s", ErrorString(spec.ExpectError), ErrorString(f.lastError))
	}
	if spec.ExpectTOS != nil {
		tos, err := f.engine.Peek()
		if err != ErrNone {
			return errors.Errorf("cockpitvm: expected top-of-stack %d, stack is empty", *spec.ExpectTOS)
		}
		if tos != *spec.ExpectTOS {
			return errors.Errorf("cockpitvm: expected top-of-stack %d, got %d", *spec.ExpectTOS, tos)
		}
	}
	for id, want := range spec.ExpectGlobal {
		got, err := f.mem.LoadGlobal(id)
		if err != ErrNone {
			return errors.Errorf("cockpitvm: global %d out of range", id)
		}
		if got != want {
			return errors.Errorf("cockpitvm: expected global[%d]=%d, got %d", id, want, got)
		}
	}
	return nil
}

// AddObserver / RemoveObserver / ClearObservers manage the ordered,
// insertion-preserving observer list.
func (f *Facade) AddObserver(o Observer)    { f.obs.add(o) }
func (f *Facade) RemoveObserver(o Observer) { f.obs.remove(o) }
func (f *Facade) ClearObservers()           { f.obs.clear() }

// MemoryContext exposes the underlying context for callers that need
// direct read access (e.g. validate_final_state harnesses, tests).
func (f *Facade) MemoryContext() *MemoryContext { return f.mem }
