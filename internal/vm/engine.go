package vm

// handlerFunc implements one opcode's semantics and returns the
// dispatch outcome directing the Engine. A handler must never mutate
// pc or halted itself — only Engine.Step applies those changes, which
// is the single most important invariant in this package: a reviewer
// must be able to grep every handler for a `pc =` or `halted =` write
// and find zero hits.
type handlerFunc func(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome

// dispatchTable is a compile-time-sized array indexed by opcode,
// mirroring the teacher's fixed dispatch approach: a nil entry at or
// below MaxOpcode means "unassigned slot" and produces ErrInvalidOpcode
// exactly like an out-of-range opcode.
var dispatchTable [int(MaxOpcode) + 1]handlerFunc

func register(op Opcode, fn handlerFunc) {
	dispatchTable[op] = fn
}

// Engine is the fetch/decode/dispatch loop. It owns the operand stack,
// pc, halted flag, and last-error register, and holds a non-owning
// reference to the currently loaded program.
type Engine struct {
	stack     *operandStack
	pc        int
	halted    bool
	lastError ErrorKind
	program   []Instruction

	debugChecks bool
}

// NewEngine constructs an empty Engine (sp=1, pc=0, halted=false,
// last_error=None). debugChecks controls whether stack canaries are
// sampled — production builds may elide them.
func NewEngine(debugChecks bool) *Engine {
	return &Engine{
		stack:       newOperandStack(debugChecks),
		debugChecks: debugChecks,
	}
}

// LoadProgram attaches a read-only instruction sequence and resets
// execution position, matching load_program's semantics at the Engine
// level (the Facade layers "non-empty" validation on top).
func (e *Engine) LoadProgram(program []Instruction) {
	e.program = program
	e.pc = 0
	e.halted = false
	e.lastError = ErrNone
}

// Reset clears the Engine back to its just-constructed state,
// including the operand stack.
func (e *Engine) Reset() {
	e.stack.reset()
	e.pc = 0
	e.halted = false
	e.lastError = ErrNone
}

func (e *Engine) PC() int              { return e.pc }
func (e *Engine) Halted() bool         { return e.halted }
func (e *Engine) LastError() ErrorKind { return e.lastError }
func (e *Engine) StackPointer() int    { return e.stack.sp }
func (e *Engine) StackDepth() int      { return e.stack.depth() }
func (e *Engine) ProgramSize() int     { return len(e.program) }

// Peek exposes the top of the operand stack for validate_final_state
// style assertion harnesses.
func (e *Engine) Peek() (int32, ErrorKind) { return e.stack.peek() }

// CanariesIntact reports whether both guard slots still hold their
// magic words — used by validate_memory_integrity.
func (e *Engine) CanariesIntact() bool { return e.stack.canariesIntact() }

// stepResult carries the outcome of one Step call back to the Facade:
// which opcode/immediate ran (for observer notification) and whether
// the step failed.
type stepResult struct {
	pc       int
	opcode   Opcode
	operand  int32
	executed bool
}

// Step executes exactly one instruction. It returns false
// once halted, once pc has run off the end of the program, or when the
// instruction itself fails; the caller inspects LastError() to tell
// "clean halt" apart from "faulted".
func (e *Engine) Step(mem *MemoryContext, io IOPort) (stepResult, bool) {
	if e.halted {
		return stepResult{}, false
	}
	if e.pc >= len(e.program) {
		e.lastError = ErrExecutionFailed
		return stepResult{}, false
	}

	instr := e.program[e.pc]
	startPC := e.pc

	if instr.Opcode > MaxOpcode {
		e.lastError = ErrInvalidOpcode
		return stepResult{}, false
	}

	handler := dispatchTable[instr.Opcode]
	if handler == nil {
		e.lastError = ErrInvalidOpcode
		return stepResult{}, false
	}

	out := handler(e, mem, io, instr)

	switch out.tag {
	case outcomeContinue:
		e.pc++
	case outcomeJumpAbsolute:
		if out.target < 0 || out.target >= len(e.program) {
			e.lastError = ErrInvalidJump
			return stepResult{}, false
		}
		e.pc = out.target
	case outcomeJumpRelative:
		// Reserved for future use; treated as error until defined.
		e.lastError = ErrExecutionFailed
		return stepResult{}, false
	case outcomeHalt:
		e.halted = true
	case outcomeError:
		e.lastError = out.err
		return stepResult{}, false
	default:
		e.lastError = ErrExecutionFailed
		return stepResult{}, false
	}

	var operand int32
	if v, err := e.stack.peek(); err == ErrNone {
		operand = v
	}

	return stepResult{
		pc:       startPC,
		opcode:   instr.Opcode,
		operand:  operand,
		executed: true,
	}, true
}

// pop/push are thin wrappers the handlers use; they never touch
// lastError themselves — only the outcome returned from a handler
// (applied by Step) may set it.
func (e *Engine) pop() (int32, ErrorKind) {
	return e.stack.pop()
}

func (e *Engine) push(v int32) ErrorKind {
	return e.stack.push(v)
}
