package vm

import "math"

func init() {
	register(OpHalt, handleHalt)
	register(OpPush, handlePush)
	register(OpPop, handlePop)
	register(OpAdd, handleAdd)
	register(OpSub, handleSub)
	register(OpMul, handleMul)
	register(OpDiv, handleDiv)
	register(OpMod, handleMod)
	register(OpCall, handleCall)
	register(OpRet, handleRet)
}

func handleHalt(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	return haltOutcome()
}

func handlePush(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	if err := e.push(int32(instr.Immediate)); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handlePop(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	if _, err := e.pop(); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

// addOverflows32 reports whether a+b overflows int32. Arithmetic here
// is always checked — silent wrap-around is never acceptable.
func addOverflows32(a, b int32) bool {
	sum := a + b
	return ((a ^ sum) & (b ^ sum)) < 0
}

func subOverflows32(a, b int32) bool {
	diff := a - b
	return ((a ^ b) & (a ^ diff)) < 0
}

func mulOverflows32(a, b int32) bool {
	if a == 0 || b == 0 {
		return false
	}
	p := a * b
	return p/b != a
}

func handleAdd(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if addOverflows32(a, b) {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a + b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleSub(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if subOverflows32(a, b) {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a - b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleMul(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if mulOverflows32(a, b) {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a * b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleDiv(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if b == 0 {
		return errOutcome(ErrDivisionByZero)
	}
	if a == math.MinInt32 && b == -1 {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a / b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleMod(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if b == 0 {
		return errOutcome(ErrDivisionByZero)
	}
	if a == math.MinInt32 && b == -1 {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a % b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleCall(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	if err := e.push(int32(e.pc + 1)); err != ErrNone {
		return errOutcome(err)
	}
	return jumpAbsOutcome(int(instr.Immediate))
}

func handleRet(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	addr, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if addr < 0 {
		return errOutcome(ErrInvalidJump)
	}
	return jumpAbsOutcome(int(addr))
}
