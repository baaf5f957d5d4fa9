package vm

func init() {
	register(OpBitAnd, handleBitAnd)
	register(OpBitOr, handleBitOr)
	register(OpBitXor, handleBitXor)
	register(OpBitNot, handleBitNot)
	register(OpShl, handleShl)
	register(OpShr, handleShr)
}

func handleBitAnd(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := e.push(a & b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleBitOr(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := e.push(a | b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleBitXor(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := e.push(a ^ b); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleBitNot(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := e.push(^a); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleShl(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	n, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if n < 0 || n >= 32 {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a << uint(n)); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleShr(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	n, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if n < 0 || n >= 32 {
		return errOutcome(ErrExecutionFailed)
	}
	if err := e.push(a >> uint(n)); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}
