package vm

func init() {
	register(OpLogicalAnd, handleLogicalAnd)
	register(OpLogicalOr, handleLogicalOr)
	register(OpLogicalNot, handleLogicalNot)
}

func truthy(v int32) bool { return v != 0 }

func handleLogicalAnd(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	result := int32(0)
	if truthy(a) && truthy(b) {
		result = 1
	}
	if err := e.push(result); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleLogicalOr(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	b, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	result := int32(0)
	if truthy(a) || truthy(b) {
		result = 1
	}
	if err := e.push(result); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleLogicalNot(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	a, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	result := int32(0)
	if !truthy(a) {
		result = 1
	}
	if err := e.push(result); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}
