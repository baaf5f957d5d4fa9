package vm

func init() {
	register(OpJmp, handleJmp)
	register(OpJmpTrue, handleJmpTrue)
	register(OpJmpFalse, handleJmpFalse)
}

func handleJmp(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	return jumpAbsOutcome(int(instr.Immediate))
}

func handleJmpTrue(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	cond, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if cond != 0 {
		return jumpAbsOutcome(int(instr.Immediate))
	}
	return contOutcome()
}

func handleJmpFalse(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	cond, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if cond == 0 {
		return jumpAbsOutcome(int(instr.Immediate))
	}
	return contOutcome()
}
