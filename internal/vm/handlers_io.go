package vm

// maxPrintfArgs bounds the PRINTF stack-walking argument count.
const maxPrintfArgs = 8

func init() {
	register(OpDigitalWrite, handleDigitalWrite)
	register(OpDigitalRead, handleDigitalRead)
	register(OpAnalogWrite, handleAnalogWrite)
	register(OpAnalogRead, handleAnalogRead)
	register(OpDelay, handleDelay)
	register(OpButtonPressed, handleButtonPressed)
	register(OpButtonReleased, handleButtonReleased)
	register(OpPinMode, handlePinMode)
	register(OpPrintf, handlePrintf)
	register(OpMillis, handleMillis)
	register(OpMicros, handleMicros)
}

func handleDigitalWrite(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if !io.DigitalWrite(uint8(instr.Immediate), uint8(v)) {
		return errOutcome(ErrHardwareFault)
	}
	return contOutcome()
}

func handleDigitalRead(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v, ok := io.DigitalRead(uint8(instr.Immediate))
	if !ok {
		return errOutcome(ErrHardwareFault)
	}
	if err := e.push(int32(v)); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleAnalogWrite(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if !io.AnalogWrite(uint8(instr.Immediate), uint16(v)) {
		return errOutcome(ErrHardwareFault)
	}
	return contOutcome()
}

func handleAnalogRead(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v, ok := io.AnalogRead(uint8(instr.Immediate))
	if !ok {
		return errOutcome(ErrHardwareFault)
	}
	if err := e.push(int32(v)); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleDelay(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	ns, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if ns < 0 {
		return errOutcome(ErrInvalidOpcode)
	}
	io.DelayNanoseconds(uint32(ns))
	return contOutcome()
}

func handleButtonPressed(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v := int32(0)
	if io.ButtonPressed(uint8(instr.Immediate)) {
		v = 1
	}
	if err := e.push(v); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleButtonReleased(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	v := int32(0)
	if io.ButtonReleased(uint8(instr.Immediate)) {
		v = 1
	}
	if err := e.push(v); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handlePinMode(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	mode, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if !io.PinMode(uint8(instr.Immediate), uint8(mode)) {
		return errOutcome(ErrHardwareFault)
	}
	return contOutcome()
}

// handlePrintf implements the canonical stack-walking form: pop N,
// then pop N arguments. Because the stack is LIFO, the Nth-pushed
// argument comes off first; it is placed back into args so that
// args[0] is the first-pushed argument.
func handlePrintf(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	n, err := e.pop()
	if err != ErrNone {
		return errOutcome(err)
	}
	if n < 0 || n > maxPrintfArgs {
		return errOutcome(ErrExecutionFailed)
	}

	args := make([]int32, n)
	for i := int(n) - 1; i >= 0; i-- {
		v, err := e.pop()
		if err != ErrNone {
			return errOutcome(err)
		}
		args[i] = v
	}

	if !io.VMPrintf(uint8(instr.Immediate), args) {
		return errOutcome(ErrHardwareFault)
	}
	return contOutcome()
}

func handleMillis(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	if err := e.push(int32(io.Millis())); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}

func handleMicros(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
	if err := e.push(int32(io.Micros())); err != ErrNone {
		return errOutcome(err)
	}
	return contOutcome()
}
