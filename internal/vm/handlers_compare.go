package vm

func init() {
	register(OpEq, makeCompareHandler(cmpEq, false))
	register(OpNe, makeCompareHandler(cmpNe, false))
	register(OpLt, makeCompareHandler(cmpLt, false))
	register(OpGt, makeCompareHandler(cmpGt, false))
	register(OpLe, makeCompareHandler(cmpLe, false))
	register(OpGe, makeCompareHandler(cmpGe, false))

	register(OpEqS, makeCompareHandler(cmpEq, true))
	register(OpNeS, makeCompareHandler(cmpNe, true))
	register(OpLtS, makeCompareHandler(cmpLt, true))
	register(OpGtS, makeCompareHandler(cmpGt, true))
	register(OpLeS, makeCompareHandler(cmpLe, true))
	register(OpGeS, makeCompareHandler(cmpGe, true))
}

type compareRelation func(a, b uint32, signed bool) bool

func cmpEq(a, b uint32, signed bool) bool { return a == b }
func cmpNe(a, b uint32, signed bool) bool { return a != b }

func cmpLt(a, b uint32, signed bool) bool {
	if signed {
		return int32(a) < int32(b)
	}
	return a < b
}

func cmpGt(a, b uint32, signed bool) bool {
	if signed {
		return int32(a) > int32(b)
	}
	return a > b
}

func cmpLe(a, b uint32, signed bool) bool {
	if signed {
		return int32(a) <= int32(b)
	}
	return a <= b
}

func cmpGe(a, b uint32, signed bool) bool {
	if signed {
		return int32(a) >= int32(b)
	}
	return a >= b
}

// makeCompareHandler builds a handler for one relation. baseSigned is
// true for the 0x26-0x2B signed band; the FLAG_SIGNED bit on any
// comparison opcode also forces signed mode.
func makeCompareHandler(rel compareRelation, baseSigned bool) handlerFunc {
	return func(e *Engine, mem *MemoryContext, io IOPort, instr Instruction) outcome {
		b, err := e.pop()
		if err != ErrNone {
			return errOutcome(err)
		}
		a, err := e.pop()
		if err != ErrNone {
			return errOutcome(err)
		}

		signed := baseSigned || instr.Signed()
		result := int32(0)
		if rel(uint32(a), uint32(b), signed) {
			result = 1
		}

		if err := e.push(result); err != ErrNone {
			return errOutcome(err)
		}
		return contOutcome()
	}
}
