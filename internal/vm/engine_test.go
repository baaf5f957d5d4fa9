package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runToEnd(t *testing.T, e *Engine, mem *MemoryContext, io IOPort, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		if e.Halted() {
			return
		}
		if _, ok := e.Step(mem, io); !ok {
			return
		}
	}
}

// Scenario 1: arithmetic, top of stack 85 before HALT, 8 instructions.
func TestEngineArithmeticScenario(t *testing.T) {
	program := []Instruction{
		instr(OpPush, 10),
		instr(OpPush, 20),
		instr(OpAdd, 0),
		instr(OpPush, 3),
		instr(OpMul, 0),
		instr(OpPush, 5),
		instr(OpSub, 0),
		instr(OpHalt, 0),
	}
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	executed := 0
	for !e.Halted() {
		res, ok := e.Step(mem, io)
		require.True(t, ok)
		executed++
		_ = res
	}

	assert.Equal(t, ErrNone, e.LastError())
	assert.Equal(t, 8, executed)
	tos, err := e.Peek()
	require.Equal(t, ErrNone, err)
	assert.EqualValues(t, 85, tos)
}

// Scenario 2: division by zero fails at the DIV instruction (pc=2).
func TestEngineDivisionByZero(t *testing.T) {
	program := []Instruction{
		instr(OpPush, 10),
		instr(OpPush, 0),
		instr(OpDiv, 0),
		instr(OpHalt, 0),
	}
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	runToEnd(t, e, mem, io, 10)

	assert.Equal(t, ErrDivisionByZero, e.LastError())
	assert.Equal(t, 2, e.PC())
	assert.False(t, e.Halted())
}

// Scenario 3: call/return. CALL pushes the return address on top
// of the stack, so a well-behaved callee must leave the stack net-zero
// above it before RET — here the callee computes 7*7 and parks the
// result in a global rather than leaving it on the stack, keeping the
// return address on top when RET executes.
func TestEngineCallReturn(t *testing.T) {
	program := []Instruction{
		instr(OpPush, 42),        // 0
		instr(OpCall, 4),         // 1: push retaddr=2, jump to 4
		instr(OpPop, 0),          // 2: discard the 42
		instr(OpHalt, 0),         // 3
		instr(OpPush, 7),         // 4
		instr(OpPush, 7),         // 5
		instr(OpMul, 0),          // 6: -> 49
		instr(OpStoreGlobal, 0),  // 7: stash result, keep retaddr on top
		instr(OpRet, 0),          // 8: pop retaddr=2, jump to 2
	}
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	runToEnd(t, e, mem, io, 20)

	assert.True(t, e.Halted())
	assert.Equal(t, ErrNone, e.LastError())
	assert.Equal(t, 0, e.StackDepth(), "POP at pc=2 discards the 42")

	g, err := mem.LoadGlobal(0)
	require.Equal(t, ErrNone, err)
	assert.EqualValues(t, 49, g)
}

// Scenario 4: global round-trip.
func TestEngineGlobalRoundTrip(t *testing.T) {
	program := []Instruction{
		instr(OpPush, 123),
		instr(OpStoreGlobal, 5),
		instr(OpLoadGlobal, 5),
		instr(OpHalt, 0),
	}
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	runToEnd(t, e, mem, io, 10)

	assert.True(t, e.Halted())
	g, err := mem.LoadGlobal(5)
	require.Equal(t, ErrNone, err)
	assert.EqualValues(t, 123, g)

	tos, err := e.Peek()
	require.Equal(t, ErrNone, err)
	assert.EqualValues(t, 123, tos)
}

// Scenario 5: array bounds violation on STORE_ARRAY.
func TestEngineArrayBoundsViolation(t *testing.T) {
	program := []Instruction{
		instr(OpPush, 4),
		instr(OpCreateArray, 2),
		instr(OpPush, 10),
		instr(OpPush, 99),
		instr(OpStoreArray, 2),
		instr(OpPush, 10),
		instr(OpLoadArray, 2),
		instr(OpHalt, 0),
	}
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	runToEnd(t, e, mem, io, 20)

	assert.Equal(t, ErrMemoryBounds, e.LastError())
	assert.True(t, mem.ArrayActive(2))
}

// Scenario 6: invalid jump target leaves pc unchanged.
func TestEngineInvalidJump(t *testing.T) {
	program := []Instruction{
		instr(OpJmp, 9000),
	}
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	_, ok := e.Step(mem, io)
	assert.False(t, ok)
	assert.Equal(t, ErrInvalidJump, e.LastError())
	assert.Equal(t, 0, e.PC())
}

func TestStackUnderflowOnEmptyPop(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{instr(OpPop, 0)})

	_, ok := e.Step(mem, io)
	assert.False(t, ok)
	assert.Equal(t, ErrStackUnderflow, e.LastError())
}

func TestStackOverflowAtCapacity(t *testing.T) {
	program := make([]Instruction, 0, StackCapacity+2)
	for i := 0; i < StackCapacity; i++ {
		program = append(program, instr(OpPush, 1))
	}
	program = append(program, instr(OpHalt, 0))

	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram(program)

	runToEnd(t, e, mem, io, len(program)+1)

	assert.Equal(t, ErrStackOverflow, e.LastError())
}

// PUSH's immediate is an unsigned 16-bit word zero-extended into an
// int32, so it can never synthesize a negative shift count directly;
// both boundary cases here come from the "too large" side (>= 32).
func TestShiftOutOfRangeFails(t *testing.T) {
	tests := []struct {
		name  string
		shift uint16
	}{
		{"exactly32", 32},
		{"wellOver32", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(true)
			mem := NewMemoryContext(0)
			io := newFakePort()
			e.LoadProgram([]Instruction{
				instr(OpPush, 1),
				instr(OpPush, tt.shift),
				instr(OpShl, 0),
			})
			runToEnd(t, e, mem, io, 5)
			assert.Equal(t, ErrExecutionFailed, e.LastError())
		})
	}
}

// A negative shift count is only reachable by computing one on the
// stack (e.g. via SUB), since PUSH itself cannot produce one.
func TestNegativeShiftFails(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{
		instr(OpPush, 1),
		instr(OpPush, 0),
		instr(OpPush, 1),
		instr(OpSub, 0), // 0 - 1 = -1
		instr(OpShl, 0),
	})
	runToEnd(t, e, mem, io, 10)
	assert.Equal(t, ErrExecutionFailed, e.LastError())
}

func TestLoadGlobalOutOfRangeFails(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(4)
	io := newFakePort()
	e.LoadProgram([]Instruction{instr(OpLoadGlobal, 10)})

	_, ok := e.Step(mem, io)
	assert.False(t, ok)
	assert.Equal(t, ErrMemoryBounds, e.LastError())
}

func TestLoadArrayInactiveRowFails(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{
		instr(OpPush, 0),
		instr(OpLoadArray, 3),
	})

	runToEnd(t, e, mem, io, 5)
	assert.Equal(t, ErrMemoryBounds, e.LastError())
}

// RET pops whatever's on top of the stack as its jump target; a
// negative value there is always invalid.
func TestRetNegativeAddressFails(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{
		instr(OpPush, 0),
		instr(OpPush, 1),
		instr(OpSub, 0), // 0 - 1 = -1
		instr(OpRet, 0),
	})
	runToEnd(t, e, mem, io, 10)
	assert.Equal(t, ErrInvalidJump, e.LastError())
}

// INT32_MIN / -1 overflows the representable range and must be
// rejected rather than wrapping.
func TestIntMinDivNegOneFails(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{
		instr(OpPush, 1),
		instr(OpPush, 31),
		instr(OpShl, 0), // 1 << 31 == INT32_MIN
		instr(OpPush, 0),
		instr(OpPush, 1),
		instr(OpSub, 0), // 0 - 1 = -1
		instr(OpDiv, 0),
	})
	runToEnd(t, e, mem, io, 10)
	assert.Equal(t, ErrExecutionFailed, e.LastError())
}

func TestPrintfStackWalkingOrder(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{
		instr(OpPush, 1), // arg1
		instr(OpPush, 2), // arg2
		instr(OpPush, 3), // arg3
		instr(OpPush, 3), // N
		instr(OpPrintf, 7),
		instr(OpHalt, 0),
	})
	runToEnd(t, e, mem, io, 10)

	require.Len(t, io.printfCalls, 1)
	assert.Equal(t, uint8(7), io.printfCalls[0].stringID)
	assert.Equal(t, []int32{1, 2, 3}, io.printfCalls[0].args)
}

func TestLocalsAliasGlobals(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{
		instr(OpPush, 99),
		instr(OpStoreLocal, 9),
		instr(OpLoadGlobal, 9),
		instr(OpHalt, 0),
	})
	runToEnd(t, e, mem, io, 10)
	tos, err := e.Peek()
	require.Equal(t, ErrNone, err)
	assert.EqualValues(t, 99, tos)
}

func TestInvalidOpcodeAboveMax(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	e.LoadProgram([]Instruction{{Opcode: Opcode(0x70), Immediate: 0}})

	_, ok := e.Step(mem, io)
	assert.False(t, ok)
	assert.Equal(t, ErrInvalidOpcode, e.LastError())
}

func TestUnassignedOpcodeInBand(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	// 0x5E is inside the memory band but unassigned.
	e.LoadProgram([]Instruction{{Opcode: Opcode(0x5E), Immediate: 0}})

	_, ok := e.Step(mem, io)
	assert.False(t, ok)
	assert.Equal(t, ErrInvalidOpcode, e.LastError())
}

func TestSignedVsUnsignedComparison(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	// -1 as bits is 0xFFFFFFFF: unsigned LT says -1 > 1, signed LT says -1 < 1.
	e.LoadProgram([]Instruction{
		instr(OpPush, 0),
		instr(OpPush, 1),
		instr(OpSub, 0), // -1
		instr(OpPush, 1),
		instr(OpLtS, 0), // -1 <s 1 -> true
		instr(OpHalt, 0),
	})
	runToEnd(t, e, mem, io, 10)
	tos, err := e.Peek()
	require.Equal(t, ErrNone, err)
	assert.EqualValues(t, 1, tos)
}

func TestPushPopRoundTrip(t *testing.T) {
	e := NewEngine(true)
	mem := NewMemoryContext(0)
	io := newFakePort()
	values := []int32{0, 1, -1, 2147483647, -2147483648, 42}
	for _, v := range values {
		require.Equal(t, ErrNone, e.push(v))
		got, err := e.pop()
		require.Equal(t, ErrNone, err)
		assert.Equal(t, v, got)
	}
	_ = mem
	_ = io
}
