package vm

// Opcode is the 8-bit instruction selector. The numbering is the wire
// contract: bytecode interchange with the reference compiler depends on
// these exact values, so bands must never be renumbered.
type Opcode uint8

// Instruction bands, grouped by semantic category.
const (
	// Core (0x00-0x0F)
	OpHalt Opcode = 0x00
	OpPush Opcode = 0x01
	OpPop  Opcode = 0x02
	OpAdd  Opcode = 0x03
	OpSub  Opcode = 0x04
	OpMul  Opcode = 0x05
	OpDiv  Opcode = 0x06
	OpMod  Opcode = 0x07
	OpCall Opcode = 0x08
	OpRet  Opcode = 0x09

	// Hardware I/O (0x10-0x1F)
	OpDigitalWrite   Opcode = 0x10
	OpDigitalRead    Opcode = 0x11
	OpAnalogWrite    Opcode = 0x12
	OpAnalogRead     Opcode = 0x13
	OpDelay          Opcode = 0x14
	OpButtonPressed  Opcode = 0x15
	OpButtonReleased Opcode = 0x16
	OpPinMode        Opcode = 0x17
	OpPrintf         Opcode = 0x18
	OpMillis         Opcode = 0x19
	OpMicros         Opcode = 0x1A

	// Comparisons, unsigned (0x20-0x25)
	OpEq Opcode = 0x20
	OpNe Opcode = 0x21
	OpLt Opcode = 0x22
	OpGt Opcode = 0x23
	OpLe Opcode = 0x24
	OpGe Opcode = 0x25

	// Comparisons, signed (0x26-0x2B)
	OpEqS Opcode = 0x26
	OpNeS Opcode = 0x27
	OpLtS Opcode = 0x28
	OpGtS Opcode = 0x29
	OpLeS Opcode = 0x2A
	OpGeS Opcode = 0x2B

	// Control flow (0x30-0x3F)
	OpJmp      Opcode = 0x30
	OpJmpTrue  Opcode = 0x31
	OpJmpFalse Opcode = 0x32

	// Logical (0x40-0x4F)
	OpLogicalAnd Opcode = 0x40
	OpLogicalOr  Opcode = 0x41
	OpLogicalNot Opcode = 0x42

	// Memory (0x50-0x5F)
	OpLoadGlobal  Opcode = 0x50
	OpStoreGlobal Opcode = 0x51
	OpLoadLocal   Opcode = 0x52
	OpStoreLocal  Opcode = 0x53
	OpLoadArray   Opcode = 0x54
	OpStoreArray  Opcode = 0x55
	OpCreateArray Opcode = 0x56

	// Bitwise (0x60-0x6F)
	OpBitAnd Opcode = 0x60
	OpBitOr  Opcode = 0x61
	OpBitXor Opcode = 0x62
	OpBitNot Opcode = 0x63
	OpShl    Opcode = 0x64
	OpShr    Opcode = 0x65

	// MaxOpcode bounds the dispatch table; anything beyond it is rejected
	// before the table is even consulted.
	MaxOpcode Opcode = 0x6F
)

// Flag bits carried in an instruction's flags byte.
const (
	FlagSigned uint8 = 1 << 0
)

// Instruction is the packed 32-bit record: opcode, flags, and a
// 16-bit immediate. The layout is bit-exact with the wire format
// (little-endian word: byte0=opcode, byte1=flags, bytes2-3=immediate).
type Instruction struct {
	Opcode    Opcode
	Flags     uint8
	Immediate uint16
}

// Signed returns true if FlagSigned is set.
func (i Instruction) Signed() bool {
	return i.Flags&FlagSigned != 0
}

// mnemonics backs String() and the CLI's disasm command. It is not an
// assembler — the bytecode compiler/source front end is out of scope
// here — just a display table.
var mnemonics = map[Opcode]string{
	OpHalt: "HALT", OpPush: "PUSH", OpPop: "POP",
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpCall: "CALL", OpRet: "RET",

	OpDigitalWrite: "DIGITAL_WRITE", OpDigitalRead: "DIGITAL_READ",
	OpAnalogWrite: "ANALOG_WRITE", OpAnalogRead: "ANALOG_READ",
	OpDelay: "DELAY", OpButtonPressed: "BUTTON_PRESSED",
	OpButtonReleased: "BUTTON_RELEASED", OpPinMode: "PIN_MODE",
	OpPrintf: "PRINTF", OpMillis: "MILLIS", OpMicros: "MICROS",

	OpEq: "EQ", OpNe: "NE", OpLt: "LT", OpGt: "GT", OpLe: "LE", OpGe: "GE",
	OpEqS: "EQ_S", OpNeS: "NE_S", OpLtS: "LT_S", OpGtS: "GT_S", OpLeS: "LE_S", OpGeS: "GE_S",

	OpJmp: "JMP", OpJmpTrue: "JMP_TRUE", OpJmpFalse: "JMP_FALSE",

	OpLogicalAnd: "AND", OpLogicalOr: "OR", OpLogicalNot: "NOT",

	OpLoadGlobal: "LOAD_GLOBAL", OpStoreGlobal: "STORE_GLOBAL",
	OpLoadLocal: "LOAD_LOCAL", OpStoreLocal: "STORE_LOCAL",
	OpLoadArray: "LOAD_ARRAY", OpStoreArray: "STORE_ARRAY", OpCreateArray: "CREATE_ARRAY",

	OpBitAnd: "BAND", OpBitOr: "BOR", OpBitXor: "BXOR", OpBitNot: "BNOT",
	OpShl: "SHL", OpShr: "SHR",
}

// String renders the opcode's mnemonic, or "UNASSIGNED" for unassigned
// slots — used by the disassembler and debug logging, never on the hot
// dispatch path.
func (o Opcode) String() string {
	if s, ok := mnemonics[o]; ok {
		return s
	}
	return "UNASSIGNED"
}

func (i Instruction) String() string {
	return i.Opcode.String()
}
