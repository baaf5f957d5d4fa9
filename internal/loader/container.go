// Package loader decodes and encodes the optional bytecode container
// format: a thin wrapper around the bare 32-bit little-endian
// instruction stream that is the wire format proper. The Engine itself
// never sees this container — it only ever consumes the decoded
// []vm.Instruction slice.
package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

// Magic identifies a CockpitVM bytecode container. Version 1 is the
// only format this package emits or accepts.
const (
	Magic          uint32 = 0x434B5654 // "CKVT"
	Version        uint32 = 1
	headerWords           = 3 // magic, version, instruction count
	instructionSize       = 4 // opcode(1) + flags(1) + immediate(2), little-endian
)

// Decode reads a container (header + raw instruction words) from r and
// returns the decoded instruction slice. A bare, headerless stream
// (the wire format without a surrounding container) is not handled
// here — use DecodeRaw for that.
func Decode(r io.Reader) ([]vm.Instruction, error) {
	var header [headerWords]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("loader: reading container header: %w", err)
	}
	if header[0] != Magic {
		return nil, fmt.Errorf("loader: bad magic %#x, want %#x", header[0], Magic)
	}
	if header[1] != Version {
		return nil, fmt.Errorf("loader: unsupported container version %d", header[1])
	}
	count := header[2]

	words := make([]byte, int(count)*instructionSize)
	if _, err := io.ReadFull(r, words); err != nil {
		return nil, fmt.Errorf("loader: reading %d instruction words: %w", count, err)
	}
	return decodeWords(words)
}

// DecodeRaw decodes a bare sequence of packed 32-bit instruction words
// with no container header — the wire format proper.
func DecodeRaw(data []byte) ([]vm.Instruction, error) {
	return decodeWords(data)
}

func decodeWords(data []byte) ([]vm.Instruction, error) {
	if len(data)%instructionSize != 0 {
		return nil, fmt.Errorf("loader: %d bytes is not a multiple of the %d-byte instruction word", len(data), instructionSize)
	}
	n := len(data) / instructionSize
	program := make([]vm.Instruction, n)
	for i := 0; i < n; i++ {
		word := data[i*instructionSize : i*instructionSize+instructionSize]
		program[i] = vm.Instruction{
			Opcode:    vm.Opcode(word[0]),
			Flags:     word[1],
			Immediate: binary.LittleEndian.Uint16(word[2:4]),
		}
	}
	return program, nil
}

// Encode writes program to w as a magic/version/count-framed
// container.
func Encode(w io.Writer, program []vm.Instruction) error {
	header := [headerWords]uint32{Magic, Version, uint32(len(program))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("loader: writing container header: %w", err)
	}
	return EncodeRaw(w, program)
}

// LoadFile reads path and decodes it as a program: container format if
// the magic number matches, otherwise the bare wire format. This is
// the entry point cmd/cockpitvm uses so a single file extension works
// with either representation.
func LoadFile(path string) ([]vm.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %q: %w", path, err)
	}
	if len(data) >= headerWords*4 {
		if binary.LittleEndian.Uint32(data[0:4]) == Magic {
			return Decode(bytes.NewReader(data))
		}
	}
	return DecodeRaw(data)
}

// EncodeRaw writes program as a bare packed-word stream, with no
// container header — the wire format proper.
func EncodeRaw(w io.Writer, program []vm.Instruction) error {
	buf := make([]byte, instructionSize)
	for _, instr := range program {
		buf[0] = byte(instr.Opcode)
		buf[1] = instr.Flags
		binary.LittleEndian.PutUint16(buf[2:4], instr.Immediate)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("loader: writing instruction word: %w", err)
		}
	}
	return nil
}
