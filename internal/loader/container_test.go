package loader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cockpit-vm/cockpitvm/internal/vm"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	program := []vm.Instruction{
		{Opcode: vm.OpPush, Immediate: 10},
		{Opcode: vm.OpPush, Immediate: 20},
		{Opcode: vm.OpAdd},
		{Opcode: vm.OpHalt},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, program))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, program, decoded)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []vm.Instruction{{Opcode: vm.OpHalt}}))
	corrupted := buf.Bytes()
	corrupted[0] = 0x00

	_, err := Decode(bytes.NewReader(corrupted))
	assert.Error(t, err)
}

func TestDecodeRawWireFormat(t *testing.T) {
	var buf bytes.Buffer
	program := []vm.Instruction{
		{Opcode: vm.OpPush, Flags: vm.FlagSigned, Immediate: 0x1234},
		{Opcode: vm.OpHalt},
	}
	require.NoError(t, EncodeRaw(&buf, program))
	assert.Equal(t, len(program)*instructionSize, buf.Len())

	decoded, err := DecodeRaw(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, program, decoded)
}

func TestDecodeRawRejectsTruncatedStream(t *testing.T) {
	_, err := DecodeRaw([]byte{0x01, 0x00, 0x00})
	assert.Error(t, err)
}
