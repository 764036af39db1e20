package ioformat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/ioformat"
	"zkvm/internal/isa"
)

func TestProgramRoundTrip(t *testing.T) {
	v := uint32(42)
	original := &isa.Program{
		Instructions: []isa.Instruction{
			{Op: "push", Immediate: &v},
			{Op: "halt"},
		},
		Metadata: isa.Metadata{Name: "demo", Version: "1.0.0", Description: "test", CreatedAt: "2026-01-01"},
	}

	data, err := ioformat.EncodeProgram(original)
	require.NoError(t, err)

	decoded, err := ioformat.DecodeProgram(data)
	require.NoError(t, err)

	require.Len(t, decoded.Instructions, 2)
	assert.Equal(t, "push", decoded.Instructions[0].Op)
	require.NotNil(t, decoded.Instructions[0].Immediate)
	assert.Equal(t, uint32(42), *decoded.Instructions[0].Immediate)
	assert.Equal(t, "halt", decoded.Instructions[1].Op)
	assert.Nil(t, decoded.Instructions[1].Immediate)
	assert.Equal(t, original.Metadata, decoded.Metadata)
}

func TestProgramRoundTripNoImmediate(t *testing.T) {
	original := &isa.Program{Instructions: []isa.Instruction{{Op: "nop"}}}
	data, err := ioformat.EncodeProgram(original)
	require.NoError(t, err)

	decoded, err := ioformat.DecodeProgram(data)
	require.NoError(t, err)
	assert.Equal(t, original.Instructions, decoded.Instructions)
}
