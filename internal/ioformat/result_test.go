package ioformat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/config"
	"zkvm/internal/ioformat"
	"zkvm/internal/isa"
	"zkvm/internal/validator"
	"zkvm/internal/vm"
)

func TestFromResultSuccess(t *testing.T) {
	imm := uint32(5)
	p := &isa.Program{Instructions: []isa.Instruction{
		{Op: "push", Immediate: &imm}, {Op: "halt"},
	}}
	val := validator.New()
	exec := vm.NewExecutor(config.NewVMConfig(), val)
	res := exec.Run(p, nil)
	require.NoError(t, res.Err)

	doc := ioformat.FromResult(res, 1.5, 1024)
	assert.True(t, doc.Success)
	assert.Equal(t, uint32(5), doc.FinalState.Stack[0])
	assert.Empty(t, doc.Error)
	assert.Equal(t, res.Stats.Cycles, doc.Stats.Cycles)
}

func TestFromResultFailure(t *testing.T) {
	p := &isa.Program{Instructions: []isa.Instruction{{Op: "add"}}}
	exec := vm.NewExecutor(config.NewVMConfig(), nil)
	res := exec.Run(p, nil)
	require.Error(t, res.Err)

	doc := ioformat.FromResult(res, 0, 0)
	assert.False(t, doc.Success)
	assert.NotEmpty(t, doc.Error)
}
