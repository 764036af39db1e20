package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/config"
	"zkvm/internal/isa"
	"zkvm/internal/vm"
)

func imm(v uint32) *uint32 { return &v }

func instr(op string, args ...uint32) isa.Instruction {
	if len(args) == 0 {
		return isa.Instruction{Op: op}
	}
	return isa.Instruction{Op: op, Immediate: imm(args[0])}
}

func program(instrs ...isa.Instruction) *isa.Program {
	return &isa.Program{Instructions: instrs}
}

func newExecutor() *vm.Executor {
	return vm.NewExecutor(config.NewVMConfig(), nil)
}

func topOf(t *testing.T, s *vm.State) uint32 {
	t.Helper()
	require.NotEmpty(t, s.Stack)
	return s.Stack[len(s.Stack)-1]
}

func TestArithmeticScenario(t *testing.T) {
	p := program(
		instr("push", 42), instr("push", 58), instr("add"),
		instr("dup"), instr("push", 2), instr("mul"), instr("halt"),
	)
	require.NoError(t, p.Validate())

	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, uint32(200), topOf(t, res.State))
	assert.Equal(t, uint64(7), res.Stats.Cycles)
}

func TestControlFlowScenario(t *testing.T) {
	p := program(
		instr("push", 1), instr("jnz", 4), instr("push", 999), instr("push", 999), instr("halt"),
	)
	require.NoError(t, p.Validate())

	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Empty(t, res.State.Stack)
}

func TestMemoryScenario(t *testing.T) {
	p := program(
		instr("push", 100), instr("push", 0), instr("store"),
		instr("push", 0), instr("load"), instr("halt"),
	)
	require.NoError(t, p.Validate())

	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(100), topOf(t, res.State))
}

func TestComparisonScenario(t *testing.T) {
	p := program(instr("push", 45), instr("push", 50), instr("lt"), instr("halt"))
	require.NoError(t, p.Validate())

	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(1), topOf(t, res.State))
}

func TestWrappingAdd(t *testing.T) {
	p := program(instr("push", 0xFFFFFFFF), instr("push", 1), instr("add"), instr("halt"))
	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(0), topOf(t, res.State))
}

func TestWrappingSub(t *testing.T) {
	p := program(instr("push", 0), instr("push", 1), instr("sub"), instr("halt"))
	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(0xFFFFFFFF), topOf(t, res.State))
}

func TestDivisionByZeroFaults(t *testing.T) {
	p := program(instr("push", 10), instr("push", 0), instr("div"), instr("halt"))
	res := newExecutor().Run(p, nil)
	require.Error(t, res.Err)
	assert.False(t, res.Success)
}

func TestShiftMasksCountAbove31(t *testing.T) {
	p := program(instr("push", 1), instr("push", 32), instr("shl"), instr("halt"))
	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(1), topOf(t, res.State)) // shift count masked to 0
}

func TestStackUnderflowFaults(t *testing.T) {
	p := program(instr("add"), instr("halt"))
	res := newExecutor().Run(p, nil)
	require.Error(t, res.Err)
	assert.False(t, res.Success)
}

func TestRetWithEmptyCallStackFaults(t *testing.T) {
	p := program(instr("ret"))
	res := newExecutor().Run(p, nil)
	require.Error(t, res.Err)
}

func TestCallAndReturn(t *testing.T) {
	p := program(
		instr("jmp", 3), // 0
		instr("push", 7), instr("ret"), // 1, 2 (subroutine)
		instr("call", 1), instr("halt"), // 3, 4
	)
	require.NoError(t, p.Validate())
	res := newExecutor().Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(7), topOf(t, res.State))
}

func TestReadWritesInputToOutput(t *testing.T) {
	p := program(instr("read"), instr("write"), instr("halt"))
	res := newExecutor().Run(p, []uint32{55})
	require.NoError(t, res.Err)
	assert.Equal(t, []uint32{55}, res.State.OutputBuffer)
}

func TestAssertFailureFaults(t *testing.T) {
	p := program(instr("push", 0), instr("assert"), instr("halt"))
	res := newExecutor().Run(p, nil)
	require.Error(t, res.Err)
}

func TestTraceCapturesEntries(t *testing.T) {
	e := vm.NewExecutor(config.NewVMConfig(), nil)
	e.Trace = true
	p := program(instr("push", 1), instr("push", 2), instr("add"), instr("halt"))
	res := e.RunState(p, vm.NewState(config.NewVMConfig(), nil))
	require.NoError(t, res.Err)
	assert.Len(t, res.Trace, 4)
}

type fakeValidator struct {
	calls int
	ok    bool
}

func (f *fakeValidator) Check(op string, inputs, outputs []uint32) (bool, string) {
	f.calls++
	return f.ok, "mismatch"
}

func TestValidatorIsConsultedAndViolationsAccumulate(t *testing.T) {
	fv := &fakeValidator{ok: false}
	e := vm.NewExecutor(config.NewVMConfig(), fv)
	p := program(instr("push", 1), instr("push", 2), instr("add"), instr("halt"))
	res := e.Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, 4, fv.calls)
	assert.Len(t, res.Violations, 4)
	assert.Equal(t, 4, res.Stats.Validations)
}
