package asm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/asm"
)

func TestParseSimpleProgram(t *testing.T) {
	src := `
// add two numbers
push 42
push 58
add
halt
`
	tree, err := asm.ParseString("test.zkasm", src)
	require.NoError(t, err)

	prog, err := tree.ToProgram()
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 4)
	assert.Equal(t, "push", prog.Instructions[0].Op)
	assert.Equal(t, uint32(42), *prog.Instructions[0].Immediate)
	assert.Equal(t, "halt", prog.Instructions[3].Op)
	assert.Nil(t, prog.Instructions[3].Immediate)
}

func TestParseHexImmediate(t *testing.T) {
	tree, err := asm.ParseString("t.zkasm", "push 0xFFFFFFFF\nhalt\n")
	require.NoError(t, err)
	prog, err := tree.ToProgram()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), *prog.Instructions[0].Immediate)
}

func TestUnknownMnemonicRejected(t *testing.T) {
	tree, err := asm.ParseString("t.zkasm", "frobnicate 1\n")
	require.NoError(t, err)
	_, err = tree.ToProgram()
	assert.Error(t, err)
}

func TestMemoryOpWithAndWithoutImmediate(t *testing.T) {
	tree, err := asm.ParseString("t.zkasm", "load 100\nload\nhalt\n")
	require.NoError(t, err)
	prog, err := tree.ToProgram()
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 3)
	assert.NotNil(t, prog.Instructions[0].Immediate)
	assert.Nil(t, prog.Instructions[1].Immediate)
}

func TestPushRequiresExactlyOneImmediate(t *testing.T) {
	tree, err := asm.ParseString("t.zkasm", "push\n")
	require.NoError(t, err)
	_, err = tree.ToProgram()
	assert.Error(t, err)
}

func TestDisassembleRoundTrip(t *testing.T) {
	tree, err := asm.ParseString("t.zkasm", "push 1\npush 2\nadd\nhalt\n")
	require.NoError(t, err)
	prog, err := tree.ToProgram()
	require.NoError(t, err)

	out := asm.Disassemble(prog)
	assert.Equal(t, "push 1\npush 2\nadd\nhalt", out)
}
