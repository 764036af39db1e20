package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/constraint"
	"zkvm/internal/lower"
)

func vars(w int) []constraint.Variable {
	return []constraint.Variable{
		{Name: "a", Width: w, Input: true},
		{Name: "b", Width: w, Input: true},
		{Name: "c", Width: w, Output: true},
	}
}

func TestLowerAddTwoBit(t *testing.T) {
	l := lower.New()
	lines, err := l.Lower(constraint.Constraint{
		Kind: constraint.KindArithmetic, Vars: vars(2), Metadata: map[string]string{"op": "add"},
	})
	require.NoError(t, err)
	assert.Contains(t, lines, "c_s0 = a0+b0")
	assert.Contains(t, lines, "c_c0 = a0&b0")
	assert.Contains(t, lines, "c_s1 = a1+b1+c_c0")
	assert.Contains(t, lines, "c0 = c_s0")
	assert.Contains(t, lines, "c1 = c_s1")
}

func TestLowerSubUsesComplementAndAdderChain(t *testing.T) {
	l := lower.New()
	lines, err := l.Lower(constraint.Constraint{
		Kind: constraint.KindArithmetic, Vars: vars(2), Metadata: map[string]string{"op": "sub"},
	})
	require.NoError(t, err)
	assert.Contains(t, lines, "c_notb0 = 1+b0")
	assert.Contains(t, lines, "c_s0 = a0+c_notb0+1")
}

func TestLowerArithmeticBadArity(t *testing.T) {
	l := lower.New()
	_, err := l.Lower(constraint.Constraint{
		Kind: constraint.KindArithmetic, Vars: vars(2)[:2], Metadata: map[string]string{"op": "add"},
	})
	assert.Error(t, err)
}

func TestLowerBitwiseAndOrXor(t *testing.T) {
	l := lower.New()
	for op, symbol := range map[string]string{"and": "&", "or": "|", "xor": "+"} {
		lines, err := l.Lower(constraint.Constraint{
			Kind: constraint.KindBoolean, Vars: vars(1), Metadata: map[string]string{"op": op},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"c0 = a0" + symbol + "b0"}, lines)
	}
}

func TestLowerNot(t *testing.T) {
	l := lower.New()
	lines, err := l.Lower(constraint.Constraint{
		Kind: constraint.KindBoolean,
		Vars: []constraint.Variable{{Name: "a", Width: 1}, {Name: "c", Width: 1}},
		Metadata: map[string]string{"op": "not"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c0 = 1+a0"}, lines)
}

func TestLowerArithmeticExtensionPointsArePlaceholders(t *testing.T) {
	l := lower.New()
	for _, op := range []string{"mul", "div", "mod"} {
		lines, err := l.Lower(constraint.Constraint{
			Kind: constraint.KindArithmetic, Vars: vars(1), Metadata: map[string]string{"op": op},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"c0 = a0&a0"}, lines, "op=%s", op)
	}
}

func TestLowerPlaceholderForExtensionPoints(t *testing.T) {
	l := lower.New()
	lines, err := l.Lower(constraint.Constraint{
		Kind: constraint.KindMemory,
		Vars: []constraint.Variable{{Name: "addr", Width: 32}, {Name: "val", Width: 32}},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "val0 = addr0&addr0", lines[0])
}
