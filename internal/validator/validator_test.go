package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/validator"
)

func TestCheckAddAgrees(t *testing.T) {
	v := validator.New()
	ok, _ := v.Check("add", []uint32{2, 3}, []uint32{5})
	assert.True(t, ok)
	validations, violations := v.Counts()
	assert.Equal(t, 1, validations)
	assert.Equal(t, 0, violations)
}

func TestCheckAddDisagreesIsAViolation(t *testing.T) {
	v := validator.New()
	ok, details := v.Check("add", []uint32{2, 3}, []uint32{6})
	assert.False(t, ok)
	assert.NotEmpty(t, details)
	_, violations := v.Counts()
	assert.Equal(t, 1, violations)
}

func TestCheckSubWraps(t *testing.T) {
	v := validator.New()
	ok, _ := v.Check("sub", []uint32{0, 1}, []uint32{0xFFFFFFFF})
	assert.True(t, ok)
}

func TestCheckNot(t *testing.T) {
	v := validator.New()
	ok, _ := v.Check("not", []uint32{0}, []uint32{0xFFFFFFFF})
	assert.True(t, ok)
}

func TestCheckMulDivModAreUncheckedExtensionPoints(t *testing.T) {
	// mul/div/mod have no real lowering in internal/lower (placeholder
	// equality only), so semtable marks them unchecked: a blatantly wrong
	// (inputs, outputs) pair must still report ok.
	v := validator.New()
	for _, op := range []string{"mul", "div", "mod"} {
		ok, _ := v.Check(op, []uint32{2, 3}, []uint32{9999})
		assert.True(t, ok, "op=%s", op)
	}
	_, violations := v.Counts()
	assert.Equal(t, 0, violations)
}

func TestCheckAliasResolvesToCanonical(t *testing.T) {
	v := validator.New()
	ok, _ := v.Check("mload", []uint32{0}, []uint32{100})
	require.True(t, ok) // memory is unchecked: vacuously true regardless of values
}

func TestCheckUncheckedOpcodeIsVacuouslyTrue(t *testing.T) {
	v := validator.New()
	ok, _ := v.Check("jmp", nil, nil)
	assert.True(t, ok)
	_, violations := v.Counts()
	assert.Equal(t, 0, violations)
}

func TestCheckUnknownOpcodeIsVacuouslyTrue(t *testing.T) {
	v := validator.New()
	ok, _ := v.Check("nonsense", nil, nil)
	assert.True(t, ok)
}
