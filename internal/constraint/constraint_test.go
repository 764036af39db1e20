package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zkvm/internal/constraint"
)

func abcVars(w int) []constraint.Variable {
	return []constraint.Variable{
		{Name: "a", Width: w, Input: true},
		{Name: "b", Width: w, Input: true},
		{Name: "c", Width: w, Output: true},
	}
}

func TestModuleValidateOK(t *testing.T) {
	m := constraint.Module{
		Name:      "adder",
		Variables: abcVars(8),
		Constraints: []constraint.Constraint{
			{Kind: constraint.KindArithmetic, Vars: abcVars(8), Expression: "c = (a+b) mod 2^8"},
		},
	}
	assert.NoError(t, m.Validate())
}

func TestModuleValidateBadArity(t *testing.T) {
	m := constraint.Module{
		Name:      "broken",
		Variables: abcVars(8),
		Constraints: []constraint.Constraint{
			{Kind: constraint.KindArithmetic, Vars: abcVars(8)[:2], Expression: "bad"},
		},
	}
	assert.Error(t, m.Validate())
}

func TestModuleValidateBadKind(t *testing.T) {
	m := constraint.Module{
		Name:      "broken",
		Variables: abcVars(8),
		Constraints: []constraint.Constraint{
			{Kind: "nonsense", Vars: abcVars(8)},
		},
	}
	assert.Error(t, m.Validate())
}

func TestBitNameCollision(t *testing.T) {
	m := constraint.Module{
		Name: "collide",
		Variables: []constraint.Variable{
			{Name: "a", Width: 2},
			{Name: "a1", Width: 1},
		},
	}
	assert.Error(t, m.Validate())
}

func TestVariableNamesUnion(t *testing.T) {
	cs := []constraint.Constraint{
		{Vars: abcVars(8)},
		{Vars: []constraint.Variable{{Name: "a", Width: 8}, {Name: "d", Width: 8}}},
	}
	names := constraint.VariableNames(cs)
	assert.Len(t, names, 4)
}
