package pack_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/constraint"
	"zkvm/internal/pack"
)

func TestExtractVariables(t *testing.T) {
	vars := pack.ExtractVariables("c0 = (a0&b0)|((a1+b1)&c0)")
	assert.ElementsMatch(t, []string{"c0", "a0", "b0", "a1", "b1", "c0"}, vars)
}

func TestPackGreedyRespectsCharBudget(t *testing.T) {
	constraints := make([]string, 0, 400)
	for i := 0; i < 400; i++ {
		constraints = append(constraints, "c0 = a0&b0") // len 10, 3 vars each but shared names
	}
	groups, err := pack.Pack(constraints, 700, 50, "test")
	require.NoError(t, err)

	var total int
	for _, g := range groups {
		lineLen := 0
		for i, c := range g.Constraints {
			if i > 0 {
				lineLen += 4
			}
			lineLen += len(c)
		}
		assert.LessOrEqual(t, lineLen, 700)
		assert.LessOrEqual(t, len(g.Vars), 50)
		total += len(g.Constraints)
	}
	assert.Equal(t, 400, total)
}

func TestPackSingleConstraintTooLong(t *testing.T) {
	huge := strings.Repeat("a0+", 300) + "a0"
	_, err := pack.Pack([]string{huge}, 700, 50, "test")
	assert.Error(t, err)
}

func TestPackPreservesOrder(t *testing.T) {
	constraints := []string{"a0 = b0&b0", "a1 = b1&b1", "a2 = b2&b2"}
	groups, err := pack.Pack(constraints, 700, 50, "test")
	require.NoError(t, err)
	var flat []string
	for _, g := range groups {
		flat = append(flat, g.Constraints...)
	}
	assert.Equal(t, constraints, flat)
}

func TestOrderTopologicalAndLevels(t *testing.T) {
	modules := []constraint.Module{
		{Name: "A", Dependencies: []string{"B"}},
		{Name: "B", Dependencies: []string{"C"}},
		{Name: "C"},
	}
	order, levels, err := pack.Order(modules)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, order)
	assert.Equal(t, [][]string{{"C"}, {"B"}, {"A"}}, levels)
}

func TestOrderDetectsCycle(t *testing.T) {
	modules := []constraint.Module{
		{Name: "A", Dependencies: []string{"B"}},
		{Name: "B", Dependencies: []string{"A"}},
	}
	_, _, err := pack.Order(modules)
	assert.Error(t, err)
}

func TestOrderMissingDependency(t *testing.T) {
	modules := []constraint.Module{
		{Name: "A", Dependencies: []string{"ghost"}},
	}
	_, _, err := pack.Order(modules)
	assert.Error(t, err)
}

func TestBuildWritesFilesAndManifest(t *testing.T) {
	dir := t.TempDir()
	p := pack.New(700, 50)

	mod := constraint.Module{
		Name: "adder",
		Variables: []constraint.Variable{
			{Name: "a", Width: 2, Input: true},
			{Name: "b", Width: 2, Input: true},
			{Name: "c", Width: 2, Output: true},
		},
		Constraints: []constraint.Constraint{
			{Kind: constraint.KindArithmetic,
				Vars: []constraint.Variable{
					{Name: "a", Width: 2}, {Name: "b", Width: 2}, {Name: "c", Width: 2},
				},
				Metadata: map[string]string{"op": "add"}},
		},
	}

	manifest, err := p.Build([]constraint.Module{mod}, dir, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 1, manifest.TotalFiles)
	assert.Greater(t, manifest.TotalConstraints, 0)
	assert.Equal(t, "1.0.0", manifest.CompilerVersion)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "adder_0.tau", entries[0].Name())

	content, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# Module: adder (Part 0)"))
	assert.Contains(t, string(content), "solve ")
	assert.Contains(t, string(content), "result=1")
	assert.Contains(t, string(content), "quit")
}

func TestBuildFailsOnCircularDependency(t *testing.T) {
	dir := t.TempDir()
	p := pack.New(700, 50)
	modules := []constraint.Module{
		{Name: "A", Dependencies: []string{"B"}},
		{Name: "B", Dependencies: []string{"A"}},
	}
	_, err := p.Build(modules, dir, "1.0.0")
	assert.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 0)
}
