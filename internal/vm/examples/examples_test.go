package examples_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/config"
	"zkvm/internal/vm"
	"zkvm/internal/vm/examples"
)

func TestArithmeticExampleRuns(t *testing.T) {
	p := examples.Arithmetic()
	require.NoError(t, p.Validate())
	res := vm.NewExecutor(config.NewVMConfig(), nil).Run(p, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, uint32(200), res.State.Stack[len(res.State.Stack)-1])
}

func TestFibonacciExampleRunsWithoutFault(t *testing.T) {
	p := examples.Fibonacci()
	require.NoError(t, p.Validate())
	res := vm.NewExecutor(config.NewVMConfig(), nil).Run(p, nil)
	require.NoError(t, res.Err)
}

func TestComprehensiveExampleValidatesAndRuns(t *testing.T) {
	p := examples.Comprehensive()
	require.NoError(t, p.Validate())
	res := vm.NewExecutor(config.NewVMConfig(), nil).Run(p, nil)
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
}

func TestBenchmarkCatalogueSizesScaleWithIterations(t *testing.T) {
	catalogue := examples.All(10)
	require.Contains(t, catalogue, "arithmetic")
	require.Contains(t, catalogue, "memory")
	require.Contains(t, catalogue, "crypto")
	for _, p := range catalogue {
		require.NoError(t, p.Validate())
	}
}
