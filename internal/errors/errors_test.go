package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zkvm/internal/errors"
)

func TestCircularDependencyError(t *testing.T) {
	err := errors.CircularDependency("A")
	assert.Equal(t, errors.CodeCircularDependency, err.Code)
	assert.Contains(t, err.Error(), "A")
}

func TestExpressionTooLongError(t *testing.T) {
	err := errors.ExpressionTooLong(800, 700, "mod1_0.tau")
	assert.Equal(t, errors.CodeExpressionTooLong, err.Code)
	assert.Contains(t, err.Error(), "800")
	assert.Contains(t, err.Error(), "700")
}

func TestWithNote(t *testing.T) {
	err := errors.ModuleNotFound("adder").WithNote("declared dependencies: []")
	assert.Len(t, err.Notes, 1)
}

func TestReporterFormat(t *testing.T) {
	r := errors.NewReporter()
	out := r.Format(errors.TooManyVariables(60, 50, "big_module"))
	assert.Contains(t, out, "C0002")
	assert.Contains(t, out, "big_module")
}
