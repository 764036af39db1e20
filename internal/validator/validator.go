// Package validator implements the Witness Validator (spec.md §4.5): for
// every instruction the Executor runs, it checks whether (inputs, outputs)
// satisfy the algebraic relation internal/semtable assigns that opcode.
// Unchecked opcodes return vacuously true. Grounded on
// internal/semantic/analyzer.go's single-pass-accumulating-errors shape
// (walk the stream once, fold violations into a running counter, never
// abort the walk on one bad instruction) — generalized here from a static
// AST walk to a live instruction stream, and guarded with go-deadlock's
// deadlock-detecting mutex since a trace server or benchmark runner may
// read the counters from a different goroutine than the one stepping the
// Executor.
package validator

import (
	"fmt"

	deadlock "github.com/sasha-s/go-deadlock"

	"zkvm/internal/semtable"
)

// Validator implements vm.Validator. Its Check method satisfies the
// Executor's interface without internal/vm needing to import this package.
type Validator struct {
	mu          deadlock.Mutex
	validations int
	violations  int
	log         []Record
}

// Record describes one Check call's outcome. Check does not store Records;
// the "constraint_violations" field of an ExecutionResult is built from the
// Executor's own vm.Violation list.
type Record struct {
	Cycle   uint64
	Op      string
	OK      bool
	Details string
}

// New builds an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Check evaluates the opcode's defining relation over (inputs, outputs):
// add/sub wrap; and/or/xor/not are direct bitwise equality. Opcodes outside
// semtable's checked set — including mul/div/mod, which internal/lower only
// emits a placeholder equality for — return vacuously true.
func (v *Validator) Check(op string, inputs, outputs []uint32) (ok bool, details string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.validations++

	entry, known := semtable.Lookup(op)
	if !known || !entry.Checked {
		return true, ""
	}

	ok, details = checkRelation(entry.Relation, inputs, outputs)
	if !ok {
		v.violations++
	}
	return ok, details
}

func checkRelation(rel semtable.Relation, inputs, outputs []uint32) (bool, string) {
	switch rel {
	case semtable.RelAdd:
		return binaryCheck(inputs, outputs, func(a, b uint32) uint32 { return a + b })
	case semtable.RelSub:
		return binaryCheck(inputs, outputs, func(a, b uint32) uint32 { return a - b })
	case semtable.RelAnd:
		return binaryCheck(inputs, outputs, func(a, b uint32) uint32 { return a & b })
	case semtable.RelOr:
		return binaryCheck(inputs, outputs, func(a, b uint32) uint32 { return a | b })
	case semtable.RelXor:
		return binaryCheck(inputs, outputs, func(a, b uint32) uint32 { return a ^ b })
	case semtable.RelNot:
		if len(inputs) != 1 || len(outputs) != 1 {
			return false, "not: expected 1 input and 1 output"
		}
		want := ^inputs[0]
		if outputs[0] != want {
			return false, fmt.Sprintf("not: expected %d, got %d", want, outputs[0])
		}
		return true, ""
	default:
		return true, ""
	}
}

func binaryCheck(inputs, outputs []uint32, f func(a, b uint32) uint32) (bool, string) {
	if len(inputs) != 2 || len(outputs) != 1 {
		return false, "expected 2 inputs and 1 output"
	}
	want := f(inputs[0], inputs[1])
	if outputs[0] != want {
		return false, fmt.Sprintf("expected %d, got %d", want, outputs[0])
	}
	return true, ""
}

// Counts returns the cumulative (validations, violations) pair spec.md §4.5
// requires the Validator to record.
func (v *Validator) Counts() (validations, violations int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.validations, v.violations
}
