// Package vmerrors defines the Executor's fault taxonomy (spec.md §7,
// "VM" layer). Every fault is surfaced structurally: the Executor wraps
// the faulting instruction's cycle into the error, halts, and returns it
// unsuccessful rather than ever recovering silently.
package vmerrors

import "fmt"

// Kind identifies which of the eight VM faults an error represents.
type Kind string

const (
	KindStackUnderflow      Kind = "stack_underflow"
	KindInvalidMemoryAccess Kind = "invalid_memory_access"
	KindDivisionByZero      Kind = "division_by_zero"
	KindConstraintViolation Kind = "constraint_violation"
	KindProgramError        Kind = "program_error"
	KindAssertionFailed     Kind = "assertion_failed"
	KindInvalidInstruction  Kind = "invalid_instruction"
	KindExecutionTimeout    Kind = "execution_timeout"
)

// Fault is one VM-layer error, carrying enough context to report where in
// execution it happened.
type Fault struct {
	Kind    Kind
	Op      string
	Cycle   uint64
	Details string
}

func (f *Fault) Error() string {
	if f.Details != "" {
		return fmt.Sprintf("%s at cycle %d (%s): %s", f.Kind, f.Cycle, f.Op, f.Details)
	}
	return fmt.Sprintf("%s at cycle %d (%s)", f.Kind, f.Cycle, f.Op)
}

func StackUnderflow(op string, cycle uint64, required, available int) *Fault {
	return &Fault{Kind: KindStackUnderflow, Op: op, Cycle: cycle,
		Details: fmt.Sprintf("needs %d operand(s), has %d", required, available)}
}

func InvalidMemoryAccess(op string, cycle uint64, addr, size uint32) *Fault {
	return &Fault{Kind: KindInvalidMemoryAccess, Op: op, Cycle: cycle,
		Details: fmt.Sprintf("address %d out of bounds [0, %d)", addr, size)}
}

func DivisionByZero(op string, cycle uint64) *Fault {
	return &Fault{Kind: KindDivisionByZero, Op: op, Cycle: cycle}
}

func ConstraintViolation(op string, cycle uint64, details string) *Fault {
	return &Fault{Kind: KindConstraintViolation, Op: op, Cycle: cycle, Details: details}
}

func ProgramError(message string) *Fault {
	return &Fault{Kind: KindProgramError, Op: "", Cycle: 0, Details: message}
}

func AssertionFailed(cycle uint64) *Fault {
	return &Fault{Kind: KindAssertionFailed, Op: "assert", Cycle: cycle}
}

func InvalidInstruction(op string, cycle uint64) *Fault {
	return &Fault{Kind: KindInvalidInstruction, Op: op, Cycle: cycle}
}

func ExecutionTimeout(cycles uint64) *Fault {
	return &Fault{Kind: KindExecutionTimeout, Op: "", Cycle: cycles,
		Details: fmt.Sprintf("exceeded max_cycles=%d", cycles)}
}

// CallStackUnderflow reports ret with an empty call stack — a ProgramError
// per spec.md §4.4 ("empty call stack is a fault").
func CallStackUnderflow(cycle uint64) *Fault {
	return &Fault{Kind: KindProgramError, Op: "ret", Cycle: cycle, Details: "call stack is empty"}
}
