package vm

import (
	"github.com/tliron/commonlog"

	"zkvm/internal/config"
	"zkvm/internal/isa"
	"zkvm/internal/vmerrors"
)

var log = commonlog.GetLogger("zkvm.vm")

// Validator is the Executor's view of the Witness Validator (spec.md §4.5):
// after every successfully executed instruction the Executor supplies the
// instruction's (opcode, inputs, outputs) so the Validator can check its
// algebraic relation. Defined here, rather than imported, so internal/vm
// never depends on internal/validator — the Validator depends on the
// Executor's instruction stream, not the other way around.
type Validator interface {
	Check(op string, inputs, outputs []uint32) (ok bool, details string)
}

// Violation records one Validator disagreement surfaced during a run. It is
// accumulated, not fatal (spec.md §4.5: "does not itself fault execution").
type Violation struct {
	Cycle   uint64
	Op      string
	Details string
}

// Stats is the subset of an ExecutionResult's "stats" object
// (spec.md §6) the Executor itself is responsible for.
type Stats struct {
	Cycles      uint64
	Instructions uint64
	Validations int
	Violations  int
}

// Executor runs one Program against one State to completion or fault.
type Executor struct {
	Config    config.VMConfig
	Validator Validator
	Trace     bool

	violations          []Violation
	trace               []Entry
	instructionsChecked int
}

// NewExecutor builds an Executor bound to cfg. validator may be nil, in
// which case no algebraic checking happens and Stats.Validations stays 0.
func NewExecutor(cfg config.VMConfig, validator Validator) *Executor {
	return &Executor{Config: cfg, Validator: validator}
}

// Result is what Run returns: the final (possibly partial, on fault) state,
// its stats, the trace if enabled, and an error if execution faulted.
type Result struct {
	Success    bool
	State      *State
	Stats      Stats
	Trace      []Entry
	Violations []Violation
	Err        error
}

// Run drives the fetch-decode-execute loop to completion: halt, max_cycles
// reached, or pc advancing past the program — all three are success
// (spec.md §4.4) — or returns on the first instruction fault.
func (e *Executor) Run(program *isa.Program, input []uint32) Result {
	state := NewState(e.Config, input)
	return e.RunState(program, state)
}

// StepOnce executes exactly one instruction against state, for callers
// that drive the loop themselves (the step-REPL, internal/traceserver).
// It is a no-op returning nil once the program has halted or run off its
// end, so callers can poll it without special-casing completion.
func (e *Executor) StepOnce(program *isa.Program, state *State) error {
	if state.Halted || int(state.PC) >= len(program.Instructions) {
		return nil
	}
	return e.step(program, state)
}

// RunState drives the loop against a caller-supplied State, so callers can
// inspect or reuse state across calls.
func (e *Executor) RunState(program *isa.Program, state *State) Result {
	for !state.Halted && state.CycleCount < e.Config.MaxCycles {
		if int(state.PC) >= len(program.Instructions) {
			break
		}
		if err := e.step(program, state); err != nil {
			log.Debugf("vm: fault at cycle %d: %v", state.CycleCount, err)
			return Result{
				Success:    false,
				State:      state,
				Stats:      e.stats(state),
				Trace:      e.trace,
				Violations: e.violations,
				Err:        err,
			}
		}
	}

	// Halting, exhausting max_cycles, and running off the end of the program
	// are all "ran to completion" per spec.md §4.4 — none of them is a
	// fault. vmerrors.ExecutionTimeout exists in the taxonomy for a future
	// wall-clock-bounded mode; the cycle-bounded loop here never returns it.
	return Result{Success: true, State: state, Stats: e.stats(state), Trace: e.trace, Violations: e.violations}
}

func (e *Executor) stats(state *State) Stats {
	return Stats{
		Cycles:       state.CycleCount,
		Instructions: state.CycleCount,
		Validations:  e.instructionsChecked,
		Violations:   len(e.violations),
	}
}

// step executes exactly one instruction, advancing cycle_count and, unless
// the instruction is control-flow or halt, pc.
func (e *Executor) step(program *isa.Program, state *State) error {
	pcBefore := state.PC
	instr := program.Instructions[state.PC]

	op, ok := isa.Lookup(instr.Op)
	if !ok {
		return vmerrors.InvalidInstruction(instr.Op, state.CycleCount)
	}

	var before Snapshot
	if e.Trace {
		before = state.snapshot()
	}

	inputs, outputs, err := e.dispatch(op, instr, state)
	if err != nil {
		return err
	}

	if e.Validator != nil {
		e.instructionsChecked++
		if ok, details := e.Validator.Check(op.Canonical(), inputs, outputs); !ok {
			e.violations = append(e.violations, Violation{Cycle: state.CycleCount, Op: op.Canonical(), Details: details})
		}
	}

	if e.Trace {
		after := state.snapshot()
		e.trace = append(e.trace, newEntry(state.CycleCount, pcBefore, instr, before, after))
	}

	state.CycleCount++
	return nil
}
