package ioformat

import (
	"zkvm/internal/vm"
)

// StateDoc is the JSON form of a VM State, the "final_state" field of an
// ExecutionResult (spec.md §6).
type StateDoc struct {
	Registers    []uint32 `json:"registers"`
	Stack        []uint32 `json:"stack"`
	Memory       []uint32 `json:"memory"`
	PC           uint32   `json:"pc"`
	Halted       bool     `json:"halted"`
	CycleCount   uint64   `json:"cycle_count"`
	CallStack    []uint32 `json:"call_stack"`
	InputBuffer  []uint32 `json:"input_buffer"`
	OutputBuffer []uint32 `json:"output_buffer"`
}

// StatsDoc is the "stats" field of an ExecutionResult.
type StatsDoc struct {
	Cycles            uint64  `json:"cycles"`
	Instructions      uint64  `json:"instructions"`
	ConstraintChecks  int     `json:"constraint_validations"`
	ConstraintFails   int     `json:"constraint_violations_count"`
	WallClockMillis   float64 `json:"wall_clock_ms"`
	InstructionsPerSec float64 `json:"instructions_per_sec"`
	MemoryBytes       int     `json:"memory_bytes"`
}

// ViolationDoc is one entry of the "constraint_violations" field.
type ViolationDoc struct {
	Cycle   uint64 `json:"cycle"`
	Op      string `json:"op"`
	Details string `json:"details"`
}

// TraceEntryDoc is one entry of the optional "trace" field.
type TraceEntryDoc struct {
	Cycle           uint64   `json:"cycle"`
	PCBefore        uint32   `json:"pc_before"`
	Op              string   `json:"op"`
	StackBefore     []uint32 `json:"stack_before"`
	StackAfter      []uint32 `json:"stack_after"`
	RegistersBefore []uint32 `json:"registers_before"`
	RegistersAfter  []uint32 `json:"registers_after"`
}

// ExecutionResultDoc is the full JSON document spec.md §6 defines for
// "Execution result".
type ExecutionResultDoc struct {
	Success              bool            `json:"success"`
	FinalState           StateDoc        `json:"final_state"`
	Stats                StatsDoc        `json:"stats"`
	Error                string          `json:"error,omitempty"`
	Trace                []TraceEntryDoc `json:"trace,omitempty"`
	ConstraintViolations []ViolationDoc  `json:"constraint_violations,omitempty"`
}

// FromResult builds the JSON-ready document from an Executor Result.
// wallClockMillis and memoryBytes are supplied by the caller (the CLI
// layer measures wall time; internal/vm has no notion of it, per spec.md
// §5's "timeouts are expressed in cycles, not wall time").
func FromResult(res vm.Result, wallClockMillis float64, memoryBytes int) ExecutionResultDoc {
	doc := ExecutionResultDoc{
		Success: res.Success,
		Stats: StatsDoc{
			Cycles:           res.Stats.Cycles,
			Instructions:     res.Stats.Instructions,
			ConstraintChecks: res.Stats.Validations,
			ConstraintFails:  res.Stats.Violations,
			WallClockMillis:  wallClockMillis,
			MemoryBytes:      memoryBytes,
		},
	}
	if wallClockMillis > 0 {
		doc.Stats.InstructionsPerSec = float64(res.Stats.Instructions) / (wallClockMillis / 1000.0)
	}
	if res.Err != nil {
		doc.Error = res.Err.Error()
	}
	if res.State != nil {
		doc.FinalState = StateDoc{
			Registers:    res.State.Registers,
			Stack:        res.State.Stack,
			Memory:       res.State.Memory,
			PC:           res.State.PC,
			Halted:       res.State.Halted,
			CycleCount:   res.State.CycleCount,
			CallStack:    res.State.CallStack,
			InputBuffer:  res.State.InputBuffer,
			OutputBuffer: res.State.OutputBuffer,
		}
	}
	for _, v := range res.Violations {
		doc.ConstraintViolations = append(doc.ConstraintViolations, ViolationDoc{Cycle: v.Cycle, Op: v.Op, Details: v.Details})
	}
	for _, e := range res.Trace {
		doc.Trace = append(doc.Trace, TraceEntryDoc{
			Cycle: e.Cycle, PCBefore: e.PCBefore, Op: e.Instruction.Op,
			StackBefore: e.StackBefore, StackAfter: e.StackAfter,
			RegistersBefore: e.RegistersBefore, RegistersAfter: e.RegistersAfter,
		})
	}
	return doc
}
