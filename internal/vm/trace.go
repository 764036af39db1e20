package vm

import "zkvm/internal/isa"

// Entry is one Trace Entry (spec.md §3): an immutable record of a single
// instruction's effect on state. Tracing is opt-in (spec.md §9 "Trace
// memory") since a full per-cycle snapshot costs O(state).
type Entry struct {
	Cycle           uint64
	PCBefore        uint32
	Instruction     isa.Instruction
	StackBefore     []uint32
	StackAfter      []uint32
	RegistersBefore []uint32
	RegistersAfter  []uint32
}

func newEntry(cycle uint64, pcBefore uint32, instr isa.Instruction, before Snapshot, after Snapshot) Entry {
	return Entry{
		Cycle:           cycle,
		PCBefore:        pcBefore,
		Instruction:     instr,
		StackBefore:     before.Stack,
		StackAfter:      after.Stack,
		RegistersBefore: before.Registers,
		RegistersAfter:  after.Registers,
	}
}
