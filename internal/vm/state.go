// Package vm implements the Executor (spec.md §4.4): a sequential
// fetch-decode-execute loop over the closed 45-opcode instruction set
// defined in internal/isa. The loop shape is grounded on
// other_examples/c41c7e81_robertodauria-ebpf-vm's register-array VM
// (PC-indexed dispatch over a fixed-size register file and stack), adapted
// from eBPF's 64-bit/11-register machine to this specification's 32-bit
// words, unbounded stack, and 45-mnemonic ISA.
package vm

import (
	"github.com/segmentio/ksuid"

	"zkvm/internal/config"
)

// State is the VM State tuple spec.md §3 defines.
type State struct {
	Registers []uint32
	Stack     []uint32
	Memory    []uint32

	PC         uint32
	Halted     bool
	CycleCount uint64

	CallStack []uint32

	InputBuffer  []uint32
	OutputBuffer []uint32

	LogSink []uint32

	// ProcessID is the process-unique 32-bit identifier the `id` opcode
	// pushes. It is derived once, at state creation, from a ksuid so it is
	// unique per VM instance without relying on wall-clock resolution.
	ProcessID uint32
}

// NewState allocates a fresh State sized per cfg, with an empty stack and
// call stack and a zeroed register file and memory, per spec.md §3's stated
// initial values.
func NewState(cfg config.VMConfig, input []uint32) *State {
	s := &State{
		Registers:    make([]uint32, cfg.Registers),
		Memory:       make([]uint32, cfg.MemoryWords),
		InputBuffer:  append([]uint32(nil), input...),
		ProcessID:    processID(),
	}
	return s
}

func processID() uint32 {
	id := ksuid.New()
	b := id.Payload()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (s *State) push(v uint32) {
	s.Stack = append(s.Stack, v)
}

func (s *State) pop() (uint32, bool) {
	n := len(s.Stack)
	if n == 0 {
		return 0, false
	}
	v := s.Stack[n-1]
	s.Stack = s.Stack[:n-1]
	return v, true
}

func (s *State) peek() (uint32, bool) {
	n := len(s.Stack)
	if n == 0 {
		return 0, false
	}
	return s.Stack[n-1], true
}

// Snapshot is an immutable copy of a State's registers and stack, cheap
// enough to take per-instruction for a Trace entry (spec.md §9 "Trace
// memory" calls this out as the expensive part; Executor.Trace makes
// tracing opt-in).
type Snapshot struct {
	Registers []uint32
	Stack     []uint32
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		Registers: append([]uint32(nil), s.Registers...),
		Stack:     append([]uint32(nil), s.Stack...),
	}
}
