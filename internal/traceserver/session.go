// Package traceserver implements a debug server: an external debugger
// client connects over a websocket and drives one VM session step-by-step
// or to a breakpoint. Each reply carries a StepResult snapshot (pc, halted
// flag, stack, cycle, fault message); full Trace Entries are not sent, and
// the server sends no unsolicited notifications. It is a supplemental feature reusing the JSON-RPC server
// wiring idea from cmd/kanso-lsp/main.go, but drops glsp's stdio
// LSP-protocol transport (no textDocument/completion concept applies to a
// zkVM) for a direct jsonrpc2-over-websocket transport — grounded on
// github.com/sourcegraph/jsonrpc2's own websocket sub-package, which wraps
// a gorilla/websocket connection as a jsonrpc2.ObjectStream.
package traceserver

import (
	"context"
	"sync"

	"github.com/segmentio/ksuid"

	"zkvm/internal/config"
	"zkvm/internal/isa"
	"zkvm/internal/validator"
	"zkvm/internal/vm"
)

// Session is one debugger's view of one running program: an Executor bound
// to one State, stepped one instruction at a time under RPC control.
type Session struct {
	ID      string
	mu      sync.Mutex
	program *isa.Program
	state   *vm.State
	exec    *vm.Executor

	breakpoints map[uint32]bool
}

// NewSession creates a session with a fresh ksuid-derived ID, tracing
// always on (a debugger needs every step's before/after snapshot).
func NewSession(cfg config.VMConfig, program *isa.Program, input []uint32) *Session {
	exec := vm.NewExecutor(cfg, validator.New())
	exec.Trace = true
	return &Session{
		ID:          ksuid.New().String(),
		program:     program,
		state:       vm.NewState(cfg, input),
		exec:        exec,
		breakpoints: map[uint32]bool{},
	}
}

// StepResult is what Step/Continue return to the RPC caller.
type StepResult struct {
	PC      uint32 `json:"pc"`
	Halted  bool   `json:"halted"`
	Stack   []uint32 `json:"stack"`
	Cycle   uint64 `json:"cycle"`
	AtBreak bool   `json:"at_breakpoint"`
	Fault   string `json:"fault,omitempty"`
}

// Step executes exactly one instruction against the session's live state.
func (s *Session) Step(ctx context.Context) (StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Halted || int(s.state.PC) >= len(s.program.Instructions) {
		return s.snapshot(false), nil
	}

	err := s.exec.StepOnce(s.program, s.state)

	result := s.snapshot(s.breakpoints[s.state.PC])
	if err != nil {
		result.Fault = err.Error()
	}
	return result, nil
}

// Continue steps repeatedly until halt, fault, or a breakpoint PC is
// reached. It always takes at least one step first, so resuming from a
// position already sitting on a breakpoint makes progress instead of
// re-triggering the same breakpoint immediately.
func (s *Session) Continue(ctx context.Context) (StepResult, error) {
	result, err := s.Step(ctx)
	if err != nil {
		return result, err
	}
	for result.Fault == "" && !result.Halted && !result.AtBreak {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		result, err = s.Step(ctx)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// SetBreakpoint toggles a breakpoint at the given program counter.
func (s *Session) SetBreakpoint(pc uint32, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.breakpoints[pc] = true
	} else {
		delete(s.breakpoints, pc)
	}
}

// State returns a snapshot of the session's current machine state.
func (s *Session) State() StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.breakpoints[s.state.PC])
}

func (s *Session) snapshot(atBreak bool) StepResult {
	return StepResult{
		PC:      s.state.PC,
		Halted:  s.state.Halted,
		Stack:   append([]uint32(nil), s.state.Stack...),
		Cycle:   s.state.CycleCount,
		AtBreak: atBreak,
	}
}
