package vm

import (
	"time"

	"zkvm/internal/isa"
	"zkvm/internal/vmerrors"
)

// dispatch executes one instruction's semantics against state and returns
// the (inputs, outputs) pair the Validator checks, per spec.md §4.4 and
// §4.5. pc is advanced here too, except for control-flow and halt, which
// manage their own pc per their individual rules.
func (e *Executor) dispatch(op isa.Opcode, instr isa.Instruction, state *State) (inputs, outputs []uint32, err error) {
	switch op.Canonical() {
	case "add":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a + b })
	case "sub":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a - b })
	case "mul":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a * b })
	case "div":
		return e.divOrMod(state, instr, true)
	case "mod":
		return e.divOrMod(state, instr, false)

	case "and":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a & b })
	case "or":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a | b })
	case "xor":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a ^ b })
	case "shl":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a << (b & 0x1F) })
	case "shr":
		return e.binaryArith(state, instr, func(a, b uint32) uint32 { return a >> (b & 0x1F) })
	case "not":
		a, ok := state.pop()
		if !ok {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
		}
		r := ^a
		state.push(r)
		state.PC++
		return []uint32{a}, []uint32{r}, nil

	case "eq":
		return e.comparison(state, instr, func(a, b uint32) bool { return a == b })
	case "neq":
		return e.comparison(state, instr, func(a, b uint32) bool { return a != b })
	case "lt":
		return e.comparison(state, instr, func(a, b uint32) bool { return a < b })
	case "gt":
		return e.comparison(state, instr, func(a, b uint32) bool { return a > b })
	case "lte":
		return e.comparison(state, instr, func(a, b uint32) bool { return a <= b })
	case "gte":
		return e.comparison(state, instr, func(a, b uint32) bool { return a >= b })

	case "load":
		return e.load(state, instr)
	case "store":
		return e.store(state, instr)

	case "push":
		if instr.Immediate == nil {
			return nil, nil, vmerrors.ProgramError("push requires an immediate")
		}
		state.push(*instr.Immediate)
		state.PC++
		return nil, []uint32{*instr.Immediate}, nil
	case "pop":
		v, ok := state.pop()
		if !ok {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
		}
		state.PC++
		return []uint32{v}, nil, nil
	case "dup":
		v, ok := state.peek()
		if !ok {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
		}
		state.push(v)
		state.PC++
		return []uint32{v}, []uint32{v, v}, nil
	case "swap":
		n := len(state.Stack)
		if n < 2 {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 2, n)
		}
		state.Stack[n-1], state.Stack[n-2] = state.Stack[n-2], state.Stack[n-1]
		state.PC++
		return []uint32{state.Stack[n-2], state.Stack[n-1]}, []uint32{state.Stack[n-1], state.Stack[n-2]}, nil

	case "jmp":
		target, err := requireImmediate(instr)
		if err != nil {
			return nil, nil, err
		}
		state.PC = target
		return nil, nil, nil
	case "jz":
		return e.conditionalJump(state, instr, func(v uint32) bool { return v == 0 })
	case "jnz":
		return e.conditionalJump(state, instr, func(v uint32) bool { return v != 0 })
	case "call":
		target, err := requireImmediate(instr)
		if err != nil {
			return nil, nil, err
		}
		state.CallStack = append(state.CallStack, state.PC+1)
		state.PC = target
		return nil, nil, nil
	case "ret":
		n := len(state.CallStack)
		if n == 0 {
			return nil, nil, vmerrors.CallStackUnderflow(state.CycleCount)
		}
		state.PC = state.CallStack[n-1]
		state.CallStack = state.CallStack[:n-1]
		return nil, nil, nil

	case "hash", "verify", "sign":
		state.PC++
		return nil, nil, nil

	case "halt":
		state.Halted = true
		return nil, nil, nil
	case "nop":
		state.PC++
		return nil, nil, nil
	case "debug":
		if v, ok := state.peek(); ok {
			log.Debugf("vm: debug at cycle %d: top=%d", state.CycleCount, v)
		}
		state.PC++
		return nil, nil, nil
	case "assert":
		v, ok := state.pop()
		if !ok {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
		}
		if v == 0 {
			return nil, nil, vmerrors.AssertionFailed(state.CycleCount)
		}
		state.PC++
		return []uint32{v}, nil, nil
	case "log":
		v, ok := state.pop()
		if !ok {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
		}
		state.LogSink = append(state.LogSink, v)
		state.PC++
		return []uint32{v}, nil, nil

	case "read":
		var v uint32
		if len(state.InputBuffer) > 0 {
			v = state.InputBuffer[0]
			state.InputBuffer = state.InputBuffer[1:]
		}
		state.push(v)
		state.PC++
		return nil, []uint32{v}, nil
	case "write":
		v, ok := state.pop()
		if !ok {
			return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
		}
		state.OutputBuffer = append(state.OutputBuffer, v)
		state.PC++
		return []uint32{v}, nil, nil

	case "time":
		v := uint32(time.Now().Unix())
		state.push(v)
		state.PC++
		return nil, []uint32{v}, nil
	case "rand":
		v := pseudoRandom(state.CycleCount)
		state.push(v)
		state.PC++
		return nil, []uint32{v}, nil
	case "id":
		state.push(state.ProcessID)
		state.PC++
		return nil, []uint32{state.ProcessID}, nil
	}

	return nil, nil, vmerrors.InvalidInstruction(instr.Op, state.CycleCount)
}

func requireImmediate(instr isa.Instruction) (uint32, error) {
	if instr.Immediate == nil {
		return 0, vmerrors.ProgramError(instr.Op + " requires a target immediate")
	}
	return *instr.Immediate, nil
}

func (e *Executor) binaryArith(state *State, instr isa.Instruction, f func(a, b uint32) uint32) ([]uint32, []uint32, error) {
	n := len(state.Stack)
	if n < 2 {
		return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 2, n)
	}
	b, _ := state.pop()
	a, _ := state.pop()
	r := f(a, b)
	state.push(r)
	state.PC++
	return []uint32{a, b}, []uint32{r}, nil
}

func (e *Executor) divOrMod(state *State, instr isa.Instruction, div bool) ([]uint32, []uint32, error) {
	n := len(state.Stack)
	if n < 2 {
		return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 2, n)
	}
	b, _ := state.pop()
	a, _ := state.pop()
	if b == 0 {
		return nil, nil, vmerrors.DivisionByZero(instr.Op, state.CycleCount)
	}
	var r uint32
	if div {
		r = a / b
	} else {
		r = a % b
	}
	state.push(r)
	state.PC++
	return []uint32{a, b}, []uint32{r}, nil
}

func (e *Executor) comparison(state *State, instr isa.Instruction, rel func(a, b uint32) bool) ([]uint32, []uint32, error) {
	n := len(state.Stack)
	if n < 2 {
		return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 2, n)
	}
	b, _ := state.pop()
	a, _ := state.pop()
	var r uint32
	if rel(a, b) {
		r = 1
	}
	state.push(r)
	state.PC++
	return []uint32{a, b}, []uint32{r}, nil
}

func (e *Executor) conditionalJump(state *State, instr isa.Instruction, branch func(v uint32) bool) ([]uint32, []uint32, error) {
	v, ok := state.pop()
	if !ok {
		return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
	}
	target, err := requireImmediate(instr)
	if err != nil {
		return nil, nil, err
	}
	if branch(v) {
		state.PC = target
	} else {
		state.PC++
	}
	return []uint32{v}, nil, nil
}

func (e *Executor) load(state *State, instr isa.Instruction) ([]uint32, []uint32, error) {
	addr, err := e.resolveAddress(state, instr)
	if err != nil {
		return nil, nil, err
	}
	if addr >= uint32(len(state.Memory)) {
		return nil, nil, vmerrors.InvalidMemoryAccess(instr.Op, state.CycleCount, addr, uint32(len(state.Memory)))
	}
	v := state.Memory[addr]
	state.push(v)
	state.PC++
	return []uint32{addr}, []uint32{v}, nil
}

func (e *Executor) store(state *State, instr isa.Instruction) ([]uint32, []uint32, error) {
	addr, err := e.resolveAddress(state, instr)
	if err != nil {
		return nil, nil, err
	}
	v, ok := state.pop()
	if !ok {
		return nil, nil, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
	}
	if addr >= uint32(len(state.Memory)) {
		return nil, nil, vmerrors.InvalidMemoryAccess(instr.Op, state.CycleCount, addr, uint32(len(state.Memory)))
	}
	state.Memory[addr] = v
	state.PC++
	return []uint32{addr, v}, nil, nil
}

// resolveAddress returns the instruction's immediate address if present, or
// pops it from the stack, per spec.md §4.4 ("with immediate, the address is
// the immediate; without, it is popped from the stack").
func (e *Executor) resolveAddress(state *State, instr isa.Instruction) (uint32, error) {
	if instr.Immediate != nil {
		return *instr.Immediate, nil
	}
	addr, ok := state.pop()
	if !ok {
		return 0, vmerrors.StackUnderflow(instr.Op, state.CycleCount, 1, 0)
	}
	return addr, nil
}

// pseudoRandom derives a 32-bit value from the cycle counter mixed with the
// wall clock's nanoseconds, so it differs between runs, for the `rand` opcode
// (spec.md §4.4 marks it non-deterministic by nature; it is explicitly
// excluded from the Validator's checked set).
func pseudoRandom(seed uint64) uint32 {
	x := seed ^ uint64(time.Now().UnixNano())
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return uint32(x)
}
