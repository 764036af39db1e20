package isa

import "fmt"

// Instruction is a single decoded program entry: a mnemonic and its
// optional 32-bit immediate (spec.md §4.1 "Immediate encoding"). Memory
// opcodes without an embedded address leave Immediate nil and take the
// address from the stack at run time; push and jumps/calls always carry
// one.
type Instruction struct {
	Op        string
	Immediate *uint32
}

// HasImmediate reports whether this instruction's text form supplied an
// immediate operand.
func (i Instruction) HasImmediate() bool {
	return i.Immediate != nil
}

func (i Instruction) String() string {
	if i.Immediate != nil {
		return fmt.Sprintf("%s %d", i.Op, *i.Immediate)
	}
	return i.Op
}

// Metadata carries the descriptive fields of a program file
// (spec.md §6 "Program file format").
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Program is an ordered sequence of instructions plus metadata.
type Program struct {
	Instructions []Instruction
	Metadata     Metadata
}

// Validate checks the two static invariants spec.md §4.4 names: a program
// must be non-empty, and every jump/call target must be a valid instruction
// index.
func (p *Program) Validate() error {
	if len(p.Instructions) == 0 {
		return fmt.Errorf("program validation: empty program")
	}

	for idx, instr := range p.Instructions {
		op, ok := Lookup(instr.Op)
		if !ok {
			return fmt.Errorf("program validation: instruction %d: unknown opcode %q", idx, instr.Op)
		}
		if !op.ModifiesPC || op.Canonical() == "ret" || op.Canonical() == "halt" {
			continue
		}
		// jmp/jz/jnz/call: target must be strictly within [0, len).
		if instr.Immediate == nil {
			return fmt.Errorf("program validation: instruction %d (%s): missing jump target", idx, instr.Op)
		}
		target := int(*instr.Immediate)
		if target < 0 || target >= len(p.Instructions) {
			return fmt.Errorf("program validation: instruction %d (%s): target %d out of range [0, %d)", idx, instr.Op, target, len(p.Instructions))
		}
	}
	return nil
}
