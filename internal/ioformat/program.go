// Package ioformat defines the JSON document shapes spec.md §6 "External
// Interfaces" names: the program file, the execution result, and re-exports
// the packer's manifest shape. Keeping these as their own package, rather
// than hanging json tags directly off internal/isa and internal/vm types,
// lets the wire format evolve independently of the in-memory structures the
// Lowerer and Executor actually operate on — the same separation
// grammar/ast.go draws between its AST and its on-disk source.
package ioformat

import (
	"encoding/json"
	"fmt"

	"zkvm/internal/isa"
)

// InstructionDoc is one instruction's JSON form (spec.md §6: "tagged object
// carrying its operands").
type InstructionDoc struct {
	Op        string  `json:"op"`
	Immediate *uint32 `json:"immediate,omitempty"`
}

// ProgramDoc is the JSON form of a Program file.
type ProgramDoc struct {
	Instructions []InstructionDoc `json:"instructions"`
	Metadata     isa.Metadata     `json:"metadata"`
}

// EncodeProgram renders a Program to its JSON document form.
func EncodeProgram(p *isa.Program) ([]byte, error) {
	doc := ProgramDoc{Metadata: p.Metadata}
	for _, instr := range p.Instructions {
		doc.Instructions = append(doc.Instructions, InstructionDoc{Op: instr.Op, Immediate: instr.Immediate})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeProgram parses a JSON document back into a Program. Round-tripping
// through Encode/DecodeProgram preserves instruction sequence and metadata
// (spec.md §8, testable property 9).
func DecodeProgram(data []byte) (*isa.Program, error) {
	var doc ProgramDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ioformat: decode program: %w", err)
	}
	p := &isa.Program{Metadata: doc.Metadata}
	for _, instr := range doc.Instructions {
		p.Instructions = append(p.Instructions, isa.Instruction{Op: instr.Op, Immediate: instr.Immediate})
	}
	return p, nil
}
