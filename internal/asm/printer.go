package asm

import (
	"strings"

	"zkvm/internal/isa"
)

// Disassemble renders a program back into the `mnemonic arg` text form,
// one instruction per line, for `zkvmrun stats` and the step-REPL.
func Disassemble(p *isa.Program) string {
	var b strings.Builder
	for i, instr := range p.Instructions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(instr.String())
	}
	return b.String()
}
