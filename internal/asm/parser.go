// Package asm implements the text parser for the VM's program format
// (spec.md §4.1): `mnemonic arg0 arg1 …` per instruction, `//` line
// comments, built with participle exactly the way grammar/ built Kanso's
// contract parser (stateful lexer + tag-annotated struct grammar).
package asm

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"zkvm/internal/isa"
	"zkvm/internal/token"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace"),
)

// ParseString parses assembly source already in memory. filename is used
// only for error positions.
func ParseString(filename, source string) (*Program, error) {
	program, err := parser.ParseString(filename, source)
	if err != nil {
		reportParseError(source, err)
		return nil, err
	}
	return program, nil
}

// ParseFile reads and parses an assembly program from disk.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ToProgram resolves every instruction line against the opcode table and
// parses its integer arguments into isa.Instruction values, enforcing the
// immediate-arity rules of spec.md §4.1 (push/jumps mandatory, memory
// optional, everything else bare).
func (p *Program) ToProgram() (*isa.Program, error) {
	out := &isa.Program{}
	for _, el := range p.Elements {
		if el.Line == nil {
			continue
		}
		instr, err := resolveInstruction(el.Line)
		if err != nil {
			return nil, err
		}
		out.Instructions = append(out.Instructions, instr)
	}
	return out, nil
}

func resolveInstruction(line *Instruction) (isa.Instruction, error) {
	op, ok := isa.Lookup(line.Mnemonic)
	if !ok {
		return isa.Instruction{}, fmt.Errorf("%s: expected %s, found unknown mnemonic %q", line.Pos, token.Describe(token.MNEMONIC), line.Mnemonic)
	}

	values := make([]uint32, 0, len(line.Args))
	for _, raw := range line.Args {
		v, err := parseImmediate(raw)
		if err != nil {
			return isa.Instruction{}, fmt.Errorf("%s: expected %s for %s, found %q: %w", line.Pos, token.Describe(token.IMMEDIATE), line.Mnemonic, raw, err)
		}
		values = append(values, v)
	}

	switch op.Immediate {
	case isa.MandatoryImmediate:
		if len(values) != 1 {
			return isa.Instruction{}, fmt.Errorf("%s: %s requires exactly one immediate argument, got %d", line.Pos, line.Mnemonic, len(values))
		}
		return isa.Instruction{Op: line.Mnemonic, Immediate: &values[0]}, nil
	case isa.OptionalImmediate:
		switch len(values) {
		case 0:
			return isa.Instruction{Op: line.Mnemonic}, nil
		case 1:
			return isa.Instruction{Op: line.Mnemonic, Immediate: &values[0]}, nil
		default:
			return isa.Instruction{}, fmt.Errorf("%s: %s takes at most one immediate argument, got %d", line.Pos, line.Mnemonic, len(values))
		}
	default:
		if len(values) != 0 {
			return isa.Instruction{}, fmt.Errorf("%s: %s takes no arguments, got %d", line.Pos, line.Mnemonic, len(values))
		}
		return isa.Instruction{Op: line.Mnemonic}, nil
	}
}

func parseImmediate(raw string) (uint32, error) {
	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		n, err = strconv.ParseUint(raw[2:], 16, 32)
	} else {
		n, err = strconv.ParseUint(raw, 10, 32)
	}
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// reportParseError prints a friendly caret-style parse error message,
// mirroring grammar/parser.go's reportParseError.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
