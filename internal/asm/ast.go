package asm

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is the top-level parse tree: a flat sequence of comments and
// instruction lines, in the order they appear in the source. Structured
// like grammar.Program (a slice of tagged SourceElements) generalized from
// "comment | module" to "comment | instruction line".
type Program struct {
	Pos      lexer.Position
	Elements []*Element `@@*`
}

// Element is one top-level item: a full-line comment, or an instruction.
type Element struct {
	Pos     lexer.Position
	Comment *Comment    `  @@`
	Line    *Instruction `| @@`
}

type Comment struct {
	Pos  lexer.Position
	Text string `@Comment`
}

// Instruction is one `mnemonic arg0 arg1 …` line. Args are raw integer
// literals (decimal or 0x-hex); Program.ToProgram resolves the mnemonic
// against internal/isa's opcode table and validates arity once the whole
// program has been parsed.
type Instruction struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Tokens  []lexer.Token
	Mnemonic string   `@Ident`
	Args     []string `@Integer*`
}
