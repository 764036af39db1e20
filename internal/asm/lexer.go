package asm

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer is the stateful participle lexer for the VM's text program format
// (spec.md §4.1): a mnemonic followed by zero or more integer operands,
// with `//` starting a line comment. Structured the same way
// grammar.KansoLexer is (a single "Root" state, comments and identifiers
// before integers, whitespace elided last).
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0[xX][0-9a-fA-F]+|[0-9]+`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
