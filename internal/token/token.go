// Package token names the lexical categories of the VM assembly format
// (spec.md §4.1: `mnemonic arg0 arg1 …`, `//` line comments) for use in
// diagnostic messages. The participle lexer in internal/asm does the actual
// tokenizing; this package exists only to give friendly names to its token
// kinds when internal/asm formats a parse error, the way a hand-rolled
// lexer's TokenType constants would.
package token

type Kind string

const (
	ILLEGAL Kind = "ILLEGAL"
	EOF     Kind = "EOF"

	MNEMONIC  Kind = "MNEMONIC"
	IMMEDIATE Kind = "IMMEDIATE"
	COMMENT   Kind = "COMMENT"
)

// Describe returns a short human-readable description of a lexical kind,
// used to phrase "expected X, found Y" diagnostics.
func Describe(k Kind) string {
	switch k {
	case MNEMONIC:
		return "an instruction mnemonic"
	case IMMEDIATE:
		return "a 32-bit immediate"
	case COMMENT:
		return "a comment"
	case EOF:
		return "end of file"
	default:
		return "an unrecognized token"
	}
}
