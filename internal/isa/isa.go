// Package isa defines the zkVM's closed 45-opcode instruction set
// (spec.md §4.1): mnemonic, category, arity, and the metadata flags the
// Executor and Lowerer both need (modifies_pc, accesses_memory,
// deterministic). The table is data, not code, so the Lowerer and the
// Validator can be built against the same closed set without drifting.
package isa

// Category groups the 45 opcodes into the ten families spec.md §4.1 names.
type Category string

const (
	Arithmetic Category = "arithmetic"
	Bitwise    Category = "bitwise"
	Comparison Category = "comparison"
	Memory     Category = "memory"
	Stack      Category = "stack"
	Control    Category = "control"
	Crypto     Category = "crypto"
	System     Category = "system"
	IO         Category = "io"
	Utility    Category = "utility"
)

// Immediate describes how an opcode's text-form immediate is encoded
// (spec.md §4.1 "Immediate encoding").
type Immediate int

const (
	// NoImmediate: the opcode takes no embedded immediate.
	NoImmediate Immediate = iota
	// OptionalImmediate: memory opcodes carry an optional address; when
	// absent, the address comes off the stack.
	OptionalImmediate
	// MandatoryImmediate: push (value) and jumps/calls (target) always
	// carry their immediate in the text form.
	MandatoryImmediate
)

// VariableArity is the StackIn/StackOut sentinel for memory opcodes, whose
// real arity depends on whether the immediate is present.
const VariableArity = -1

// Opcode is one entry of the closed instruction set.
type Opcode struct {
	Mnemonic       string
	Category       Category
	StackIn        int // VariableArity for memory ops; resolved per-instruction by the VM
	StackOut       int
	ModifiesPC     bool
	AccessesMemory bool
	Deterministic  bool
	Immediate      Immediate
	AliasOf        string // canonical mnemonic this one aliases, or "" if canonical itself
}

// Canonical returns the mnemonic this opcode's semantics are defined by:
// itself, unless it is an alias (mload/mstore/send/recv).
func (o Opcode) Canonical() string {
	if o.AliasOf != "" {
		return o.AliasOf
	}
	return o.Mnemonic
}

// Table is the full closed set of 45 opcodes, keyed by mnemonic.
var Table = buildTable()

func buildTable() map[string]Opcode {
	t := make(map[string]Opcode, 45)
	add := func(ops ...Opcode) {
		for _, o := range ops {
			t[o.Mnemonic] = o
		}
	}

	// Arithmetic: pop b, pop a, push op(a,b); wrapping 32-bit.
	for _, m := range []string{"add", "sub", "mul", "div", "mod"} {
		add(Opcode{Mnemonic: m, Category: Arithmetic, StackIn: 2, StackOut: 1, Deterministic: true})
	}

	// Bitwise: binary ops pop two push one; not pops one push one.
	for _, m := range []string{"and", "or", "xor", "shl", "shr"} {
		add(Opcode{Mnemonic: m, Category: Bitwise, StackIn: 2, StackOut: 1, Deterministic: true})
	}
	add(Opcode{Mnemonic: "not", Category: Bitwise, StackIn: 1, StackOut: 1, Deterministic: true})

	// Comparison: pop b, pop a, push 1/0.
	for _, m := range []string{"eq", "neq", "lt", "gt", "lte", "gte"} {
		add(Opcode{Mnemonic: m, Category: Comparison, StackIn: 2, StackOut: 1, Deterministic: true})
	}

	// Memory: optional immediate address; store/mstore also pop the value.
	add(
		Opcode{Mnemonic: "load", Category: Memory, StackIn: VariableArity, StackOut: 1, AccessesMemory: true, Deterministic: true, Immediate: OptionalImmediate},
		Opcode{Mnemonic: "store", Category: Memory, StackIn: VariableArity, StackOut: 0, AccessesMemory: true, Deterministic: true, Immediate: OptionalImmediate},
		Opcode{Mnemonic: "mload", Category: Memory, StackIn: VariableArity, StackOut: 1, AccessesMemory: true, Deterministic: true, Immediate: OptionalImmediate, AliasOf: "load"},
		Opcode{Mnemonic: "mstore", Category: Memory, StackIn: VariableArity, StackOut: 0, AccessesMemory: true, Deterministic: true, Immediate: OptionalImmediate, AliasOf: "store"},
	)

	// Stack: push carries a mandatory immediate; dup/swap operate on the top.
	add(
		Opcode{Mnemonic: "push", Category: Stack, StackIn: 0, StackOut: 1, Deterministic: true, Immediate: MandatoryImmediate},
		Opcode{Mnemonic: "pop", Category: Stack, StackIn: 1, StackOut: 0, Deterministic: true},
		Opcode{Mnemonic: "dup", Category: Stack, StackIn: 1, StackOut: 2, Deterministic: true},
		Opcode{Mnemonic: "swap", Category: Stack, StackIn: 2, StackOut: 2, Deterministic: true},
	)

	// Control flow: jumps/calls carry a mandatory target; ret pops the call stack.
	add(
		Opcode{Mnemonic: "jmp", Category: Control, StackIn: 0, StackOut: 0, ModifiesPC: true, Deterministic: true, Immediate: MandatoryImmediate},
		Opcode{Mnemonic: "jz", Category: Control, StackIn: 1, StackOut: 0, ModifiesPC: true, Deterministic: true, Immediate: MandatoryImmediate},
		Opcode{Mnemonic: "jnz", Category: Control, StackIn: 1, StackOut: 0, ModifiesPC: true, Deterministic: true, Immediate: MandatoryImmediate},
		Opcode{Mnemonic: "call", Category: Control, StackIn: 0, StackOut: 0, ModifiesPC: true, Deterministic: true, Immediate: MandatoryImmediate},
		Opcode{Mnemonic: "ret", Category: Control, StackIn: 0, StackOut: 0, ModifiesPC: true, Deterministic: true},
	)

	// Cryptographic: opaque placeholders, state unchanged except pc += 1.
	for _, m := range []string{"hash", "verify", "sign"} {
		add(Opcode{Mnemonic: m, Category: Crypto, StackIn: 0, StackOut: 0, Deterministic: true})
	}

	// System: halt does not advance pc; the rest do.
	add(
		Opcode{Mnemonic: "halt", Category: System, StackIn: 0, StackOut: 0, ModifiesPC: true, Deterministic: true},
		Opcode{Mnemonic: "nop", Category: System, StackIn: 0, StackOut: 0, Deterministic: true},
		Opcode{Mnemonic: "debug", Category: System, StackIn: 0, StackOut: 0, Deterministic: true},
		Opcode{Mnemonic: "assert", Category: System, StackIn: 1, StackOut: 0, Deterministic: true},
		Opcode{Mnemonic: "log", Category: System, StackIn: 1, StackOut: 0, Deterministic: true},
	)

	// I/O: send/recv alias write/read.
	add(
		Opcode{Mnemonic: "read", Category: IO, StackIn: 0, StackOut: 1, Deterministic: true},
		Opcode{Mnemonic: "write", Category: IO, StackIn: 1, StackOut: 0, Deterministic: true},
		Opcode{Mnemonic: "send", Category: IO, StackIn: 1, StackOut: 0, Deterministic: true, AliasOf: "write"},
		Opcode{Mnemonic: "recv", Category: IO, StackIn: 0, StackOut: 1, Deterministic: false, AliasOf: "read"},
	)

	// Utility: non-deterministic by nature.
	add(
		Opcode{Mnemonic: "time", Category: Utility, StackIn: 0, StackOut: 1, Deterministic: false},
		Opcode{Mnemonic: "rand", Category: Utility, StackIn: 0, StackOut: 1, Deterministic: false},
		Opcode{Mnemonic: "id", Category: Utility, StackIn: 0, StackOut: 1, Deterministic: false},
	)

	return t
}

// Lookup resolves a mnemonic to its Opcode, reporting whether it is in the
// closed set.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := Table[mnemonic]
	return op, ok
}

// Mnemonics returns the 45 mnemonics in a stable, deterministic order
// (grouped by category, matching the order they were added in buildTable).
func Mnemonics() []string {
	order := []string{
		"add", "sub", "mul", "div", "mod",
		"and", "or", "xor", "not", "shl", "shr",
		"eq", "neq", "lt", "gt", "lte", "gte",
		"load", "store", "mload", "mstore",
		"push", "pop", "dup", "swap",
		"jmp", "jz", "jnz", "call", "ret",
		"hash", "verify", "sign",
		"halt", "nop", "debug", "assert", "log",
		"read", "write", "send", "recv",
		"time", "rand", "id",
	}
	return order
}
