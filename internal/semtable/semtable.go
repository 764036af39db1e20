// Package semtable is the single source of truth for what each opcode's
// constraint relation means (spec.md §9 "Semantic table as single source
// of truth"). internal/validator consults it to know which algebraic check
// to run against executed (inputs, outputs). internal/lower does not read
// this table: it picks its lowering routine from the constraint's "op"
// metadata, and the Checked flags here mark which of those routines emit a
// real relation (add/sub, and/or/xor/not) rather than a placeholder.
package semtable

import "zkvm/internal/isa"

// Relation names the algebraic family a constrained opcode belongs to.
// Opcodes that share a Relation share both their lowering strategy and
// their runtime check.
type Relation string

const (
	RelAdd       Relation = "add"       // c = a + b mod 2^w
	RelSub       Relation = "sub"       // c = a - b mod 2^w, via add-of-complement
	RelMul       Relation = "mul"       // extension point, placeholder lowering only
	RelDiv       Relation = "div"       // extension point, placeholder lowering only
	RelMod       Relation = "mod"       // extension point, shares div's placeholder status
	RelAnd       Relation = "and"
	RelOr        Relation = "or"
	RelXor       Relation = "xor"
	RelNot       Relation = "not"
	RelUnchecked Relation = "unchecked" // memory/control/crypto/system/io/utility: vacuously true
)

// Entry is one opcode's row in the shared table.
type Entry struct {
	Opcode   string
	Relation Relation
	// Checked is true for exactly the opcodes the Lowerer actually emits
	// real algebraic semantics for today (add/sub, and/or/xor/not); every
	// other opcode — including mul/div/mod, which still fall through to
	// internal/lower's placeholder equality — returns vacuously true.
	Checked bool
}

// Table maps a canonical mnemonic (isa.Opcode.Canonical()) to its Entry.
var Table = buildTable()

func buildTable() map[string]Entry {
	t := make(map[string]Entry, len(isa.Table))
	set := func(relation Relation, checked bool, mnemonics ...string) {
		for _, m := range mnemonics {
			t[m] = Entry{Opcode: m, Relation: relation, Checked: checked}
		}
	}

	set(RelAdd, true, "add")
	set(RelSub, true, "sub")
	set(RelMul, false, "mul") // internal/lower has no real multiply lowering yet; placeholder only
	set(RelDiv, false, "div") // same: placeholder, not a real division lowering
	set(RelMod, false, "mod") // shares div's placeholder status
	set(RelAnd, true, "and")
	set(RelOr, true, "or")
	set(RelXor, true, "xor")
	set(RelNot, true, "not")

	for mnemonic, op := range isa.Table {
		if _, exists := t[mnemonic]; exists {
			continue
		}
		_ = op
		t[mnemonic] = Entry{Opcode: mnemonic, Relation: RelUnchecked, Checked: false}
	}
	return t
}

// Lookup resolves a mnemonic (alias or canonical) to its shared-table entry.
func Lookup(mnemonic string) (Entry, bool) {
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return Entry{}, false
	}
	e, ok := t(op.Canonical())
	return e, ok
}

func t(canonical string) (Entry, bool) {
	e, ok := Table[canonical]
	return e, ok
}
