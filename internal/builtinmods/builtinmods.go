// Package builtinmods provides the compiler CLI's `generate {lookups|isa|
// memory|folding}` subcommands (spec.md §6): four canned constraint.Module
// builders covering the module kinds a full ISA needs beyond plain
// arithmetic/boolean constraints, plus a self-verification pass ported
// from original_source/compiler_rust/src/verified_generator.rs's
// "correct-by-construction" generator idea. Grounded on
// internal/stdlib/modules.go's table-of-builtins idiom (a small set of named
// constructor functions returning a value the rest of the pipeline
// consumes uniformly), generalized from stdlib Function/TypeRef entries to
// constraint.Module entries.
package builtinmods

import (
	"fmt"

	"zkvm/internal/constraint"
	"zkvm/internal/lower"
)

// ISA returns a module covering every checked opcode relation (add/sub,
// and/or/xor/not) plus mul/div/mod, the three placeholder-lowered
// arithmetic extension points: the minimal module a compiler needs to
// demonstrate both that every checked relation lowers and packs cleanly,
// and that the placeholder path for the unchecked ones still produces a
// fresh-and-monotonic constraint. Each relation gets its own a/b/out
// variable trio — sharing names across constraints would make the Lowerer
// mint the same fresh bit names twice (rippleCarryAdd's scratch names are
// keyed off the output variable's name), violating the fresh-and-monotonic
// naming invariant spec.md §3 requires.
func ISA(width int) constraint.Module {
	arithmetic := map[string]bool{"add": true, "sub": true, "mul": true, "div": true, "mod": true}
	ops := []string{"add", "sub", "mul", "div", "mod", "and", "or", "xor"}
	var variables []constraint.Variable
	var constraints []constraint.Constraint
	for _, opName := range ops {
		a := constraint.Variable{Name: opName + "_a", Width: width, Input: true}
		b := constraint.Variable{Name: opName + "_b", Width: width, Input: true}
		out := constraint.Variable{Name: opName + "_out", Width: width, Output: true}
		variables = append(variables, a, b, out)
		kind := constraint.KindBoolean
		if arithmetic[opName] {
			kind = constraint.KindArithmetic
		}
		constraints = append(constraints, constraint.Constraint{
			Kind:     kind,
			Vars:     []constraint.Variable{a, b, out},
			Metadata: map[string]string{"op": opName},
		})
	}
	// not is unary: an a/out pair with no b.
	notA := constraint.Variable{Name: "not_a", Width: width, Input: true}
	notOut := constraint.Variable{Name: "not_out", Width: width, Output: true}
	variables = append(variables, notA, notOut)
	constraints = append(constraints, constraint.Constraint{
		Kind:     constraint.KindBoolean,
		Vars:     []constraint.Variable{notA, notOut},
		Metadata: map[string]string{"op": "not"},
	})
	return constraint.Module{Name: "builtin_isa", Variables: variables, Constraints: constraints}
}

// Memory returns a module modeling one bounds-checked load/store round
// trip as a boolean-kind placeholder constraint — memory's relation is one
// of spec.md §4.5's unchecked opcodes, so its lowering is the placeholder
// form (see internal/lower), not an algebraic one.
func Memory(width int) constraint.Module {
	return constraint.Module{
		Name: "builtin_memory",
		Variables: []constraint.Variable{
			{Name: "addr", Width: width, Input: true},
			{Name: "val", Width: width, Input: true},
			{Name: "out", Width: width, Output: true},
		},
		Constraints: []constraint.Constraint{
			{
				Kind: constraint.KindMemory,
				Vars: []constraint.Variable{
					{Name: "addr", Width: width}, {Name: "val", Width: width}, {Name: "out", Width: width},
				},
				Metadata: map[string]string{"op": "store_load_roundtrip"},
			},
		},
	}
}

// Folding returns a module with one folding-kind constraint, an extension
// point spec.md §3 names but doesn't define further.
func Folding(width int) constraint.Module {
	return constraint.Module{
		Name: "builtin_folding",
		Variables: []constraint.Variable{
			{Name: "acc", Width: width, Input: true},
			{Name: "step", Width: width, Input: true},
			{Name: "next", Width: width, Output: true},
		},
		Constraints: []constraint.Constraint{
			{
				Kind: constraint.KindFolding,
				Vars: []constraint.Variable{
					{Name: "acc", Width: width}, {Name: "step", Width: width}, {Name: "next", Width: width},
				},
			},
		},
	}
}

// Lookups returns a module with one lookup-kind constraint, modeling a
// membership check against a fixed table (e.g. validating an opcode byte
// belongs to the closed 45-mnemonic set).
func Lookups(width int) constraint.Module {
	return constraint.Module{
		Name: "builtin_lookups",
		Variables: []constraint.Variable{
			{Name: "x", Width: width, Input: true},
			{Name: "member", Width: 1, Output: true},
		},
		Constraints: []constraint.Constraint{
			{
				Kind: constraint.KindLookup,
				Vars: []constraint.Variable{
					{Name: "x", Width: width}, {Name: "member", Width: 1},
				},
			},
		},
	}
}

// Generators maps the CLI's `generate` subcommand argument to its builder.
var Generators = map[string]func(width int) constraint.Module{
	"isa":     ISA,
	"memory":  Memory,
	"folding": Folding,
	"lookups": Lookups,
}

// VerifySelf lowers every constraint in m and checks the properties
// verified_generator.rs's VerifiedAdder asserts by construction: every
// compiled constraint's left-hand side is a fresh name (never redefined),
// and every right-hand-side name it references was already introduced
// earlier in the block — i.e. the lowering is fresh-and-monotonic, per
// spec.md §3's constraint identifier ordering invariant.
func VerifySelf(m constraint.Module) error {
	if err := m.Validate(); err != nil {
		return err
	}

	l := lower.New()
	defined := map[string]bool{}
	for _, v := range m.Variables {
		if !v.Input {
			continue
		}
		for i := 0; i < v.Width; i++ {
			defined[v.BitName(i)] = true
		}
	}
	for _, c := range m.Constraints {
		lines, err := l.Lower(c)
		if err != nil {
			return err
		}
		for _, line := range lines {
			lhs, rhs, err := splitEquality(line)
			if err != nil {
				return err
			}
			if defined[lhs] {
				return fmt.Errorf("builtinmods: %s: %q redefined, violates fresh-name discipline", m.Name, lhs)
			}
			for _, name := range referencedNames(rhs) {
				if name != lhs && !defined[name] {
					return fmt.Errorf("builtinmods: %s: %q used before definition in %q", m.Name, name, line)
				}
			}
			defined[lhs] = true
		}
	}
	return nil
}
