// Package lower implements the Constraint Lowerer (spec.md §4.2): it turns
// one high-level Constraint into an ordered list of compiled constraints —
// flat "lhs = expr" strings over previously-introduced bit names and the
// Boolean operators &, |, + (xor). The central algorithm is ripple-carry
// addition; subtraction reuses it via two's-complement, exactly as spec.md
// §4.2 requires ("lowerer MUST preserve this equivalence so the
// validator's wrapping_sub matches"). Multiplication, division, modulo,
// memory, lookup, folding, and control relations are extension points that
// emit a single self-consistent placeholder equality, matching spec.md
// §4.2's "MAY emit placeholder equalities provided the Validator's
// semantic table treats them identically" — internal/semtable marks all of
// these Checked: false so the Validator agrees.
//
// Structured as a Builder-style visitor with a fresh-name counter, the same
// shape as internal/ir/builder.go's Builder walking an AST and minting
// fresh SSA values — here walking a Constraint and minting fresh compiled-
// constraint bit names instead.
package lower

import (
	"fmt"

	"zkvm/internal/constraint"
	kerrors "zkvm/internal/errors"
)

// Lowerer holds no persistent state across constraints today (each
// Constraint's fresh names are scoped to its own output variable name), but
// is a struct — rather than free functions — so a future extension point
// (e.g. a global fresh-name counter shared across a whole module) has
// somewhere to live without changing every call site.
type Lowerer struct{}

func New() *Lowerer {
	return &Lowerer{}
}

// Lower returns the ordered compiled constraints for c, or a static error if
// c violates the arity contract (spec.md §4.2).
func (l *Lowerer) Lower(c constraint.Constraint) ([]string, error) {
	switch c.Kind {
	case constraint.KindArithmetic:
		return l.lowerArithmetic(c)
	case constraint.KindBoolean:
		return l.lowerBoolean(c)
	default:
		return placeholder(c), nil
	}
}

func (l *Lowerer) lowerArithmetic(c constraint.Constraint) ([]string, error) {
	if len(c.Vars) != 3 {
		return nil, kerrors.InvalidArity(len(c.Vars), fmt.Sprintf("constraint metadata op=%s", c.Metadata["op"]))
	}
	a, b, out := c.Vars[0], c.Vars[1], c.Vars[2]

	switch c.Metadata["op"] {
	case "add":
		return rippleCarryAdd(a, b, out, false), nil
	case "sub":
		return rippleCarryAdd(a, b, out, true), nil
	default:
		// mul, div, mod, and any future arithmetic extension: placeholder
		// equality. internal/semtable marks all three Checked: false to match.
		return placeholder(c), nil
	}
}

func (l *Lowerer) lowerBoolean(c constraint.Constraint) ([]string, error) {
	op := c.Metadata["op"]
	if op == "not" {
		if len(c.Vars) != 2 {
			return nil, kerrors.InvalidArity(len(c.Vars), "constraint metadata op=not")
		}
		a, out := c.Vars[0], c.Vars[1]
		lines := make([]string, 0, a.Width)
		for i := 0; i < a.Width; i++ {
			lines = append(lines, fmt.Sprintf("%s = 1+%s", out.BitName(i), a.BitName(i)))
		}
		return lines, nil
	}

	if len(c.Vars) != 3 {
		return nil, kerrors.InvalidArity(len(c.Vars), fmt.Sprintf("constraint metadata op=%s", op))
	}
	a, b, out := c.Vars[0], c.Vars[1], c.Vars[2]
	lines := make([]string, 0, a.Width)
	for i := 0; i < a.Width; i++ {
		ai, bi := a.BitName(i), b.BitName(i)
		var expr string
		switch op {
		case "and":
			expr = fmt.Sprintf("%s&%s", ai, bi)
		case "or":
			expr = fmt.Sprintf("%s|%s", ai, bi)
		case "xor":
			expr = fmt.Sprintf("%s+%s", ai, bi)
		default:
			return nil, fmt.Errorf("lower: unknown boolean op %q", op)
		}
		lines = append(lines, fmt.Sprintf("%s = %s", out.BitName(i), expr))
	}
	return lines, nil
}

// rippleCarryAdd lowers c = a + b (subtract=false) or c = a - b
// (subtract=true, via complement-then-add-one) bit by bit, per spec.md §4.2:
//
//	s0 = a0 + b0,   c0 = a0 & b0
//	si = ai+bi+c(i-1),  ci = (ai&bi) | ((ai+bi)&c(i-1))
//	out_i = s_i
//
// Subtraction reuses this exact chain against the bitwise complement of b
// with a forced carry-in of 1 at bit 0 (two's complement), so the Validator
// can check sub with `wrapping_sub` while the Lowerer never special-cases it.
func rippleCarryAdd(a, b, out constraint.Variable, subtract bool) []string {
	w := a.Width
	var lines []string

	bBits := make([]string, w)
	if subtract {
		for i := 0; i < w; i++ {
			notName := fmt.Sprintf("%s_notb%d", out.Name, i)
			lines = append(lines, fmt.Sprintf("%s = 1+%s", notName, b.BitName(i)))
			bBits[i] = notName
		}
	} else {
		for i := 0; i < w; i++ {
			bBits[i] = b.BitName(i)
		}
	}

	sumNames := make([]string, w)
	carryNames := make([]string, w)
	for i := 0; i < w; i++ {
		ai := a.BitName(i)
		bi := bBits[i]
		sumName := fmt.Sprintf("%s_s%d", out.Name, i)
		carryName := fmt.Sprintf("%s_c%d", out.Name, i)

		if i == 0 {
			if subtract {
				lines = append(lines, fmt.Sprintf("%s = %s+%s+1", sumName, ai, bi))
				lines = append(lines, fmt.Sprintf("%s = %s|%s", carryName, ai, bi))
			} else {
				lines = append(lines, fmt.Sprintf("%s = %s+%s", sumName, ai, bi))
				lines = append(lines, fmt.Sprintf("%s = %s&%s", carryName, ai, bi))
			}
		} else {
			prev := carryNames[i-1]
			lines = append(lines, fmt.Sprintf("%s = %s+%s+%s", sumName, ai, bi, prev))
			lines = append(lines, fmt.Sprintf("%s = (%s&%s)|((%s+%s)&%s)", carryName, ai, bi, ai, bi, prev))
		}
		sumNames[i] = sumName
		carryNames[i] = carryName
	}

	for i := 0; i < w; i++ {
		lines = append(lines, fmt.Sprintf("%s = %s", out.BitName(i), sumNames[i]))
	}
	return lines
}

// placeholder emits the single self-consistent equality extension-point
// relations use (mul, memory, lookup, folding, control — spec.md §4.2).
// It defines the last variable's bit 0 in terms of the first variable's
// bit 0 (or, with only one variable, a bare tautology), so it is always a
// well-formed, satisfiable compiled constraint regardless of what a later
// revision of the relation actually computes.
func placeholder(c constraint.Constraint) []string {
	if len(c.Vars) == 0 {
		return nil
	}
	out := c.Vars[len(c.Vars)-1]
	if len(c.Vars) == 1 {
		return []string{fmt.Sprintf("%s = 1", out.BitName(0))}
	}
	in := c.Vars[0]
	return []string{fmt.Sprintf("%s = %s&%s", out.BitName(0), in.BitName(0), in.BitName(0))}
}
