// Package constraint defines the compiler's data model (spec.md §3):
// Variable, Constraint, and Module, plus the static checks that make them
// safe to lower — name collisions between a variable and another's bit
// suffixes, and arity of arithmetic relations. The node-with-Position shape
// follows internal/ast/contract.go's pattern; the registry-with-validation-
// errors idiom follows internal/types/imports.go.
package constraint

import (
	"fmt"
	"regexp"

	kerrors "zkvm/internal/errors"
)

// Kind is one of the six constraint kinds spec.md §3 names.
type Kind string

const (
	KindArithmetic Kind = "arithmetic"
	KindBoolean    Kind = "boolean"
	KindMemory     Kind = "memory"
	KindControl    Kind = "control"
	KindFolding    Kind = "folding"
	KindLookup     Kind = "lookup"
)

var validKinds = map[Kind]bool{
	KindArithmetic: true,
	KindBoolean:    true,
	KindMemory:     true,
	KindControl:    true,
	KindFolding:    true,
	KindLookup:     true,
}

// Variable is a named bit-vector of declared width. Names must start with a
// letter followed by letters, digits, or underscores; Validate does not
// check the width.
type Variable struct {
	Name   string
	Width  int
	Input  bool
	Output bool
}

// BitName returns the name of bit i of this variable (LSB first, i=0 is the
// least significant bit), e.g. "a" at bit 2 becomes "a2".
func (v Variable) BitName(i int) string {
	return fmt.Sprintf("%s%d", v.Name, i)
}

var identPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Constraint is a high-level algebraic relation: a kind, the variables it
// relates, the relation expression text, and free-form metadata (e.g. which
// opcode it came from).
type Constraint struct {
	Kind       Kind
	Vars       []Variable
	Expression string
	Metadata   map[string]string
}

// Module is a named bundle of variables, constraints, and the names of
// modules it depends on. The dependency graph across a Module set must be
// a DAG (spec.md §3); that check lives in internal/pack, which needs the
// full module set to run the topological sort.
type Module struct {
	Name         string
	Variables    []Variable
	Constraints  []Constraint
	Dependencies []string
}

// Validate checks the static invariants spec.md §3 assigns to this layer:
// variable names are well-formed, no variable's bit suffixes collide with
// another declared name, and every constraint has a recognized kind.
func (m Module) Validate() error {
	declared := make(map[string]bool, len(m.Variables))
	for _, v := range m.Variables {
		if !identPattern.MatchString(v.Name) {
			return kerrors.CompilerError{
				Level:   kerrors.Error,
				Code:    kerrors.CodeNameCollision,
				Message: fmt.Sprintf("variable name %q is not alphanumeric starting with a letter", v.Name),
				Context: m.Name,
			}
		}
		declared[v.Name] = true
	}

	for _, v := range m.Variables {
		for i := 0; i < v.Width; i++ {
			bit := v.BitName(i)
			if bit != v.Name && declared[bit] {
				return kerrors.NameCollision(bit, m.Name)
			}
		}
	}

	for _, c := range m.Constraints {
		if !validKinds[c.Kind] {
			return kerrors.InvalidConstraintType(string(c.Kind), m.Name)
		}
		if c.Kind == KindArithmetic && len(c.Vars) != 3 {
			return kerrors.InvalidArity(len(c.Vars), m.Name)
		}
		if c.Kind == KindArithmetic {
			w := c.Vars[0].Width
			for _, v := range c.Vars[1:] {
				if v.Width != w {
					return kerrors.CompilerError{
						Level:   kerrors.Error,
						Code:    kerrors.CodeInvalidArity,
						Message: "arithmetic relation variables must share one width",
						Context: m.Name,
					}
				}
			}
		}
	}

	return nil
}

// VariableNames returns the union of variable names referenced by a set of
// constraints, used by the packer's variable budget (spec.md §4.3).
func VariableNames(cs []Constraint) map[string]bool {
	names := make(map[string]bool)
	for _, c := range cs {
		for _, v := range c.Vars {
			names[v.Name] = true
		}
	}
	return names
}
