package pack

import (
	"regexp"

	kerrors "zkvm/internal/errors"
)

// variablePattern matches "letter followed by letters/digits" (spec.md
// §4.3 "Variable extraction"), used to find every distinct variable name a
// compiled constraint string references without understanding its syntax.
var variablePattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)

// ExtractVariables returns the variable names referenced in a compiled
// constraint string, once per occurrence (a name used twice appears twice).
func ExtractVariables(expr string) []string {
	return variablePattern.FindAllString(expr, -1)
}

// Group is one greedily-packed set of compiled constraints destined for a
// single output file.
type Group struct {
	Constraints []string
	Vars        map[string]bool
	length      int // running character budget: sum(len(c)) + 4*(n-1)
}

// Pack greedily groups compiled constraints under the two simultaneous
// budgets spec.md §4.3 defines: total textual length (including the " && "
// joiner) and distinct-variable count. It never reorders or splits a
// constraint; a single constraint that alone exceeds maxExprLen is a hard
// ExpressionTooLong error, since the packer never splits one.
func Pack(constraints []string, maxExprLen, maxVarsPerFile int, context string) ([]Group, error) {
	var groups []Group
	var current Group

	flush := func() {
		if len(current.Constraints) > 0 {
			groups = append(groups, current)
		}
		current = Group{Vars: map[string]bool{}}
	}
	current.Vars = map[string]bool{}

	for _, c := range constraints {
		if len(c) > maxExprLen {
			return nil, kerrors.ExpressionTooLong(len(c), maxExprLen, context)
		}

		newVars := ExtractVariables(c)

		hypotheticalLen := len(c)
		if len(current.Constraints) > 0 {
			hypotheticalLen = current.length + 4 + len(c)
		}

		unionSize := len(current.Vars)
		counted := map[string]bool{}
		for _, v := range newVars {
			if !current.Vars[v] && !counted[v] {
				counted[v] = true
				unionSize++
			}
		}

		if len(current.Constraints) > 0 && (hypotheticalLen > maxExprLen || unionSize > maxVarsPerFile) {
			flush()
		}

		if len(current.Constraints) == 0 {
			// Starting a new (possibly just-flushed) group: check the
			// constraint still fits alone, in case its own variable set
			// already exceeds the budget.
			uniq := map[string]bool{}
			for _, v := range newVars {
				uniq[v] = true
			}
			if len(uniq) > maxVarsPerFile {
				return nil, kerrors.TooManyVariables(len(uniq), maxVarsPerFile, context)
			}
			current.length = len(c)
		} else {
			current.length = hypotheticalLen
		}

		current.Constraints = append(current.Constraints, c)
		for _, v := range newVars {
			current.Vars[v] = true
		}
	}

	flush()
	return groups, nil
}
