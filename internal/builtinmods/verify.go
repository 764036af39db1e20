package builtinmods

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_]*`)

// splitEquality splits one compiled constraint line ("lhs = expr") into
// its two sides.
func splitEquality(line string) (lhs, rhs string, err error) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("builtinmods: malformed compiled constraint %q", line)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// referencedNames returns every variable name an expression's right-hand
// side mentions, once per occurrence (numeric literals 0/1 never match,
// since the pattern requires a leading letter).
func referencedNames(expr string) []string {
	return namePattern.FindAllString(expr, -1)
}
