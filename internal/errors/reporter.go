package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders a CompilerError the way the CLI shows it to a user:
// a colored "error[CODE]: message" header, a "--> context" line when a
// context is set, then any notes and a suggestion line. It has no source-text caret rendering because
// compiler errors here locate a module or constraint, not a source span.
type Reporter struct{}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) Format(err CompilerError) string {
	var b strings.Builder

	levelColor := r.levelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()

	if err.Code != "" {
		b.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, bold(err.Message)))
	} else {
		b.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(err.Level)), bold(err.Message)))
	}

	if err.Context != "" {
		b.WriteString(fmt.Sprintf("  --> %s\n", err.Context))
	}

	for _, note := range err.Notes {
		b.WriteString(fmt.Sprintf("  note: %s\n", note))
	}

	if err.Suggestion != "" {
		b.WriteString(fmt.Sprintf("  help: %s\n", err.Suggestion))
	}

	return b.String()
}

func (r *Reporter) levelColor(level ErrorLevel) func(format string, a ...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintfFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintfFunc()
	default:
		return color.New(color.FgCyan).SprintfFunc()
	}
}
