// Package repl implements the interactive step-REPL: a read-eval-print
// loop over one traceserver.Session, driven from a terminal instead of the
// JSON-RPC/websocket transport: a bufio.Scanner prompt loop printing one
// result per line, with direct Session calls in place of a lexer/parser
// since there is nothing to parse here beyond a single debugger command
// word.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"zkvm/internal/config"
	"zkvm/internal/isa"
	"zkvm/internal/traceserver"
)

const PROMPT = "(zkvm) "

// Start runs the step-REPL against program until the user quits or in is
// exhausted, writing prompts and results to out.
func Start(in io.Reader, out io.Writer, program *isa.Program, input []uint32) {
	session := traceserver.NewSession(config.NewVMConfig(), program, input)
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "zkvm step debugger. Commands: step, continue, break <pc>, clear <pc>, state, quit")
	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "step", "s":
			result, err := session.Step(context.Background())
			printResult(out, result, err)
		case "continue", "c":
			result, err := session.Continue(context.Background())
			printResult(out, result, err)
		case "state":
			printStepResult(out, session.State())
		case "break", "b":
			setBreakpoint(out, fields, session, true)
		case "clear":
			setBreakpoint(out, fields, session, false)
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
}

func setBreakpoint(out io.Writer, fields []string, session *traceserver.Session, enabled bool) {
	if len(fields) != 2 {
		fmt.Fprintln(out, "usage: break <pc>  (or: clear <pc>)")
		return
	}
	pc, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		fmt.Fprintf(out, "invalid pc %q: %s\n", fields[1], err)
		return
	}
	session.SetBreakpoint(uint32(pc), enabled)
}

func printResult(out io.Writer, result traceserver.StepResult, err error) {
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}
	printStepResult(out, result)
}

func printStepResult(out io.Writer, result traceserver.StepResult) {
	fmt.Fprintf(out, "pc=%d cycle=%d halted=%t stack=%v", result.PC, result.Cycle, result.Halted, result.Stack)
	if result.AtBreak {
		fmt.Fprint(out, " (breakpoint)")
	}
	if result.Fault != "" {
		fmt.Fprintf(out, " fault=%s", result.Fault)
	}
	fmt.Fprintln(out)
}
