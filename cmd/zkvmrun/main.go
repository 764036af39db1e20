// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"zkvm/internal/asm"
	"zkvm/internal/config"
	"zkvm/internal/ioformat"
	"zkvm/internal/isa"
	"zkvm/internal/validator"
	"zkvm/internal/vm"
	"zkvm/internal/vm/examples"
	"zkvm/repl"
)

var log = commonlog.GetLogger("zkvm.zkvmrun")

func main() {
	commonlog.Configure(1, nil)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runRun(os.Args[2:])
	case "validate":
		err = runValidateProgram(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "benchmark":
		err = runBenchmark(os.Args[2:])
	case "debug":
		err = runDebug(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: zkvmrun <run|validate|stats|benchmark|debug> [flags]")
	fmt.Println("  run --program PATH [--input PATH] [--validate] [--trace] [--max-cycles N]")
	fmt.Println("  validate --program PATH")
	fmt.Println("  stats --program PATH")
	fmt.Println("  benchmark --benchmark {all|arithmetic|memory|crypto} --iterations N")
	fmt.Println("  debug --program PATH [--input PATH]")
}

// loadProgram accepts either the JSON program file format (spec.md §6) or
// the VM's text assembly format (spec.md §4.1), dispatching on extension.
func loadProgram(path string) (*isa.Program, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ioformat.DecodeProgram(data)
	}

	parsed, err := asm.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return parsed.ToProgram()
}

func loadInput(path string) ([]uint32, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values []uint32
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}
	return values, nil
}

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	programPath := fs.String("program", "", "path to a program file (.json or .asm)")
	inputPath := fs.String("input", "", "path to a JSON array of uint32 input values")
	withValidate := fs.Bool("validate", false, "consult the witness validator during execution")
	withTrace := fs.Bool("trace", false, "capture a per-instruction trace")
	maxCycles := fs.Uint64("max-cycles", config.DefaultMaxCycles, "cycle budget before the run is treated as exhausted")
	fs.Parse(args)

	if *programPath == "" {
		return fmt.Errorf("run: --program is required")
	}

	program, err := loadProgram(*programPath)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := program.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	input, err := loadInput(*inputPath)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	cfg := config.NewVMConfig(config.WithMaxCycles(*maxCycles))

	var v vm.Validator
	if *withValidate {
		v = validator.New()
	}

	exec := vm.NewExecutor(cfg, v)
	exec.Trace = *withTrace

	start := time.Now()
	result := exec.Run(program, input)
	elapsed := time.Since(start)

	doc := ioformat.FromResult(result, float64(elapsed.Microseconds())/1000.0, memoryFootprint(result))
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Success {
		log.Errorf("zkvmrun: run failed: %v", result.Err)
		return fmt.Errorf("execution failed: %v", result.Err)
	}
	color.Green("run: completed in %d cycle(s)", result.Stats.Cycles)
	return nil
}

func memoryFootprint(result vm.Result) int {
	if result.State == nil {
		return 0
	}
	words := len(result.State.Registers) + len(result.State.Stack) + len(result.State.Memory)
	return words * 4
}

func runValidateProgram(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	programPath := fs.String("program", "", "path to a program file (.json or .asm)")
	fs.Parse(args)

	if *programPath == "" {
		return fmt.Errorf("validate: --program is required")
	}

	program, err := loadProgram(*programPath)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := program.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	color.Green("validate: %s is a valid program (%d instruction(s))", *programPath, len(program.Instructions))
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	programPath := fs.String("program", "", "path to a program file (.json or .asm)")
	fs.Parse(args)

	if *programPath == "" {
		return fmt.Errorf("stats: --program is required")
	}

	program, err := loadProgram(*programPath)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	counts := map[string]int{}
	for _, instr := range program.Instructions {
		counts[instr.Op]++
	}

	fmt.Printf("instructions: %d\n", len(program.Instructions))
	fmt.Printf("distinct opcodes: %d\n", len(counts))
	fmt.Println(asm.Disassemble(program))
	return nil
}

func runBenchmark(args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ExitOnError)
	which := fs.String("benchmark", "all", "one of all, arithmetic, memory, crypto")
	iterations := fs.Int("iterations", 1000, "iteration count for the scaled benchmark programs")
	fs.Parse(args)

	catalogue := examples.All(*iterations)

	var names []string
	if *which == "all" {
		for name := range catalogue {
			names = append(names, name)
		}
	} else {
		if _, ok := catalogue[*which]; !ok {
			return fmt.Errorf("benchmark: unknown benchmark %q", *which)
		}
		names = []string{*which}
	}

	cfg := config.NewVMConfig()
	for _, name := range names {
		program := catalogue[name]
		exec := vm.NewExecutor(cfg, nil)

		start := time.Now()
		result := exec.Run(program, nil)
		elapsed := time.Since(start)

		status := "ok"
		if !result.Success {
			status = "FAILED: " + result.Err.Error()
		}
		ips := 0.0
		if elapsed.Seconds() > 0 {
			ips = float64(result.Stats.Cycles) / elapsed.Seconds()
		}
		fmt.Printf("%-12s cycles=%-8d elapsed=%-12s ips=%-12s %s\n",
			name, result.Stats.Cycles, elapsed, strconv.FormatFloat(ips, 'f', 0, 64), status)
	}
	return nil
}

// runDebug drives the interactive step-REPL over stdin/stdout, the local
// terminal counterpart to internal/traceserver's remote debug transport.
func runDebug(args []string) error {
	fs := flag.NewFlagSet("debug", flag.ExitOnError)
	programPath := fs.String("program", "", "path to a program file (.json or .asm)")
	inputPath := fs.String("input", "", "path to a JSON array of uint32 input values")
	fs.Parse(args)

	if *programPath == "" {
		return fmt.Errorf("debug: --program is required")
	}

	program, err := loadProgram(*programPath)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	if err := program.Validate(); err != nil {
		return fmt.Errorf("debug: %w", err)
	}

	input, err := loadInput(*inputPath)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}

	repl.Start(os.Stdin, os.Stdout, program, input)
	return nil
}
