// Package examples holds the canned demo and benchmark programs spec.md
// §6 implies every runtime CLI needs (`benchmark --benchmark {all|
// arithmetic|memory|crypto}`), ported from
// original_source/runtime/src/examples.rs into the closed isa.Program
// form. Names and descriptions are kept close to the original so the demo
// catalogue stays recognizable, but none of the Rust comments or
// module layout carry over.
package examples

import "zkvm/internal/isa"

func imm(v uint32) *uint32 { return &v }

func push(v uint32) isa.Instruction       { return isa.Instruction{Op: "push", Immediate: imm(v)} }
func op(name string) isa.Instruction      { return isa.Instruction{Op: name} }
func jumpTo(name string, t uint32) isa.Instruction {
	return isa.Instruction{Op: name, Immediate: imm(t)}
}

// Arithmetic returns "(42 + 58) * 2 = 200".
func Arithmetic() *isa.Program {
	return &isa.Program{
		Instructions: []isa.Instruction{
			push(42), push(58), op("add"), op("dup"), push(2), op("mul"), op("halt"),
		},
		Metadata: isa.Metadata{
			Name:        "arithmetic-example",
			Version:     "1.0.0",
			Description: "Demonstrates basic arithmetic operations: (42 + 58) * 2 = 200",
		},
	}
}

// Fibonacci computes F(5) = 5 without recursion: each round turns [a, b]
// into [b, a+b], parking b in memory word 0 across the add.
func Fibonacci() *isa.Program {
	step := []isa.Instruction{op("dup"), jumpTo("store", 0), op("add"), jumpTo("load", 0), op("swap")}
	instrs := []isa.Instruction{push(0), push(1)}
	for i := 0; i < 4; i++ {
		instrs = append(instrs, step...)
	}
	instrs = append(instrs, op("halt"))
	return &isa.Program{
		Instructions: instrs,
		Metadata: isa.Metadata{
			Name:        "fibonacci-example",
			Version:     "1.0.0",
			Description: "Calculates a Fibonacci value using stack operations",
		},
	}
}

// Crypto demonstrates the opaque hash placeholder combined with xor.
func Crypto() *isa.Program {
	return &isa.Program{
		Instructions: []isa.Instruction{
			push(12345), op("hash"), push(67890), op("hash"), op("xor"), op("halt"),
		},
		Metadata: isa.Metadata{
			Name:        "crypto-example",
			Version:     "1.0.0",
			Description: "Demonstrates cryptographic operations with hashing and XOR",
		},
	}
}

// ArithmeticBenchmark runs n rounds of add/dup/push(1) for load testing.
func ArithmeticBenchmark(n int) *isa.Program {
	instrs := []isa.Instruction{push(1), push(1)}
	for i := 0; i < n; i++ {
		instrs = append(instrs, op("add"), op("dup"), push(1))
	}
	instrs = append(instrs, op("halt"))
	return &isa.Program{
		Instructions: instrs,
		Metadata: isa.Metadata{
			Name:        "arithmetic-benchmark",
			Version:     "1.0.0",
			Description: "Benchmark program with repeated arithmetic operations",
		},
	}
}

// MemoryBenchmark stores n values then reloads and sums them.
func MemoryBenchmark(n int) *isa.Program {
	var instrs []isa.Instruction
	for i := uint32(0); i < uint32(n); i++ {
		instrs = append(instrs, push(i*2), push(i), op("store"))
	}
	instrs = append(instrs, push(0))
	for i := uint32(0); i < uint32(n); i++ {
		instrs = append(instrs, push(i), op("load"), op("add"))
	}
	instrs = append(instrs, op("halt"))
	return &isa.Program{
		Instructions: instrs,
		Metadata: isa.Metadata{
			Name:        "memory-benchmark",
			Version:     "1.0.0",
			Description: "Benchmark program with memory store/load operations",
		},
	}
}

// CryptoBenchmark runs n rounds of hash/dup/xor.
func CryptoBenchmark(n int) *isa.Program {
	instrs := []isa.Instruction{push(0x12345678)}
	for i := 0; i < n; i++ {
		instrs = append(instrs, op("hash"), op("dup"), push(0xDEADBEEF), op("xor"))
	}
	instrs = append(instrs, op("halt"))
	return &isa.Program{
		Instructions: instrs,
		Metadata: isa.Metadata{
			Name:        "crypto-benchmark",
			Version:     "1.0.0",
			Description: "Benchmark program with cryptographic operations",
		},
	}
}

// Comprehensive exercises arithmetic, bitwise, comparison, memory, and
// control-flow categories in one program.
func Comprehensive() *isa.Program {
	return &isa.Program{
		Instructions: []isa.Instruction{
			push(10), push(5), op("add"), push(3), op("mul"),
			push(0xFF), op("and"),
			op("dup"), push(50), op("lt"),
			push(100), push(0), op("store"),
			push(0), op("load"),
			push(1), jumpTo("jnz", 19),
			push(999), push(999),
			op("halt"),
		},
		Metadata: isa.Metadata{
			Name:        "comprehensive-test",
			Version:     "1.0.0",
			Description: "Tests all major instruction categories",
		},
	}
}

// All returns the benchmark catalogue keyed by the `--benchmark` CLI flag's
// value, per spec.md §6 ("benchmark --benchmark {all|arithmetic|memory|
// crypto}").
func All(iterations int) map[string]*isa.Program {
	return map[string]*isa.Program{
		"arithmetic": ArithmeticBenchmark(iterations),
		"memory":     MemoryBenchmark(iterations),
		"crypto":     CryptoBenchmark(iterations),
	}
}
