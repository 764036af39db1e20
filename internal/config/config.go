// Package config centralizes the small set of budgets and limits left as
// named constants: the File Packer's per-file character and variable
// budgets, and the VM's cycle limit and memory/register sizes. The
// functional-option constructor shape is grounded on the constructor-helper
// idiom internal/stdlib/modules.go used for building table entries
// (NewFunction, NewTypeRef), generalized to building a settings struct.
package config

// Defaults named directly in spec.md §6.
const (
	DefaultMaxExprLen     = 700
	DefaultMaxVarsPerFile = 50
)

// Defaults carried over from original_source/runtime/src/state.rs, since
// spec.md §3 names registers/memory as fixed-size without fixing a number.
const (
	DefaultMaxCycles   = 1_000_000
	DefaultMemoryWords = 4096
	DefaultRegisters   = 16
)

// PackerConfig holds the File Packer's size budgets.
type PackerConfig struct {
	MaxExprLen     int
	MaxVarsPerFile int
}

// PackerOption configures a PackerConfig.
type PackerOption func(*PackerConfig)

// WithMaxExprLen overrides the character budget per output file.
func WithMaxExprLen(n int) PackerOption {
	return func(c *PackerConfig) { c.MaxExprLen = n }
}

// WithMaxVarsPerFile overrides the distinct-variable budget per output file.
func WithMaxVarsPerFile(n int) PackerOption {
	return func(c *PackerConfig) { c.MaxVarsPerFile = n }
}

// NewPackerConfig builds a PackerConfig from spec.md's defaults, applying
// any overrides in order.
func NewPackerConfig(opts ...PackerOption) PackerConfig {
	c := PackerConfig{MaxExprLen: DefaultMaxExprLen, MaxVarsPerFile: DefaultMaxVarsPerFile}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// VMConfig holds the Executor's resource limits.
type VMConfig struct {
	MaxCycles   uint64
	MemoryWords uint32
	Registers   int
}

// VMOption configures a VMConfig.
type VMOption func(*VMConfig)

func WithMaxCycles(n uint64) VMOption {
	return func(c *VMConfig) { c.MaxCycles = n }
}

func WithMemoryWords(n uint32) VMOption {
	return func(c *VMConfig) { c.MemoryWords = n }
}

func WithRegisters(n int) VMOption {
	return func(c *VMConfig) { c.Registers = n }
}

// NewVMConfig builds a VMConfig from original_source's defaults, applying
// any overrides in order.
func NewVMConfig(opts ...VMOption) VMConfig {
	c := VMConfig{MaxCycles: DefaultMaxCycles, MemoryWords: DefaultMemoryWords, Registers: DefaultRegisters}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
