// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"zkvm/internal/builtinmods"
	"zkvm/internal/constraint"
	kerrors "zkvm/internal/errors"
	"zkvm/internal/pack"
)

const version = "0.1.0"

var log = commonlog.GetLogger("zkvm.zkvmc")

func main() {
	commonlog.Configure(1, nil)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "show-limitations":
		showLimitations()
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		report(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: zkvmc <build|validate|generate|show-limitations> [flags]")
	fmt.Println("  build [--with-tests] [-j N] [--out DIR]")
	fmt.Println("  validate --manifest PATH")
	fmt.Println("  generate {lookups|isa|memory|folding} [--verify] [--width N] [--out DIR]")
	fmt.Println("  show-limitations")
}

// report renders a compiler error the way cmd/kanso-cli rendered parse
// errors: a colored summary, falling back to a plain message for errors
// that did not originate from internal/errors.
func report(err error) {
	if ce, ok := err.(kerrors.CompilerError); ok {
		fmt.Println(kerrors.NewReporter().Format(ce))
		return
	}
	color.Red("error: %s", err)
}

// runBuild assembles every builtin module generator into the full module
// set and runs the packer over it, writing one .tau file per (module,
// part) plus a manifest.json, the way spec.md §6 describes.
func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	withTests := fs.Bool("with-tests", false, "self-verify every generated module before packing")
	jobs := fs.Int("j", 0, "max modules packed concurrently per topological level (0 = unbounded)")
	out := fs.String("out", "build", "output directory for .tau files and manifest.json")
	width := fs.Int("width", 32, "bit width for generated modules")
	fs.Parse(args)

	modules := make([]constraint.Module, 0, len(builtinmods.Generators))
	for _, name := range []string{"isa", "memory", "folding", "lookups"} {
		m := builtinmods.Generators[name](*width)
		if *withTests {
			if err := builtinmods.VerifySelf(m); err != nil {
				return fmt.Errorf("build: module %q failed self-verification: %w", name, err)
			}
			log.Infof("zkvmc: module %s self-verified", name)
		}
		modules = append(modules, m)
	}

	packer := pack.New(700, 50)
	packer.Concurrency = *jobs

	manifest, err := packer.Build(modules, *out, version)
	if err != nil {
		return err
	}

	manifestPath := *out + "/manifest.json"
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return kerrors.Io(manifestPath, err)
	}

	color.Green("build: wrote %d file(s), %d constraint(s) across %d module(s)",
		manifest.TotalFiles, manifest.TotalConstraints, len(modules))
	return nil
}

// runValidate checks a previously emitted manifest for internal
// consistency: the file count matches the module list length and every
// entry names a non-empty module and filename.
func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	manifestPath := fs.String("manifest", "", "path to manifest.json")
	fs.Parse(args)

	if *manifestPath == "" {
		return fmt.Errorf("validate: --manifest is required")
	}

	data, err := os.ReadFile(*manifestPath)
	if err != nil {
		return kerrors.Io(*manifestPath, err)
	}

	var manifest pack.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("validate: %s: invalid manifest JSON: %w", *manifestPath, err)
	}

	if manifest.TotalFiles != len(manifest.Modules) {
		return fmt.Errorf("validate: %s: total_files=%d disagrees with %d module entries",
			*manifestPath, manifest.TotalFiles, len(manifest.Modules))
	}
	for i, entry := range manifest.Modules {
		if entry[0] == "" || entry[1] == "" {
			return fmt.Errorf("validate: %s: entry %d has an empty module or filename", *manifestPath, i)
		}
	}

	color.Green("validate: %s is consistent (%d files, %d constraints)",
		*manifestPath, manifest.TotalFiles, manifest.TotalConstraints)
	return nil
}

// runGenerate runs one builtin module generator in isolation — useful for
// inspecting or re-verifying a single ISA category without a full build.
func runGenerate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("generate: one of lookups|isa|memory|folding is required")
	}

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	verify := fs.Bool("verify", false, "check that the lowered module defines every name before use and never redefines one")
	width := fs.Int("width", 32, "bit width for the generated module")
	out := fs.String("out", "", "output directory; if empty, the module is only verified/summarized")
	fs.Parse(args[1:])

	name := args[0]
	gen, ok := builtinmods.Generators[name]
	if !ok {
		return fmt.Errorf("generate: unknown module %q (want lookups, isa, memory, or folding)", name)
	}

	m := gen(*width)
	if err := m.Validate(); err != nil {
		return err
	}

	if *verify {
		if err := builtinmods.VerifySelf(m); err != nil {
			return fmt.Errorf("generate: %s failed self-verification: %w", name, err)
		}
		log.Infof("zkvmc: %s self-verified", name)
	}

	if *out != "" {
		packer := pack.New(700, 50)
		if _, err := packer.Build([]constraint.Module{m}, *out, version); err != nil {
			return err
		}
	}

	color.Green("generate: %s produced %d constraint(s) over %d variable(s)", name, len(m.Constraints), len(m.Variables))
	return nil
}

func showLimitations() {
	fmt.Println("zkvm known limitations:")
	fmt.Println("  - hash, sign, and verify are modeled as fixed-cost no-ops; no real")
	fmt.Println("    cryptographic primitive backs them.")
	fmt.Println("  - the Tau constraint language's solver semantics beyond equality")
	fmt.Println("    conjunction are out of scope; this compiler only emits the conjunction.")
	fmt.Println("  - jump targets are absolute instruction indices; no linker, no labels.")
	fmt.Println("  - the VM is strictly single-threaded; there is no concurrent execution model.")
}
