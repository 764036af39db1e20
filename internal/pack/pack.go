// Package pack implements the File Packer (spec.md §4.3): dependency-
// ordered module emission, greedy size-bounded packing of compiled
// constraints into Tau files, and manifest emission. Module file emission
// is parallelized across modules at the same topological depth (spec.md
// §5), following sliver's goroutine-fan-out-with-channel-collected-errors
// idiom for worker pools, since output files are written to disjoint paths
// by construction and need no locking.
package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/tliron/commonlog"

	"zkvm/internal/constraint"
	kerrors "zkvm/internal/errors"
	"zkvm/internal/lower"
)

var log = commonlog.GetLogger("zkvm.pack")

// File is one assembled Tau constraint file, ready to be written.
type File struct {
	Module      string
	Part        int
	Filename    string
	Constraints []string
	Body        string // the fully assembled "solve ..." + "quit" text
}

// Packer owns the Lowerer and size budgets and drives the whole pipeline:
// order modules, lower each module's constraints, pack them into files,
// write them, and emit the manifest.
type Packer struct {
	Lowerer        *lower.Lowerer
	MaxExprLen     int
	MaxVarsPerFile int
	// Concurrency caps how many modules within one topological depth level
	// emit in parallel. Zero means unbounded (one goroutine per module in
	// the level).
	Concurrency int
}

func New(maxExprLen, maxVarsPerFile int) *Packer {
	return &Packer{Lowerer: lower.New(), MaxExprLen: maxExprLen, MaxVarsPerFile: maxVarsPerFile}
}

// Manifest is the JSON document spec.md §6 defines, emitted once after
// every module has been packed and written.
type Manifest struct {
	Modules          [][2]string `json:"modules"`
	TotalFiles       int         `json:"total_files"`
	TotalConstraints int         `json:"total_constraints"`
	CompilerVersion  string      `json:"compiler_version"`
}

// Build runs the full pipeline against modules, writing one .tau file per
// (module, part) under outDir, and returns the manifest it would emit. It
// does not write the manifest itself — callers decide the manifest's path
// (internal/ioformat defines its JSON shape).
func (p *Packer) Build(modules []constraint.Module, outDir, version string) (Manifest, error) {
	for _, m := range modules {
		if err := m.Validate(); err != nil {
			return Manifest{}, err
		}
	}

	order, levels, err := Order(modules)
	if err != nil {
		return Manifest{}, err
	}
	log.Infof("packer: module order resolved, %d modules in %d levels", len(order), len(levels))

	byName := make(map[string]constraint.Module, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
	}

	var manifest Manifest
	manifest.CompilerVersion = version

	for depth, levelModules := range levels {
		files, err := p.emitLevel(levelModules, byName, outDir)
		if err != nil {
			log.Errorf("packer: level %d failed: %v", depth, err)
			return Manifest{}, err
		}
		for _, f := range files {
			manifest.Modules = append(manifest.Modules, [2]string{f.Module, f.Filename})
			manifest.TotalFiles++
			manifest.TotalConstraints += len(f.Constraints)
		}
	}

	return manifest, nil
}

// emitLevel packs and writes every module in one topological-depth level
// concurrently, since spec.md §5 guarantees siblings at the same depth are
// independent. Every module of the level runs to completion; if any failed,
// it returns the first error in module-name order, so results are
// deterministic for tests regardless of goroutine scheduling (spec.md §5
// "Failure ordering"). Build stops before emitting any later level.
func (p *Packer) emitLevel(moduleNames []string, byName map[string]constraint.Module, outDir string) ([]File, error) {
	type result struct {
		files []File
		err   error
	}

	results := make([]result, len(moduleNames))
	var wg sync.WaitGroup

	sem := make(chan struct{}, p.workerLimit(len(moduleNames)))
	for i, name := range moduleNames {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			files, err := p.emitModule(byName[name], outDir)
			results[i] = result{files: files, err: err}
		}(i, name)
	}
	wg.Wait()

	// First error in deterministic (sorted) module-name order, not
	// goroutine-completion order.
	order := make([]int, len(moduleNames))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return moduleNames[order[a]] < moduleNames[order[b]] })

	for _, idx := range order {
		if results[idx].err != nil {
			return nil, results[idx].err
		}
	}

	var all []File
	for _, idx := range order {
		all = append(all, results[idx].files...)
	}
	return all, nil
}

func (p *Packer) workerLimit(n int) int {
	if p.Concurrency > 0 && p.Concurrency < n {
		return p.Concurrency
	}
	if n == 0 {
		return 1
	}
	return n
}

// emitModule lowers a module's constraints, packs them into size-bounded
// groups, and writes one .tau file per group.
func (p *Packer) emitModule(m constraint.Module, outDir string) ([]File, error) {
	var compiled []string
	for _, c := range m.Constraints {
		lines, err := p.Lowerer.Lower(c)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, lines...)
	}

	groups, err := Pack(compiled, p.MaxExprLen, p.MaxVarsPerFile, m.Name)
	if err != nil {
		return nil, err
	}

	inputBits := inputAssignments(m)

	var files []File
	for part, g := range groups {
		f, err := assemble(m.Name, part, g, inputBits, p.MaxExprLen)
		if err != nil {
			return nil, err
		}
		if outDir != "" {
			if err := writeFile(outDir, f); err != nil {
				return nil, kerrors.Io(filepath.Join(outDir, f.Filename), err)
			}
		}
		files = append(files, f)
	}
	log.Debugf("packer: module %s packed into %d file(s)", m.Name, len(files))
	return files, nil
}

// inputAssignments builds the self-identity conjuncts ("a0=a0") that
// declare a module's input variable bits as solver-visible free variables,
// per spec.md §4.3's "solve line is composed of: the module's input
// variable bit assignments ... the packed constraints ... and the terminal
// result=1 conjunct".
func inputAssignments(m constraint.Module) map[string]string {
	assignments := make(map[string]string)
	for _, v := range m.Variables {
		if !v.Input {
			continue
		}
		for i := 0; i < v.Width; i++ {
			bit := v.BitName(i)
			assignments[bit] = fmt.Sprintf("%s=%s", bit, bit)
		}
	}
	return assignments
}

// assemble builds one file's header and solve/quit body. Only the input
// bits actually referenced by this group's constraints are included, so the
// per-file variable and character budgets (already respected by the packed
// constraints) aren't blown open again by declaring every input of the
// whole module in every part.
func assemble(module string, part int, g Group, inputBits map[string]string, maxExprLen int) (File, error) {
	var conjuncts []string
	for name := range g.Vars {
		if decl, ok := inputBits[name]; ok {
			conjuncts = append(conjuncts, decl)
		}
	}
	sort.Strings(conjuncts)
	conjuncts = append(conjuncts, g.Constraints...)
	conjuncts = append(conjuncts, "result=1")

	solveLine := "solve " + joinConjuncts(conjuncts)
	if len(solveLine) > maxExprLen {
		return File{}, kerrors.ExpressionTooLong(len(solveLine), maxExprLen, fmt.Sprintf("%s part %d", module, part))
	}

	filename := fmt.Sprintf("%s_%d.tau", strcase.ToSnake(module), part)
	body := fmt.Sprintf("# Module: %s (Part %d)\n# Auto-generated\n%s\nquit\n", module, part, solveLine)

	return File{Module: module, Part: part, Filename: filename, Constraints: g.Constraints, Body: body}, nil
}

func joinConjuncts(cs []string) string {
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += " && "
		}
		out += c
	}
	return out
}

func writeFile(outDir string, f File) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, f.Filename), []byte(f.Body), 0o644)
}
