package pack

import (
	"sort"

	"zkvm/internal/constraint"
	kerrors "zkvm/internal/errors"
)

type color int

const (
	white color = iota // unvisited
	gray               // in progress
	black              // done
)

// Order performs a depth-first, three-color-marked topological sort over a
// module set's dependency DAG (spec.md §3, Design Notes: "Use DFS with a
// three-color marking... Avoid recursion for deep graphs"). It returns
// modules leaves-first, and additionally buckets them into dependency
// "levels" (a module's level is one more than the maximum level of its
// dependencies) so internal/pack's parallel emission (spec.md §5: "each
// module's file emission is independent of sibling modules at the same
// topological depth") can safely run same-level modules concurrently.
func Order(modules []constraint.Module) (order []string, levels [][]string, err error) {
	byName := make(map[string]constraint.Module, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
	}

	colors := make(map[string]color, len(modules))
	level := make(map[string]int, len(modules))

	// Explicit stack to avoid recursion on deep graphs, per Design Notes.
	type frame struct {
		name     string
		depIndex int
	}

	var visit func(name string) error
	visit = func(name string) error {
		stack := []*frame{{name: name}}
		colors[name] = gray

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			mod, ok := byName[top.name]
			if !ok {
				return kerrors.ModuleNotFound(top.name)
			}

			if top.depIndex < len(mod.Dependencies) {
				dep := mod.Dependencies[top.depIndex]
				top.depIndex++

				depMod, ok := byName[dep]
				if !ok {
					return kerrors.ModuleNotFound(dep)
				}
				switch colors[dep] {
				case white:
					colors[dep] = gray
					stack = append(stack, &frame{name: depMod.Name})
				case gray:
					return kerrors.CircularDependency(dep)
				case black:
					// already ordered; nothing to do
				}
				continue
			}

			// All dependencies processed: compute this module's level, mark
			// done, pop, and append to the order.
			maxDepLevel := -1
			for _, dep := range mod.Dependencies {
				if level[dep] > maxDepLevel {
					maxDepLevel = level[dep]
				}
			}
			level[top.name] = maxDepLevel + 1
			colors[top.name] = black
			order = append(order, top.name)
			stack = stack[:len(stack)-1]
		}
		return nil
	}

	// Deterministic traversal order: sort module names before visiting so
	// that, given the same input set, CircularDependency always names the
	// same module (spec.md §5's "deterministic for tests" requirement).
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		if colors[name] == white {
			if err := visit(name); err != nil {
				return nil, nil, err
			}
		}
	}

	maxLevel := 0
	for _, l := range level {
		if l > maxLevel {
			maxLevel = l
		}
	}
	levels = make([][]string, maxLevel+1)
	for _, name := range order {
		levels[level[name]] = append(levels[level[name]], name)
	}

	return order, levels, nil
}
