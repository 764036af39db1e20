package ioformat

import "zkvm/internal/pack"

// Manifest is an alias for the packer's own manifest type. internal/pack
// defines the struct and json tags directly (its Build method constructs
// one on every run); aliasing it here just gives the wire-format package a
// single place documenting every JSON shape spec.md §6 names, without a
// duplicate type to keep in sync.
type Manifest = pack.Manifest
