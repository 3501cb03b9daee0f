// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"sort"

	"nickandperla.net/floop/internal/ast"
)

// Proc is one registered procedure: its parameters, AST body, and the
// raw source it was defined from. The return cell is always OUTPUT.
type Proc struct {
	Name   string
	Params []string
	Body   *ast.Block
	Src    string
}

// ProcTable maps procedure names to their definitions. It is populated
// by a pre-pass over all ProcDef nodes before any statement executes,
// so forward references across procedures resolve, and is treated as
// immutable once a run has begun.
type ProcTable struct {
	procs map[string]*Proc
}

// NewProcTable creates an empty procedure table.
func NewProcTable() *ProcTable {
	return &ProcTable{procs: make(map[string]*Proc)}
}

// Define registers a procedure, replacing any prior definition of the
// same name. Duplicates within a single source unit are rejected by the
// parser; replacement here is what lets program definitions shadow the
// prelude and library.
func (t *ProcTable) Define(d *ast.ProcDef) {
	t.procs[d.Name] = &Proc{
		Name:   d.Name,
		Params: d.Params,
		Body:   d.Body,
		Src:    d.Src,
	}
}

// Lookup returns the named procedure.
func (t *ProcTable) Lookup(name string) (*Proc, bool) {
	p, ok := t.procs[name]
	return p, ok
}

// Names returns all registered procedure names, sorted.
func (t *ProcTable) Names() []string {
	names := make([]string, 0, len(t.procs))
	for name := range t.procs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered procedures.
func (t *ProcTable) Len() int {
	return len(t.procs)
}
