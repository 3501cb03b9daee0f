// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the floop tree-walking evaluator.
package eval

// Env is the block-scoped cell environment: an ordered stack of scopes,
// one per active block, loop body, or procedure invocation. Scopes are
// pushed on entry and popped on exit, including on abort/quit unwind.
//
// Lookup searches innermost to outermost. A write updates the nearest
// scope that already defines the cell, or creates it in the innermost
// scope if none does (first-write-defines).
type Env struct {
	scopes []map[string]int64
}

// NewEnv creates an environment with a single root scope.
func NewEnv() *Env {
	return &Env{scopes: []map[string]int64{{}}}
}

// Push enters a new innermost scope.
func (e *Env) Push() {
	e.scopes = append(e.scopes, map[string]int64{})
}

// Pop discards the innermost scope.
func (e *Env) Pop() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Get looks up a cell, innermost scope first.
func (e *Env) Get(key string) (int64, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][key]; ok {
			return v, true
		}
	}
	return 0, false
}

// Set writes a cell per the first-write-defines rule.
func (e *Env) Set(key string, v int64) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][key]; ok {
			e.scopes[i][key] = v
			return
		}
	}
	e.scopes[len(e.scopes)-1][key] = v
}

// Define creates or overwrites a cell in the innermost scope, shadowing
// any outer definition. Used for parameter and input binding.
func (e *Env) Define(key string, v int64) {
	e.scopes[len(e.scopes)-1][key] = v
}

// Depth returns the number of active scopes.
func (e *Env) Depth() int {
	return len(e.scopes)
}
