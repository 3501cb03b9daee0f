// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package floop provides the public API for the floop interpreter.
package floop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"nickandperla.net/floop/internal/eval"
	"nickandperla.net/floop/internal/parser"
	"nickandperla.net/floop/internal/store"
)

// ErrCancelled is returned when a run is stopped by its context. The
// outputs produced before cancellation are still returned.
var ErrCancelled = eval.ErrCancelled

// Runtime is the floop interpreter runtime. Each Run invocation parses
// its source, assembles a procedure table from the prelude, the library
// store, and the program's own definitions, and executes against a
// fresh environment. Concurrent Run calls are independent.
type Runtime struct {
	store     store.Store
	prelude   string // custom prelude source (if empty, DefaultPrelude)
	noPrelude bool
	persist   bool // persist every program DEFINE to the store
}

// New creates a new floop runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run parses and executes source, binding inputs to CELL(0), CELL(1),
// ... in order, and returns the program's output sequence.
func (r *Runtime) Run(source string, inputs []int64) ([]int64, error) {
	return r.RunContext(context.Background(), source, inputs)
}

// RunContext is Run with an external cancellation context, checked at
// each statement boundary. Cancellation surfaces as ErrCancelled with
// the partial outputs preserved.
func (r *Runtime) RunContext(ctx context.Context, source string, inputs []int64) ([]int64, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	table, err := r.buildProcTable()
	if err != nil {
		return nil, err
	}
	for _, d := range prog.Procs {
		table.Define(d)
	}
	if r.persist && r.store != nil {
		for _, d := range prog.Procs {
			if err := r.store.Put(d.Name, d.Src); err != nil {
				return nil, fmt.Errorf("persisting procedure %q: %w", d.Name, err)
			}
		}
	}

	return eval.New(table).Run(ctx, prog, inputs)
}

// RunFile executes a source file.
func (r *Runtime) RunFile(path string, inputs []int64) ([]int64, error) {
	return r.RunFileContext(context.Background(), path, inputs)
}

// RunFileContext executes a source file with a cancellation context.
func (r *Runtime) RunFileContext(ctx context.Context, path string, inputs []int64) ([]int64, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.RunContext(ctx, string(src), inputs)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// buildProcTable assembles the prelude and library procedures. Program
// definitions are layered on top by the caller and shadow both.
func (r *Runtime) buildProcTable() (*eval.ProcTable, error) {
	table := eval.NewProcTable()

	if !r.noPrelude {
		prelude := r.prelude
		if prelude == "" {
			prelude = DefaultPrelude
		}
		prog, err := parser.Parse(prelude)
		if err != nil {
			return nil, fmt.Errorf("prelude: %w", err)
		}
		for _, d := range prog.Procs {
			table.Define(d)
		}
	}

	if r.store != nil {
		names, err := r.store.List()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			src, err := r.store.Get(name)
			if err != nil {
				return nil, err
			}
			prog, err := parser.Parse(src)
			if err != nil {
				return nil, fmt.Errorf("library procedure %q: %w", name, err)
			}
			for _, d := range prog.Procs {
				table.Define(d)
			}
		}
	}

	return table, nil
}

// Incomplete reports whether src fails to parse only because the input
// ends too early. The REPL uses it to decide when to keep reading.
func Incomplete(src string) bool {
	_, err := parser.Parse(src)
	if err == nil {
		return false
	}
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return strings.Contains(se.Msg, "found EOF") ||
			strings.Contains(se.Msg, "unexpected end of input")
	}
	return false
}

// Session is an interactive evaluation session: one environment and one
// procedure table kept alive across inputs, for the REPL.
type Session struct {
	rt    *Runtime
	table *eval.ProcTable
	ev    *eval.Evaluator
	env   *eval.Env
}

// NewSession creates a session with the runtime's prelude and library
// procedures loaded.
func (r *Runtime) NewSession() (*Session, error) {
	table, err := r.buildProcTable()
	if err != nil {
		return nil, err
	}
	env := eval.NewEnv()
	env.Define("OUTPUT", 0)
	return &Session{rt: r, table: table, ev: eval.New(table), env: env}, nil
}

// Eval parses and executes one session input. Definitions are added to
// the session's procedure table; statements run against the session's
// persistent environment. The outputs of this input are returned.
func (s *Session) Eval(src string) ([]int64, error) {
	return s.EvalContext(context.Background(), src)
}

// EvalContext is Eval with a cancellation context.
func (s *Session) EvalContext(ctx context.Context, src string) ([]int64, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	for _, d := range prog.Procs {
		s.table.Define(d)
		if s.rt.persist && s.rt.store != nil {
			if err := s.rt.store.Put(d.Name, d.Src); err != nil {
				return nil, fmt.Errorf("persisting procedure %q: %w", d.Name, err)
			}
		}
	}
	return s.ev.RunStmts(ctx, prog.Stmts, s.env)
}
