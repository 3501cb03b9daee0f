package floop

import (
	"nickandperla.net/floop/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// Store interface for custom procedure libraries.
type Store = store.Store

// WithSQLiteStore configures a SQLite procedure library at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.store = s
		}
	}
}

// WithMemoryStore configures an in-memory procedure library (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom procedure library.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithPrelude sets a custom prelude source to be loaded instead of
// DefaultPrelude.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoPrelude disables loading the standard prelude procedures.
func WithNoPrelude() Option {
	return func(r *Runtime) {
		r.noPrelude = true
	}
}

// WithPersist persists every procedure a program defines to the store
// (compile mode).
func WithPersist() Option {
	return func(r *Runtime) {
		r.persist = true
	}
}
