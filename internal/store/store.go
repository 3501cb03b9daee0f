// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides persistence for floop procedure definitions.
package store

// Store is the interface for a procedure library: a mapping from a
// procedure's name to its source text.
type Store interface {
	// Get retrieves a procedure's source by name. Returns "" if absent.
	Get(name string) (string, error)
	// Put stores a procedure's source by name, overwriting if it exists.
	Put(name string, src string) error
	// Delete removes a procedure by name.
	Delete(name string) error
	// List returns all stored procedure names.
	List() ([]string, error)
	// Close releases resources.
	Close() error
}
