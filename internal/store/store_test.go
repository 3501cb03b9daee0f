// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

const doubleSrc = `DEFINE PROCEDURE "DOUBLE" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X + X;
BLOCK 0: END`

func testStore(t *testing.T, s Store) {
	t.Helper()

	// Absent names read as empty, not as errors.
	src, err := s.Get("DOUBLE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if src != "" {
		t.Fatalf("Get on empty store = %q, want empty", src)
	}

	if err := s.Put("DOUBLE", doubleSrc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("ADD", "DEFINE ..."); err != nil {
		t.Fatalf("Put: %v", err)
	}

	src, err = s.Get("DOUBLE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if src != doubleSrc {
		t.Errorf("Get(DOUBLE) = %q, want stored source", src)
	}

	// Put replaces.
	if err := s.Put("ADD", "DEFINE again"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	src, _ = s.Get("ADD")
	if src != "DEFINE again" {
		t.Errorf("Get(ADD) = %q after replace", src)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"ADD", "DOUBLE"}) {
		t.Errorf("List = %v, want [ADD DOUBLE]", names)
	}

	if err := s.Delete("ADD"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	names, _ = s.List()
	if !reflect.DeepEqual(names, []string{"DOUBLE"}) {
		t.Errorf("List after Delete = %v, want [DOUBLE]", names)
	}
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Put("DOUBLE", doubleSrc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	src, err := s.Get("DOUBLE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if src != doubleSrc {
		t.Errorf("Get(DOUBLE) after reopen = %q", src)
	}
}

func TestSQLiteSchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.setMetadataUnlocked("schema_version", "99"); err != nil {
		t.Fatalf("setMetadata: %v", err)
	}
	s.Close()

	if _, err := NewSQLite(path); err == nil {
		t.Fatal("expected schema version error on reopen")
	}
}
