// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package floop

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"nickandperla.net/floop/internal/store"
)

func wantOutputs(t *testing.T, got, want []int64) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputs = %v, want %v", got, want)
	}
}

func TestRunSimpleProgram(t *testing.T) {
	rt := New()
	defer rt.Close()

	out, err := rt.Run("OUTPUT <= CELL(0) + CELL(1);", []int64{3, 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantOutputs(t, out, []int64{7})
}

func TestPreludeProcedures(t *testing.T) {
	rt := New()
	defer rt.Close()

	cases := []struct {
		src  string
		want int64
	}{
		{"OUTPUT <= DOUBLE(21);", 42},
		{"OUTPUT <= SQUARE(5);", 25},
		{"OUTPUT <= MAX(3, 9);", 9},
		{"OUTPUT <= MIN(3, 9);", 3},
		{"OUTPUT <= MINUS(10, 4);", 6},
		{"OUTPUT <= MINUS(4, 10);", 0},
		{"OUTPUT <= REMAINDER(17, 5);", 2},
		{"OUTPUT <= EVEN?(6);", 1},
		{"OUTPUT <= EVEN?(7);", 0},
	}
	for _, c := range cases {
		out, err := rt.Run(c.src, nil)
		if err != nil {
			t.Errorf("%s: %v", c.src, err)
			continue
		}
		wantOutputs(t, out, []int64{c.want})
	}
}

func TestNoPrelude(t *testing.T) {
	rt := New(WithNoPrelude())
	defer rt.Close()

	if _, err := rt.Run("OUTPUT <= DOUBLE(1);", nil); err == nil {
		t.Fatal("expected undefined procedure error without the prelude")
	}
}

func TestCustomPrelude(t *testing.T) {
	rt := New(WithPrelude(`DEFINE PROCEDURE "ANSWER" []:
BLOCK 0: BEGIN
	OUTPUT <= 42;
BLOCK 0: END`))
	defer rt.Close()

	out, err := rt.Run("OUTPUT <= ANSWER();", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantOutputs(t, out, []int64{42})
}

func TestProgramDefinitionShadowsPrelude(t *testing.T) {
	rt := New()
	defer rt.Close()

	out, err := rt.Run(`
DEFINE PROCEDURE "DOUBLE" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X;
BLOCK 0: END

OUTPUT <= DOUBLE(21);
`, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantOutputs(t, out, []int64{21})
}

func TestPersistedLibraryRoundTrip(t *testing.T) {
	mem := store.NewMemory()

	rt := New(WithStore(mem), WithPersist())
	if _, err := rt.Run(`
DEFINE PROCEDURE "TRIPLE" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X * 3;
BLOCK 0: END
`, nil); err != nil {
		t.Fatalf("compile run: %v", err)
	}

	// A later run with the same store sees TRIPLE without defining it.
	rt2 := New(WithStore(mem))
	out, err := rt2.Run("OUTPUT <= TRIPLE(4);", nil)
	if err != nil {
		t.Fatalf("library run: %v", err)
	}
	wantOutputs(t, out, []int64{12})
}

func TestSQLiteLibraryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	rt := New(WithSQLiteStore(path), WithPersist())
	if _, err := rt.Run(`
DEFINE PROCEDURE "INC" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X + 1;
BLOCK 0: END
`, nil); err != nil {
		t.Fatalf("compile run: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rt2 := New(WithSQLiteStore(path))
	defer rt2.Close()
	out, err := rt2.Run("OUTPUT <= INC(41);", nil)
	if err != nil {
		t.Fatalf("library run: %v", err)
	}
	wantOutputs(t, out, []int64{42})
}

func TestRunContextCancellation(t *testing.T) {
	rt := New()
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out, err := rt.RunContext(ctx, `
OUTPUT <= 1;
MU-LOOP:
BLOCK 1: BEGIN
	CELL(1) <= 0;
BLOCK 1: END
`, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v, want ErrCancelled", err)
	}
	wantOutputs(t, out, []int64{1})
}

func TestIncomplete(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"OUTPUT <= 1;", false},
		{"OUTPUT <= 1", true},
		{"BLOCK 1: BEGIN", true},
		{"BLOCK 1: BEGIN\nOUTPUT <= 1;", true},
		{"OUTPUT <= ;", false}, // broken, not unfinished
		{`DEFINE PROCEDURE "F" [X]:`, true},
	}
	for _, c := range cases {
		if got := Incomplete(c.src); got != c.want {
			t.Errorf("Incomplete(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestSessionKeepsState(t *testing.T) {
	rt := New()
	defer rt.Close()

	sess, err := rt.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if _, err := sess.Eval("CELL(0) <= 5;"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	out, err := sess.Eval("OUTPUT <= CELL(0) * 2;")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	wantOutputs(t, out, []int64{10})
}

func TestSessionDefinitionsPersistAcrossInputs(t *testing.T) {
	rt := New()
	defer rt.Close()

	sess, err := rt.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if _, err := sess.Eval(`DEFINE PROCEDURE "HALVE" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X / 2;
BLOCK 0: END`); err != nil {
		t.Fatalf("Eval define: %v", err)
	}
	out, err := sess.Eval("OUTPUT <= HALVE(14);")
	if err != nil {
		t.Fatalf("Eval call: %v", err)
	}
	wantOutputs(t, out, []int64{7})
}
