package eval

import (
	"reflect"
	"testing"

	"nickandperla.net/floop/internal/parser"
)

func defs(t *testing.T, src string) *ProcTable {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	table := NewProcTable()
	for _, d := range prog.Procs {
		table.Define(d)
	}
	return table
}

func TestDefineReplaces(t *testing.T) {
	table := defs(t, `DEFINE PROCEDURE "F" [X]:
BLOCK 0: BEGIN
	OUTPUT <= X;
BLOCK 0: END`)

	// Later units shadow earlier definitions of the same name.
	prog, err := parser.Parse(`DEFINE PROCEDURE "F" [A, B]:
BLOCK 0: BEGIN
	OUTPUT <= A + B;
BLOCK 0: END`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	table.Define(prog.Procs[0])

	got, ok := table.Lookup("F")
	if !ok {
		t.Fatal("Lookup(F) failed")
	}
	if len(got.Params) != 2 {
		t.Errorf("F has %d params, want 2 after replace", len(got.Params))
	}
}

func TestNamesSorted(t *testing.T) {
	table := defs(t, `DEFINE PROCEDURE "ZZ" []:
BLOCK 0: BEGIN
	OUTPUT <= 1;
BLOCK 0: END
DEFINE PROCEDURE "AA" []:
BLOCK 0: BEGIN
	OUTPUT <= 2;
BLOCK 0: END`)

	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	if !reflect.DeepEqual(table.Names(), []string{"AA", "ZZ"}) {
		t.Errorf("Names = %v, want [AA ZZ]", table.Names())
	}
}
