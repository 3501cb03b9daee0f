package eval

import "testing"

func TestEnvLookupInnermostFirst(t *testing.T) {
	env := NewEnv()
	env.Define("X", 1)
	env.Push()
	env.Define("X", 2)

	if v, ok := env.Get("X"); !ok || v != 2 {
		t.Errorf("Get(X) = %d, %v; want 2, true", v, ok)
	}
	env.Pop()
	if v, ok := env.Get("X"); !ok || v != 1 {
		t.Errorf("after Pop, Get(X) = %d, %v; want 1, true", v, ok)
	}
}

func TestEnvSetUpdatesDefiningScope(t *testing.T) {
	env := NewEnv()
	env.Define("X", 1)
	env.Push()
	env.Set("X", 5)
	env.Pop()

	if v, _ := env.Get("X"); v != 5 {
		t.Errorf("Get(X) = %d, want 5", v)
	}
}

func TestEnvSetCreatesInInnermost(t *testing.T) {
	env := NewEnv()
	env.Push()
	env.Set("Y", 3)
	if v, ok := env.Get("Y"); !ok || v != 3 {
		t.Errorf("Get(Y) = %d, %v; want 3, true", v, ok)
	}
	env.Pop()
	if _, ok := env.Get("Y"); ok {
		t.Error("Y should be unbound after its defining scope is popped")
	}
}
