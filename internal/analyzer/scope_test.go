package analyzer

import "testing"

func newTracker() *ScopeTracker {
	return NewScopeTracker(map[string]struct{}{"print": {}, "len": {}})
}

func TestScopeDeclareAndResolve(t *testing.T) {
	s := newTracker()
	s.Declare("x", BindAssigned)

	if !s.Resolve("x", nil) {
		t.Error("x not resolved in module scope")
	}
	if s.Resolve("y", nil) {
		t.Error("undeclared y resolved")
	}
}

func TestScopeEnclosingVisible(t *testing.T) {
	s := newTracker()
	s.Declare("outer", BindAssigned)
	s.Push()
	s.Declare("inner", BindParameter)

	if !s.Resolve("outer", nil) {
		t.Error("enclosing binding not visible from inner scope")
	}
	if !s.Resolve("inner", nil) {
		t.Error("inner binding not visible")
	}

	s.Pop()
	if s.Resolve("inner", nil) {
		t.Error("inner binding survived pop")
	}
	if !s.Resolve("outer", nil) {
		t.Error("outer binding lost after pop")
	}
}

func TestModuleScopeNeverPopped(t *testing.T) {
	s := newTracker()
	s.Declare("x", BindAssigned)
	s.Pop()
	s.Pop()

	if s.Depth() != 1 {
		t.Errorf("depth = %d, want 1", s.Depth())
	}
	if !s.Resolve("x", nil) {
		t.Error("module binding lost")
	}
}

func TestGlobalSurvivesPop(t *testing.T) {
	s := newTracker()
	s.Push()
	s.DeclareGlobal("counter")
	s.Pop()

	if !s.Resolve("counter", nil) {
		t.Error("global declaration did not persist")
	}
}

func TestDeclareIfAbsentKeepsKind(t *testing.T) {
	s := newTracker()
	s.Declare("x", BindParameter)
	s.DeclareIfAbsent("x", BindAssigned)

	if got := s.stack[0]["x"]; got != BindParameter {
		t.Errorf("kind = %s, want %s", got, BindParameter)
	}
}

func TestResolveBuiltins(t *testing.T) {
	s := newTracker()
	if !s.Resolve("print", nil) {
		t.Error("builtin print not resolved")
	}
	if !s.IsBuiltin("len") {
		t.Error("IsBuiltin(len) = false")
	}
	if s.IsBuiltin("custom") {
		t.Error("IsBuiltin(custom) = true")
	}
}

func TestResolveThroughSymbolTable(t *testing.T) {
	s := newTracker()
	syms := NewSymbolTable()
	syms.AddClassName("Widget")
	syms.RecordImport("os", 1)

	if !s.Resolve("Widget", syms) {
		t.Error("class name not resolved")
	}
	if !s.Resolve("os", syms) {
		t.Error("import name not resolved")
	}
	if s.Resolve("Widget", nil) {
		t.Error("class name resolved without symbol table")
	}
}
