package analyzer

import (
	"reflect"
	"testing"
)

func TestAssignmentOrderAndLastWrite(t *testing.T) {
	s := NewSymbolTable()
	s.RecordAssignment("b", 1)
	s.RecordAssignment("a", 2)
	s.RecordAssignment("b", 5)

	got := s.Assignments()
	want := []Assignment{{Name: "b", Line: 5}, {Name: "a", Line: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assignments() = %v, want %v", got, want)
	}
}

func TestUsageMarksImportUsed(t *testing.T) {
	s := NewSymbolTable()
	s.RecordImport("os", 1)

	if s.IsImportUsed("os") {
		t.Error("import used before any read")
	}
	s.RecordUsage("os", 3)
	if !s.IsImportUsed("os") {
		t.Error("read did not mark import used")
	}
	if !s.IsUsed("os") {
		t.Error("IsUsed(os) = false")
	}
}

func TestImportDedupAndOrder(t *testing.T) {
	s := NewSymbolTable()
	s.RecordImport("sys", 1)
	s.RecordImport("os", 2)
	s.RecordImport("sys", 1)
	s.RecordImport("sys", 9)

	got := s.Imports()
	want := []ImportRecord{{Name: "sys", Line: 1}, {Name: "os", Line: 2}, {Name: "sys", Line: 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Imports() = %v, want %v", got, want)
	}
}

func TestMarkImportUsedIgnoresUnknown(t *testing.T) {
	s := NewSymbolTable()
	s.MarkImportUsed("never_imported")
	if s.IsImportUsed("never_imported") {
		t.Error("unknown name marked used")
	}
}

func TestFunctionReturnRecord(t *testing.T) {
	s := NewSymbolTable()
	s.BeginFunction("pick", 3)
	s.RecordReturn("pick", true)
	s.RecordReturn("pick", false)

	rec := s.Function("pick")
	if rec == nil {
		t.Fatal("Function(pick) = nil")
	}
	if rec.Line != 3 {
		t.Errorf("line = %d, want 3", rec.Line)
	}
	if !reflect.DeepEqual(rec.Returns, []bool{true, false}) {
		t.Errorf("returns = %v", rec.Returns)
	}

	s.BeginFunction("pick", 10)
	if got := s.Function("pick"); len(got.Returns) != 0 {
		t.Errorf("redefinition kept old returns: %v", got.Returns)
	}
}

func TestRecordReturnUnknownFunction(t *testing.T) {
	s := NewSymbolTable()
	s.RecordReturn("ghost", true)
	if s.Function("ghost") != nil {
		t.Error("return on unknown function created a record")
	}
}

func TestClassNames(t *testing.T) {
	s := NewSymbolTable()
	s.AddClassName("Widget")
	if !s.IsClassName("Widget") {
		t.Error("IsClassName(Widget) = false")
	}
	if s.IsClassName("widget") {
		t.Error("class names should be case sensitive")
	}
}
