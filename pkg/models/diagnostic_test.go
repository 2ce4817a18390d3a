package models

import (
	"encoding/json"
	"testing"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Code: "W0611", Message: "Unused import 'os'", Line: 3}
	want := "W0611: Unused import 'os' (line 3)"
	if d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}
}

func TestSyntaxErrorString(t *testing.T) {
	d := Diagnostic{
		Code:    CodeSyntaxError,
		Message: "SyntaxError: invalid syntax at line 2, column 6",
		Line:    2,
	}
	want := "E999: SyntaxError: invalid syntax at line 2, column 6"
	if d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}
}

func TestSeverity(t *testing.T) {
	cases := []struct {
		code string
		want Severity
	}{
		{"E999", SeverityError},
		{"E0602", SeverityError},
		{"W0611", SeverityWarning},
		{"W6001", SeverityWarning},
		{"C0103", SeverityConvention},
		{"C0200", SeverityConvention},
	}
	for _, c := range cases {
		d := Diagnostic{Code: c.code}
		if got := d.Severity(); got != c.want {
			t.Errorf("Severity(%s) = %s, want %s", c.code, got, c.want)
		}
	}
}

func TestReportAdd(t *testing.T) {
	r := NewReport()
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not stamped")
	}

	r.Add("a.py", []Diagnostic{{Code: "E0602", Line: 1}, {Code: "W0612", Line: 2}})
	r.Add("b.py", nil)
	r.Add("c.py", []Diagnostic{{Code: "C0103", Line: 5}})

	if len(r.Files) != 3 {
		t.Errorf("len(Files) = %d, want 3", len(r.Files))
	}
	if r.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", r.TotalIssues)
	}
}

func TestCountBySeverity(t *testing.T) {
	r := NewReport()
	r.Add("a.py", []Diagnostic{
		{Code: "E711", Line: 1},
		{Code: "E722", Line: 2},
		{Code: "W0702", Line: 2},
		{Code: "C0111", Line: 4},
	})

	counts := r.CountBySeverity()
	if counts[SeverityError] != 2 {
		t.Errorf("errors = %d, want 2", counts[SeverityError])
	}
	if counts[SeverityWarning] != 1 {
		t.Errorf("warnings = %d, want 1", counts[SeverityWarning])
	}
	if counts[SeverityConvention] != 1 {
		t.Errorf("conventions = %d, want 1", counts[SeverityConvention])
	}
}

func TestDiagnosticJSON(t *testing.T) {
	d := Diagnostic{Code: "W6001", Message: "File opened without 'with' statement", Line: 7}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Diagnostic
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %+v, want %+v", back, d)
	}
}
