// Package models defines the data types shared across sibyl.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Diagnostic is one reported finding: a rule code, a human-readable
// message, and the source position it was found at. Diagnostics are
// immutable once created; report ordering is insertion order.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
}

// String renders the diagnostic in the report format.
// Parse failures carry their position in the message itself.
func (d Diagnostic) String() string {
	if d.Code == CodeSyntaxError {
		return d.Code + ": " + d.Message
	}
	return fmt.Sprintf("%s: %s (line %d)", d.Code, d.Message, d.Line)
}

// CodeSyntaxError is the code reported when the source does not parse.
const CodeSyntaxError = "E999"

// Severity classifies a diagnostic by its code prefix.
type Severity string

const (
	SeverityError      Severity = "error"      // E codes
	SeverityWarning    Severity = "warning"    // W codes
	SeverityConvention Severity = "convention" // C codes
)

// Severity returns the severity bucket for the diagnostic's code.
func (d Diagnostic) Severity() Severity {
	switch {
	case strings.HasPrefix(d.Code, "E"):
		return SeverityError
	case strings.HasPrefix(d.Code, "W"):
		return SeverityWarning
	default:
		return SeverityConvention
	}
}

// FileReport holds the ordered diagnostics for a single file.
type FileReport struct {
	Path        string       `json:"path"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Report aggregates diagnostics across analyzed files.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Files       []FileReport `json:"files"`
	TotalIssues int          `json:"total_issues"`
}

// NewReport creates an empty report stamped with the current time.
func NewReport() *Report {
	return &Report{GeneratedAt: time.Now().UTC()}
}

// Add appends a file's diagnostics to the report.
func (r *Report) Add(path string, diags []Diagnostic) {
	r.Files = append(r.Files, FileReport{Path: path, Diagnostics: diags})
	r.TotalIssues += len(diags)
}

// CountBySeverity tallies diagnostics per severity bucket.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			counts[d.Severity()]++
		}
	}
	return counts
}
