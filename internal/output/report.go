package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sibyl-dev/sibyl/pkg/models"
)

// LintReport adapts a models.Report for rendering.
type LintReport struct {
	Report *models.Report
}

func (r *LintReport) RenderData() any {
	return r.Report
}

func (r *LintReport) RenderText(w io.Writer, colored bool) error {
	for _, file := range r.Report.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintln(w, file.Path)
		for _, d := range file.Diagnostics {
			line := d.String()
			if colored {
				line = SeverityColor(string(d.Severity()), line)
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	counts := r.Report.CountBySeverity()
	fmt.Fprintf(w, "%d issue(s) found: %d error(s), %d warning(s), %d convention(s)\n",
		r.Report.TotalIssues,
		counts[models.SeverityError],
		counts[models.SeverityWarning],
		counts[models.SeverityConvention])
	return nil
}

func (r *LintReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Lint Report\n\n")
	for _, file := range r.Report.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		rows := make([][]string, 0, len(file.Diagnostics))
		for _, d := range file.Diagnostics {
			rows = append(rows, []string{d.Code, strconv.Itoa(d.Line), d.Message})
		}
		table := NewTable(file.Path, []string{"Code", "Line", "Message"}, rows, nil, nil)
		if err := table.RenderMarkdown(w); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Total issues: %d\n", r.Report.TotalIssues)
	return nil
}
