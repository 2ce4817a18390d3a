// Package progress renders a stderr progress bar while sibyl lints a
// set of files. stdout is left untouched so piped report output stays
// clean.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Bar counts linted files. Tick may be called from worker goroutines.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New creates a bar sized to the number of files queued for linting.
func New(total int) *Bar {
	return newBar(os.Stderr, total)
}

func newBar(w io.Writer, total int) *Bar {
	return &Bar{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("linting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(25),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerPadding: ".",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)}
}

// Tick marks one file linted.
func (b *Bar) Tick() {
	_ = b.bar.Add(1)
}

// Done removes the bar from the terminal. The caller prints its own
// summary afterwards.
func (b *Bar) Done() {
	_ = b.bar.Finish()
	_ = b.bar.Clear()
}
