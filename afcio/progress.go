package afcio

import (
	"fmt"
	"io"
)

// ProgressWriter emits spec.md §6's progress file contract: each update
// overwrites the file with two lines, `percent\nmessage`. The writer
// itself does not own file truncation/seeking — the caller supplies an
// io.Writer positioned at the start of a file it truncates per update
// (e.g. via os.Create), keeping this package free of file-lifecycle
// policy.
type ProgressWriter struct {
	w io.Writer
}

// NewProgressWriter wraps w.
func NewProgressWriter(w io.Writer) *ProgressWriter {
	return &ProgressWriter{w: w}
}

// Report writes one percent/message update. percent is clamped to
// [0, 100].
func (p *ProgressWriter) Report(percent int, message string) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	_, err := fmt.Fprintf(p.w, "%d\n%s\n", percent, message)
	return err
}
