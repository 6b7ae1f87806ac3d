package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/casewatch/internal/model"
)

// NoSnapshotText is written when nothing has been stored yet.
const NoSnapshotText = "No snapshot stored yet. Run 'casewatch run' first."

// TextWriter outputs the notification text of a snapshot.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the snapshot as it would be sent, followed by the time it
// was stored.
func (w *TextWriter) Write(snapshot model.Snapshot) (int, error) {
	var sb strings.Builder

	if !snapshot.Present {
		sb.WriteString(NoSnapshotText)
		sb.WriteString("\n")
		return io.WriteString(w.output, sb.String())
	}

	sb.WriteString(BuildMessage(&snapshot.Record))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "saved at %s\n", snapshot.SavedAt.Local().Format("2006-01-02 15:04:05 MST"))

	return io.WriteString(w.output, sb.String())
}
