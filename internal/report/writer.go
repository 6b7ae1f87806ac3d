package report

import (
	"io"

	"github.com/nao1215/casewatch/internal/model"
)

// Writer renders a stored snapshot.
type Writer interface {
	// Write outputs the snapshot to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(snapshot model.Snapshot) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
