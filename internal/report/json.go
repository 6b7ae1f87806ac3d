package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/casewatch/internal/database"
	"github.com/nao1215/casewatch/internal/model"
)

// JSONWriter outputs snapshots and history in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the snapshot as JSON.
func (w *JSONWriter) Write(snapshot model.Snapshot) (int, error) {
	return w.encode(snapshot)
}

// WriteHistory outputs stored runs as a JSON array.
func (w *JSONWriter) WriteHistory(entries []database.HistoryRecord) (int, error) {
	if entries == nil {
		entries = []database.HistoryRecord{}
	}
	return w.encode(entries)
}

func (w *JSONWriter) encode(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, "", w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to encode JSON: %w", err)
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
