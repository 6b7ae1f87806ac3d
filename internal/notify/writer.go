package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/nao1215/casewatch/internal/config"
)

// WriterNotifier writes the message to an io.Writer.
type WriterNotifier struct {
	out io.Writer
}

// NewWriterNotifier creates a WriterNotifier writing to out.
func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

// Name returns "stdout".
func (n *WriterNotifier) Name() string {
	return string(config.NotifierStdout)
}

// Send writes text followed by a newline.
func (n *WriterNotifier) Send(_ context.Context, text string) error {
	if _, err := fmt.Fprintln(n.out, text); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}
