package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/casewatch/internal/config"
)

// Notification errors.
var (
	// ErrMissingToken is returned when the LINE channel access token is empty.
	ErrMissingToken = errors.New("LINE channel access token is not set")

	// ErrMissingRecipients is returned when email has no recipients.
	ErrMissingRecipients = errors.New("no email recipients configured")

	// ErrSendFailed is returned when the transport rejects the message.
	ErrSendFailed = errors.New("notification rejected")
)

// Notifier sends a text message to every subscriber of a channel.
type Notifier interface {
	// Name returns the transport name for logging.
	Name() string

	// Send delivers text. A returned error never aborts the run.
	Send(ctx context.Context, text string) error
}

// New selects the transport configured in cfg. Dry runs always write to out
// (stdout when nil) instead of contacting a remote service.
func New(cfg *config.Config, out io.Writer) (Notifier, error) {
	if out == nil {
		out = os.Stdout
	}
	if cfg.DryRun {
		return NewWriterNotifier(out), nil
	}

	switch cfg.Notifier.Type {
	case config.NotifierLine:
		return NewLineNotifier(
			cfg.Notifier.Line.ChannelAccessToken,
			WithEndpoint(cfg.Notifier.Line.Endpoint),
			WithTimeout(cfg.Timeout),
		), nil
	case config.NotifierEmail:
		return NewEmailNotifier(cfg.Notifier.Email), nil
	case config.NotifierStdout:
		return NewWriterNotifier(out), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownNotifier, cfg.Notifier.Type)
	}
}
