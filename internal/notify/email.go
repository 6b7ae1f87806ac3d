package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/nao1215/casewatch/internal/config"
)

// SendFunc delivers a composed mail. It matches (*email.Email).Send so tests
// can capture mail without an SMTP server.
type SendFunc func(addr string, auth smtp.Auth, mail *email.Email) error

// EmailNotifier sends the message as one mail to every configured recipient.
type EmailNotifier struct {
	cfg  config.EmailConfig
	send SendFunc
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSendFunc replaces the SMTP delivery function.
func WithSendFunc(fn SendFunc) EmailOption {
	return func(n *EmailNotifier) {
		n.send = fn
	}
}

// NewEmailNotifier creates an EmailNotifier.
func NewEmailNotifier(cfg config.EmailConfig, opts ...EmailOption) *EmailNotifier {
	if cfg.Port == 0 {
		cfg.Port = config.DefaultSMTPPort
	}
	if cfg.Subject == "" {
		cfg.Subject = config.DefaultEmailSubject
	}

	n := &EmailNotifier{
		cfg: cfg,
		send: func(addr string, auth smtp.Auth, mail *email.Email) error {
			return mail.Send(addr, auth)
		},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Name returns "email".
func (n *EmailNotifier) Name() string {
	return string(config.NotifierEmail)
}

// Send mails text to the recipient list. When the server does not offer
// AUTH, the mail is retried without credentials.
func (n *EmailNotifier) Send(ctx context.Context, text string) error {
	if len(n.cfg.To) == 0 {
		return ErrMissingRecipients
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	mail := email.NewEmail()
	mail.From = n.cfg.From
	if mail.From == "" {
		mail.From = n.cfg.Username
	}
	mail.To = n.cfg.To
	mail.Subject = n.cfg.Subject
	mail.Text = []byte(text)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	err := n.send(n.cfg.Addr(), auth, mail)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = n.send(n.cfg.Addr(), nil, mail)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}
