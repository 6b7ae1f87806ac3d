package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nao1215/casewatch/internal/config"
)

// LineMaxTextLength is the longest text message LINE accepts, in characters.
const LineMaxTextLength = 5000

const broadcastPath = "/v2/bot/message/broadcast"

// LineNotifier broadcasts through the LINE Messaging API.
type LineNotifier struct {
	client   *resty.Client
	token    string
	endpoint string
	timeout  time.Duration
}

// LineOption configures a LineNotifier.
type LineOption func(*LineNotifier)

// WithEndpoint overrides the Messaging API base URL. Empty keeps the default.
func WithEndpoint(endpoint string) LineOption {
	return func(n *LineNotifier) {
		if endpoint != "" {
			n.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithTimeout bounds the broadcast call.
func WithTimeout(d time.Duration) LineOption {
	return func(n *LineNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) LineOption {
	return func(n *LineNotifier) {
		n.client = resty.NewWithClient(c)
	}
}

// NewLineNotifier creates a LineNotifier authenticating with token.
func NewLineNotifier(token string, opts ...LineOption) *LineNotifier {
	n := &LineNotifier{
		client:   resty.New(),
		token:    token,
		endpoint: config.DefaultLineEndpoint,
		timeout:  config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(n)
	}

	n.client.SetTimeout(n.timeout)
	return n
}

// Name returns "line".
func (n *LineNotifier) Name() string {
	return string(config.NotifierLine)
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type broadcastRequest struct {
	Messages []textMessage `json:"messages"`
}

type lineErrorResponse struct {
	Message string `json:"message"`
}

// Send broadcasts text to every friend of the bot.
// Texts longer than LineMaxTextLength are truncated.
func (n *LineNotifier) Send(ctx context.Context, text string) error {
	if n.token == "" {
		return ErrMissingToken
	}

	body := broadcastRequest{
		Messages: []textMessage{{Type: "text", Text: truncate(text, LineMaxTextLength)}},
	}

	res, err := n.client.R().
		SetContext(ctx).
		SetAuthToken(n.token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(n.endpoint + broadcastPath)
	if err != nil {
		return fmt.Errorf("failed to broadcast: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		var lineErr lineErrorResponse
		if json.Unmarshal(res.Body(), &lineErr) == nil && lineErr.Message != "" {
			return fmt.Errorf("%w: LINE returned %d: %s", ErrSendFailed, res.StatusCode(), lineErr.Message)
		}
		return fmt.Errorf("%w: LINE returned %d", ErrSendFailed, res.StatusCode())
	}
	return nil
}

// truncate shortens s to at most limit characters.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
