package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/casewatch/internal/config"
)

// Fetcher downloads source pages and parses them into goquery documents.
type Fetcher struct {
	client    *resty.Client
	timeout   time.Duration
	userAgent string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout bounds each fetch, including reading the body.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHTTPClient replaces the underlying http.Client, e.g. with one from
// httptest.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = resty.NewWithClient(c)
	}
}

// NewFetcher creates a Fetcher with the default timeout and User-Agent.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    resty.New(),
		timeout:   config.DefaultTimeout,
		userAgent: config.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.client.
		SetTimeout(f.timeout).
		SetHeader("User-Agent", f.userAgent)

	return f
}

// Document fetches url and parses the body as HTML.
// The body is decoded according to the Content-Type charset, falling back
// to sniffing, so EUC-KR pages arrive as UTF-8.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, res.StatusCode())
	}

	body, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}
