package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/casewatch/internal/model"
)

// Provider errors.
var (
	// ErrUnexpectedStatus is returned when a page answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrElementNotFound is returned when a required element is missing.
	ErrElementNotFound = errors.New("required element not found")

	// ErrInvalidCount is returned when a count has no digits.
	ErrInvalidCount = errors.New("invalid count")

	// ErrUnexpectedLayout is returned when an element's text does not have
	// the expected label/count shape.
	ErrUnexpectedLayout = errors.New("unexpected layout")

	// ErrNoFigures is returned when a page parses but yields no figures.
	ErrNoFigures = errors.New("no figures found")

	// ErrProviderPanic is returned when a parser panics.
	ErrProviderPanic = errors.New("provider panicked")
)

// Provider fetches one external page and parses it into a StatusRecord.
type Provider interface {
	// Name returns the configuration name of the provider (e.g. "naver").
	Name() string

	// Fetch retrieves and parses the page.
	Fetch(ctx context.Context) (*model.StatusRecord, error)
}

// Gather calls every provider in order and returns one candidate each.
// Failed providers yield a candidate with a nil Record and the error;
// nothing is propagated to the caller.
func Gather(ctx context.Context, providers []Provider, logger *slog.Logger) []model.Candidate {
	if logger == nil {
		logger = slog.Default()
	}

	candidates := make([]model.Candidate, 0, len(providers))
	for _, p := range providers {
		start := time.Now()
		record, err := safeFetch(ctx, p)
		c := model.Candidate{
			Provider: p.Name(),
			Elapsed:  time.Since(start),
		}

		if err != nil {
			c.Err = err
			logger.Warn("source unavailable",
				"provider", p.Name(),
				"elapsed", c.Elapsed.Round(time.Millisecond),
				"error", err,
			)
		} else {
			c.Record = record
			logger.Info("source fetched",
				"provider", p.Name(),
				"elapsed", c.Elapsed.Round(time.Millisecond),
				"record", record.String(),
			)
		}

		candidates = append(candidates, c)
	}

	return candidates
}

// safeFetch calls p.Fetch and converts a panic or a nil record into an error.
func safeFetch(ctx context.Context, p Provider) (record *model.StatusRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("%w: %s: %v", ErrProviderPanic, p.Name(), r)
		}
	}()

	record, err = p.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if record == nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrNoFigures)
	}
	return record, nil
}
