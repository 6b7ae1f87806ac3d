package provider

import (
	"fmt"

	"github.com/nao1215/casewatch/internal/config"
)

// FromConfig builds the enabled providers in configured order.
func FromConfig(cfg *config.Config, fetcher *Fetcher) ([]Provider, error) {
	if fetcher == nil {
		fetcher = NewFetcher(WithTimeout(cfg.Timeout), WithUserAgent(cfg.UserAgent))
	}

	sources := cfg.EnabledSources()
	providers := make([]Provider, 0, len(sources))
	for _, s := range sources {
		switch s.Name {
		case config.SourceNaver:
			providers = append(providers, NewNaver(fetcher, s.URL))
		case config.SourceMOHW:
			providers = append(providers, NewMOHW(fetcher, s.URL))
		case config.SourceSBS:
			providers = append(providers, NewSBS(fetcher, s.URL))
		default:
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, s.Name)
		}
	}
	return providers, nil
}
