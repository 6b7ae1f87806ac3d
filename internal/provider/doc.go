// Package provider scrapes the public status pages into StatusRecords.
//
// # Components
//
//   - Fetcher: resty-based HTTP client with a per-fetch timeout, a browser
//     User-Agent and charset decoding driven by the Content-Type header
//   - Provider: one page and its parser (naver, mohw, sbs)
//   - Gather: calls providers one after another and turns every failure into
//     an absent candidate
//
// A provider never lets an error escape as anything but a returned value:
// transport errors, non-200 responses, timeouts, missing elements and
// malformed counts all make the source unavailable for this run. A page that
// parses but yields no figures is treated the same way (ErrNoFigures), since
// that almost always means the markup changed.
//
// # Usage
//
//	fetcher := provider.NewFetcher(provider.WithTimeout(10 * time.Second))
//	providers, err := provider.FromConfig(cfg, fetcher)
//	candidates := provider.Gather(ctx, providers, logger)
package provider
