package provider

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/casewatch/internal/config"
	"github.com/nao1215/casewatch/internal/model"
)

// SBSSourceLabel is the Source of records built from the SBS data page.
const SBSSourceLabel = "SBS 데이터저널리즘팀 마부작침"

// SBS scrapes the SBS data journalism page.
type SBS struct {
	fetcher *Fetcher
	url     string
}

// NewSBS creates an SBS provider. An empty url selects the default page.
func NewSBS(fetcher *Fetcher, url string) *SBS {
	if url == "" {
		url = config.DefaultSBSURL
	}
	return &SBS{fetcher: fetcher, url: url}
}

// Name returns "sbs".
func (s *SBS) Name() string {
	return config.SourceSBS
}

// Fetch downloads and parses the page.
func (s *SBS) Fetch(ctx context.Context) (*model.StatusRecord, error) {
	doc, err := s.fetcher.Document(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return ParseSBS(doc)
}

// ParseSBS reads every "div.currentbox". Each box must contain exactly two
// non-blank lines once spaces are removed: the label and the count.
func ParseSBS(doc *goquery.Document) (*model.StatusRecord, error) {
	boxes := doc.Find("div.currentbox")
	if boxes.Length() == 0 {
		return nil, fmt.Errorf("%w: div.currentbox", ErrElementNotFound)
	}

	record := model.NewStatusRecord(SBSSourceLabel)
	err := eachSelection(boxes, func(s *goquery.Selection) error {
		lines := textLines(nodeText(s))
		if len(lines) != 2 {
			return fmt.Errorf("%w: currentbox has %d lines, want 2", ErrUnexpectedLayout, len(lines))
		}
		count, err := parseCount(lines[1])
		if err != nil {
			return err
		}
		record.SetCountByLabel(model.GeneralLabels, lines[0], count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
