package provider

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/casewatch/internal/config"
	"github.com/nao1215/casewatch/internal/model"
)

// NaverSourceLabel is the Source of records built from the NAVER search page.
const NaverSourceLabel = "NAVER"

// Naver scrapes the NAVER search result panel.
type Naver struct {
	fetcher *Fetcher
	url     string
}

// NewNaver creates a Naver provider. An empty url selects the default page.
func NewNaver(fetcher *Fetcher, url string) *Naver {
	if url == "" {
		url = config.DefaultNaverURL
	}
	return &Naver{fetcher: fetcher, url: url}
}

// Name returns "naver".
func (n *Naver) Name() string {
	return config.SourceNaver
}

// Fetch downloads and parses the page.
func (n *Naver) Fetch(ctx context.Context) (*model.StatusRecord, error) {
	doc, err := n.fetcher.Document(ctx, n.url)
	if err != nil {
		return nil, err
	}
	return ParseNaver(doc)
}

// ParseNaver reads every "p.txt" figure inside "div.graph_view".
func ParseNaver(doc *goquery.Document) (*model.StatusRecord, error) {
	view, err := requireFirst(doc.Selection, "div.graph_view")
	if err != nil {
		return nil, err
	}

	record := model.NewStatusRecord(NaverSourceLabel)
	figures := view.Find("p.txt")
	if figures.Length() == 0 {
		return nil, ErrNoFigures
	}

	err = eachSelection(figures, func(s *goquery.Selection) error {
		label, count, err := labelAndCount(s, "span.txt_sort", "strong.num")
		if err != nil {
			return err
		}
		record.SetCountByLabel(model.NaverLabels, label, count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
