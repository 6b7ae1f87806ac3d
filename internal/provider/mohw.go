package provider

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/casewatch/internal/config"
	"github.com/nao1215/casewatch/internal/model"
)

// MOHWSourceLabel is the Source of records built from the ministry dashboard.
const MOHWSourceLabel = "보건복지부 코로나바이러스감염증-19 현황"

// MOHW scrapes the Ministry of Health and Welfare dashboard.
type MOHW struct {
	fetcher *Fetcher
	url     string
}

// NewMOHW creates a MOHW provider. An empty url selects the default page.
func NewMOHW(fetcher *Fetcher, url string) *MOHW {
	if url == "" {
		url = config.DefaultMOHWURL
	}
	return &MOHW{fetcher: fetcher, url: url}
}

// Name returns "mohw".
func (m *MOHW) Name() string {
	return config.SourceMOHW
}

// Fetch downloads and parses the page.
func (m *MOHW) Fetch(ctx context.Context) (*model.StatusRecord, error) {
	doc, err := m.fetcher.Document(ctx, m.url)
	if err != nil {
		return nil, err
	}
	return ParseMOHW(doc)
}

// ParseMOHW reads the dashboard inside "div.liveNumOuter".
// Today's figures always land in Extras; the cumulative list is classified
// with the general label table.
func ParseMOHW(doc *goquery.Document) (*model.StatusRecord, error) {
	outer, err := requireFirst(doc.Selection, "div.liveNumOuter")
	if err != nil {
		return nil, err
	}
	today, err := requireFirst(outer, "div.liveNum_today_new")
	if err != nil {
		return nil, err
	}

	record := model.NewStatusRecord(MOHWSourceLabel)
	todayItems := today.Find("li")
	totalItems := outer.Find("ul.liveNum li")
	if todayItems.Length()+totalItems.Length() == 0 {
		return nil, ErrNoFigures
	}

	err = eachSelection(todayItems, func(s *goquery.Selection) error {
		label, count, err := labelAndCount(s, "span[class*=subtit]", "span[class*=data]")
		if err != nil {
			return err
		}
		record.Extras.Set(model.NormalizeLabel(label), count)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachSelection(totalItems, func(s *goquery.Selection) error {
		label, count, err := labelAndCount(s, "strong.tit", "span.num")
		if err != nil {
			return err
		}
		record.SetCountByLabel(model.GeneralLabels, label, count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
