package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Bucket identifies where a scraped figure is stored.
type Bucket int

const (
	// BucketExtra means the label is not a canonical counter.
	BucketExtra Bucket = iota

	// BucketInfected is the cumulative confirmed-case counter.
	BucketInfected

	// BucketReleased is the cumulative recovery counter.
	BucketReleased

	// BucketDead is the cumulative death counter.
	BucketDead
)

// String returns the bucket name.
func (b Bucket) String() string {
	switch b {
	case BucketInfected:
		return "infected"
	case BucketReleased:
		return "released"
	case BucketDead:
		return "dead"
	default:
		return "extra"
	}
}

// LabelTable maps recognised label synonyms to counters.
// Build one with NewLabelTable; it is read-only afterwards.
type LabelTable struct {
	buckets map[string]Bucket
}

// NewLabelTable builds a table from synonym lists per counter.
func NewLabelTable(infected, released, dead []string) LabelTable {
	t := LabelTable{buckets: make(map[string]Bucket)}
	for _, l := range infected {
		t.buckets[NormalizeLabel(l)] = BucketInfected
	}
	for _, l := range released {
		t.buckets[NormalizeLabel(l)] = BucketReleased
	}
	for _, l := range dead {
		t.buckets[NormalizeLabel(l)] = BucketDead
	}
	return t
}

// Classify returns the counter for label, or BucketExtra.
func (t LabelTable) Classify(label string) Bucket {
	if b, ok := t.buckets[NormalizeLabel(label)]; ok {
		return b
	}
	return BucketExtra
}

// NormalizeLabel trims whitespace and converts the label to NFC, so a
// page serving decomposed Hangul still matches the synonym tables.
func NormalizeLabel(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

var (
	// GeneralLabels is the synonym table shared by most Korean sources.
	GeneralLabels = NewLabelTable(
		[]string{"확진자", "확진환자"},
		[]string{"격리해제", "완치자"},
		[]string{"사망자"},
	)

	// NaverLabels is the stricter table used for the NAVER search widget.
	NaverLabels = NewLabelTable(
		[]string{"확진환자"},
		[]string{"격리해제"},
		[]string{"사망자"},
	)
)
