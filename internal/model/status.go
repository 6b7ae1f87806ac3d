package model

import (
	"fmt"
	"strings"
)

// DBSourceLabel is the source label of the "no prior data" baseline record.
const DBSourceLabel = "db"

// StatusRecord is one view of the case counters at a point in time.
// A provider fills it from a single page; the merge step combines several
// into one whose Source lists every contributing provider.
type StatusRecord struct {
	// Source is the human-readable origin label.
	// After a merge it is a comma-joined list in input order.
	Source string `json:"source"`

	// Infected is the cumulative number of confirmed cases.
	Infected int `json:"infected"`

	// Released is the cumulative number of recoveries.
	Released int `json:"released"`

	// Dead is the cumulative number of deaths.
	Dead int `json:"dead"`

	// InfectedDelta is Infected minus the previously stored value.
	InfectedDelta int `json:"infected_delta"`

	// ReleasedDelta is Released minus the previously stored value.
	ReleasedDelta int `json:"released_delta"`

	// DeadDelta is Dead minus the previously stored value.
	DeadDelta int `json:"dead_delta"`

	// Extras holds source-specific figures that do not map to a counter.
	Extras Extras `json:"extras"`
}

// NewStatusRecord returns an empty record labelled with source.
func NewStatusRecord(source string) *StatusRecord {
	return &StatusRecord{Source: source}
}

// SetCountByLabel routes count into the counter that table assigns to label,
// or into Extras when the label is not recognised.
func (r *StatusRecord) SetCountByLabel(table LabelTable, label string, count int) {
	label = NormalizeLabel(label)
	switch table.Classify(label) {
	case BucketInfected:
		r.Infected = count
	case BucketReleased:
		r.Released = count
	case BucketDead:
		r.Dead = count
	default:
		r.Extras.Set(label, count)
	}
}

// SourceLabels splits Source into the individual origin labels.
func (r *StatusRecord) SourceLabels() []string {
	if r.Source == "" {
		return nil
	}
	return strings.Split(r.Source, ",")
}

// Clone returns a deep copy of the record.
func (r *StatusRecord) Clone() *StatusRecord {
	c := *r
	c.Extras = r.Extras.Clone()
	return &c
}

// ResetDeltas zeroes the three delta fields.
func (r *StatusRecord) ResetDeltas() {
	r.InfectedDelta = 0
	r.ReleasedDelta = 0
	r.DeadDelta = 0
}

// String returns a one-line summary used in log output.
// ex) infected=5(+1),released=3(+1),dead=2(+0),extras=[검사중=12],source=NAVER
func (r *StatusRecord) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "infected=%d(%s),released=%d(%s),dead=%d(%s)",
		r.Infected, SignedDelta(r.InfectedDelta),
		r.Released, SignedDelta(r.ReleasedDelta),
		r.Dead, SignedDelta(r.DeadDelta),
	)
	if r.Extras.Len() > 0 {
		sb.WriteString(",extras=[")
		first := true
		r.Extras.Each(func(label string, count int) {
			if !first {
				sb.WriteString(" ")
			}
			first = false
			fmt.Fprintf(&sb, "%s=%d", label, count)
		})
		sb.WriteString("]")
	}
	sb.WriteString(",source=")
	sb.WriteString(r.Source)
	return sb.String()
}

// SignedDelta formats a delta with an explicit sign; zero renders as "+0".
func SignedDelta(delta int) string {
	if delta < 0 {
		return fmt.Sprintf("%d", delta)
	}
	return fmt.Sprintf("+%d", delta)
}
