package reconcile

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/nao1215/casewatch/internal/model"
)

// ErrNoSources is returned by Merge when every candidate is absent.
var ErrNoSources = errors.New("all sources unavailable")

// Merge combines the present records into a new one. Nil entries are skipped.
// The inputs are not modified and the delta fields of the result are zero.
func Merge(records []*model.StatusRecord) (*model.StatusRecord, error) {
	present := lo.Filter(records, func(r *model.StatusRecord, _ int) bool {
		return r != nil
	})
	if len(present) == 0 {
		return nil, ErrNoSources
	}

	sources := lo.Map(present, func(r *model.StatusRecord, _ int) string {
		return r.Source
	})
	merged := model.NewStatusRecord(strings.Join(sources, ","))

	merged.Infected = lo.Max(lo.Map(present, func(r *model.StatusRecord, _ int) int { return r.Infected }))
	merged.Released = lo.Max(lo.Map(present, func(r *model.StatusRecord, _ int) int { return r.Released }))
	merged.Dead = lo.Max(lo.Map(present, func(r *model.StatusRecord, _ int) int { return r.Dead }))

	for _, r := range present {
		r.Extras.Each(merged.Extras.Set)
	}

	return merged, nil
}

// MergeCandidates merges the records of the available candidates.
func MergeCandidates(candidates []model.Candidate) (*model.StatusRecord, error) {
	return Merge(lo.Map(candidates, func(c model.Candidate, _ int) *model.StatusRecord {
		return c.Record
	}))
}
