package reconcile

import "github.com/nao1215/casewatch/internal/model"

// Diff sets the delta fields of current against previous and reports whether
// any canonical counter differs. Equal counters get a zero delta, so calling
// Diff again with the same pair yields the same deltas.
func Diff(current, previous *model.StatusRecord) bool {
	changed := false

	current.InfectedDelta, changed = delta(current.Infected, previous.Infected, changed)
	current.ReleasedDelta, changed = delta(current.Released, previous.Released, changed)
	current.DeadDelta, changed = delta(current.Dead, previous.Dead, changed)

	return changed
}

// DiffSnapshot diffs current against the baseline of a loaded snapshot.
func DiffSnapshot(current *model.StatusRecord, previous model.Snapshot) bool {
	return Diff(current, previous.Baseline())
}

func delta(current, previous int, changed bool) (int, bool) {
	if current == previous {
		return 0, changed
	}
	return current - previous, true
}
