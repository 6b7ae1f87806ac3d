// Package pipeline runs one fetch/merge/diff/persist/notify pass.
//
// Each stage is a Step that reads and updates the shared model.Run:
//
//	FETCH → MERGE → LOAD_PREVIOUS → DIFF → PERSIST → NOTIFY (or skip)
//
// The pipeline stops at the first step that returns an error. Only MERGE
// does so, when every source was unavailable; the pass then ends before the
// stored snapshot is read or written. Load, store and notification failures
// are logged by their steps and the pass carries on.
//
// There is no retry and no loop: an external scheduler starts the next pass.
package pipeline
