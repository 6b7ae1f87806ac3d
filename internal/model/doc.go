// Package model defines the data structures shared by the casewatch packages.
//
// This package contains the following main types:
//   - StatusRecord: One source's (or the merged) view of the case counters
//   - Extras: An insertion-ordered label to count mapping for non-canonical figures
//   - LabelTable: An immutable lookup that routes scraped labels to counters
//   - Snapshot: The tagged result of loading the last stored record
//   - Run: The state carried through a single fetch/merge/diff/notify pass
//
// The models are serializable to JSON for the snapshot store and report output.
package model
