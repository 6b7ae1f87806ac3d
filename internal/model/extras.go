package model

import (
	"encoding/json"
	"fmt"
)

// Extras is an insertion-ordered mapping from label to count.
// Setting a label that already exists overwrites the count in place,
// so iteration order is the order in which labels were first seen.
// The zero value is an empty mapping ready to use.
type Extras struct {
	labels []string
	counts map[string]int
}

// ExtraEntry is one label/count pair of Extras.
type ExtraEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// NewExtras builds Extras from entries, applying them in order.
func NewExtras(entries ...ExtraEntry) Extras {
	var e Extras
	for _, entry := range entries {
		e.Set(entry.Label, entry.Count)
	}
	return e
}

// Set stores count under label.
func (e *Extras) Set(label string, count int) {
	if e.counts == nil {
		e.counts = make(map[string]int)
	}
	if _, ok := e.counts[label]; !ok {
		e.labels = append(e.labels, label)
	}
	e.counts[label] = count
}

// Get returns the count stored under label.
func (e Extras) Get(label string) (int, bool) {
	count, ok := e.counts[label]
	return count, ok
}

// Len returns the number of labels.
func (e Extras) Len() int {
	return len(e.labels)
}

// Labels returns a copy of the labels in iteration order.
func (e Extras) Labels() []string {
	out := make([]string, len(e.labels))
	copy(out, e.labels)
	return out
}

// Entries returns the label/count pairs in iteration order.
func (e Extras) Entries() []ExtraEntry {
	out := make([]ExtraEntry, 0, len(e.labels))
	for _, label := range e.labels {
		out = append(out, ExtraEntry{Label: label, Count: e.counts[label]})
	}
	return out
}

// Each calls fn for every pair in iteration order.
func (e Extras) Each(fn func(label string, count int)) {
	for _, label := range e.labels {
		fn(label, e.counts[label])
	}
}

// Clone returns an independent copy.
func (e Extras) Clone() Extras {
	var c Extras
	e.Each(c.Set)
	return c
}

// Equal reports whether both mappings hold the same pairs in the same order.
func (e Extras) Equal(other Extras) bool {
	if len(e.labels) != len(other.labels) {
		return false
	}
	for i, label := range e.labels {
		if other.labels[i] != label || other.counts[label] != e.counts[label] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes Extras as an array of entries to keep the order.
func (e Extras) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Entries())
}

// UnmarshalJSON decodes the array form written by MarshalJSON.
func (e *Extras) UnmarshalJSON(data []byte) error {
	var entries []ExtraEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode extras: %w", err)
	}
	*e = NewExtras(entries...)
	return nil
}
