package model

import "time"

// Candidate is one provider's contribution to a run.
// Record is nil when the provider was unavailable; Err then says why.
type Candidate struct {
	Provider string        `json:"provider"`
	Record   *StatusRecord `json:"record,omitempty"`
	Err      error         `json:"-"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Available reports whether the provider returned a record.
func (c Candidate) Available() bool {
	return c.Record != nil
}

// Run carries the state of one fetch/merge/diff/persist/notify pass.
type Run struct {
	// StartedAt is when the pass began.
	StartedAt time.Time

	// Force sends the notification even when nothing changed.
	Force bool

	// Candidates holds every provider result in fetch order.
	Candidates []Candidate

	// Current is the merged record; nil until the merge step succeeds.
	Current *StatusRecord

	// Previous is the snapshot loaded before the diff.
	Previous Snapshot

	// Changed is true when a canonical counter differs from Previous.
	Changed bool

	// Persisted is true when Current was written to the store.
	Persisted bool

	// Message is the rendered notification text, if one was built.
	Message string

	// Notified is true when the transport accepted the message.
	Notified bool

	// NotifyError holds the transport error text, if any.
	NotifyError string

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Error is the error that stopped the pass, if any.
	Error error
}

// NewRun creates the state for one pass.
func NewRun(force bool) *Run {
	return &Run{
		StartedAt:      time.Now(),
		Force:          force,
		Candidates:     make([]Candidate, 0),
		PerformedSteps: make([]string, 0),
	}
}

// ShouldNotify reports whether the notify step must send a message.
func (r *Run) ShouldNotify() bool {
	return r.Changed || r.Force
}

// AvailableCount returns how many providers produced a record.
func (r *Run) AvailableCount() int {
	n := 0
	for _, c := range r.Candidates {
		if c.Available() {
			n++
		}
	}
	return n
}
