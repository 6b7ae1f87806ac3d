package model

import "time"

// Snapshot is the result of loading the last stored record.
// Present is false when nothing has been stored yet (or the store could not
// be read); Record is only meaningful when Present is true.
type Snapshot struct {
	Present bool         `json:"present"`
	Record  StatusRecord `json:"record"`
	SavedAt time.Time    `json:"saved_at"`
}

// AbsentSnapshot returns a snapshot carrying no prior data.
func AbsentSnapshot() Snapshot {
	return Snapshot{}
}

// PresentSnapshot wraps a stored record.
func PresentSnapshot(record StatusRecord, savedAt time.Time) Snapshot {
	return Snapshot{Present: true, Record: record, SavedAt: savedAt}
}

// Baseline returns the record to diff against: the stored one when present,
// otherwise an all-zero record labelled DBSourceLabel.
func (s Snapshot) Baseline() *StatusRecord {
	if !s.Present {
		return NewStatusRecord(DBSourceLabel)
	}
	r := s.Record.Clone()
	r.Source = DBSourceLabel
	return r
}
