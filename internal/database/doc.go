// Package database stores the last known status snapshot in SQLite.
//
// The SnapshotDB keeps two tables:
//   - snapshot: a single row (id = 1) holding the latest merged record
//   - history: every stored record with its changed flag, append-only
//
// The snapshot row is overwritten on every run, whether or not the numbers
// changed, so the next run always diffs against the most recent fetch.
//
// SQLite is provided by modernc.org/sqlite, which needs no CGO. WAL mode and
// a busy timeout let overlapping cron invocations wait for each other instead
// of failing or corrupting the file.
package database
