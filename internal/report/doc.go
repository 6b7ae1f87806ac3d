// Package report renders status records for people and tools.
//
// BuildMessage produces the fixed Korean notification text. The writers
// render a stored snapshot for the show command:
//   - TextWriter: the notification text plus when it was stored
//   - MarkdownWriter: counters table, extras and sources lists
//   - JSONWriter: structured output for tool integration
//
// HistoryTable renders stored runs as a terminal table.
//
// Writers implement the Writer interface so the show command can pick one
// by flag.
package report
