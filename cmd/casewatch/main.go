// Package main provides the entry point for the casewatch CLI.
//
// casewatch scrapes public COVID-19 status pages, compares the merged
// numbers with the last stored snapshot and broadcasts a message when they
// change. It runs one pass per invocation; schedule it with cron or a
// systemd timer.
//
// Usage:
//
//	casewatch run
//	casewatch run --force-alert --db-path /var/lib/casewatch/status.db
//
// See --help for all available options.
package main

func main() {
	Execute()
}
