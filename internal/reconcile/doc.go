// Package reconcile combines provider records into one current record and
// compares it against the previously stored one.
//
// Merge takes the maximum of each canonical counter across the available
// records, joins their source labels in input order, and unions their extras
// with the later record winning on a label collision. Diff fills the signed
// delta fields and reports whether any canonical counter changed. Extras are
// never compared.
package reconcile
