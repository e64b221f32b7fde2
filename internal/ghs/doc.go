// Package ghs holds the GHS hazard pictogram catalog and the keyword
// classifier that maps free-text hazard phrases to pictogram codes.
//
// The catalog is fixed: nine codes, GHS01 through GHS09, each with a
// short English name. Classify scans phrases against an ordered rule
// table and returns every code whose keyword occurs in a phrase. It
// does not deduplicate; use Dedup when a set is needed.
package ghs
