// Package model defines the data passed between the labelkit packages.
//
// A Reagent is one manifest entry. Processing turns it into a LabelReport
// carrying the normalized label and the matched GHS codes, and a batch
// of reports is folded into a Summary for output and storage.
//
// The types live apart from the packages that produce them so that
// pipeline, report and database can share them without import cycles.
package model
