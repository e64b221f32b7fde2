package model

import (
	"sort"
	"time"
)

// CodeCount is the number of reagents carrying a GHS code.
type CodeCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary aggregates a batch of label reports.
type Summary struct {
	// DateGenerated is when the summary was built.
	DateGenerated time.Time `json:"date_generated"`

	// Total is the number of reports.
	Total int `json:"total"`

	// Labeled counts reports with a non-empty normalized label.
	Labeled int `json:"labeled"`

	// Empty counts reports whose label normalized to nothing.
	Empty int `json:"empty"`

	// Failed counts reports with an error.
	Failed int `json:"failed"`

	// Cancelled counts reports whose processing was interrupted. They
	// are not counted as labeled, empty or failed.
	Cancelled int `json:"cancelled"`

	// Unclassified counts finished reports with no hazard code.
	Unclassified int `json:"unclassified"`

	// Codes counts reagents per code, each reagent at most once per
	// code, sorted by code.
	Codes []CodeCount `json:"codes,omitempty"`

	// Reports are the underlying reports in input order.
	Reports []*LabelReport `json:"reports"`
}

// NewSummary builds a summary. nameOf maps a code to its display name
// and may be nil. Nil reports are skipped.
func NewSummary(reports []*LabelReport, nameOf func(code string) string) *Summary {
	s := &Summary{
		DateGenerated: time.Now(),
		Reports:       make([]*LabelReport, 0, len(reports)),
	}

	counts := make(map[string]int)
	for _, r := range reports {
		if r == nil {
			continue
		}
		s.Reports = append(s.Reports, r)
		s.Total++

		switch {
		case r.Cancelled:
			s.Cancelled++
		case r.Failed():
			s.Failed++
		case r.HasLabel():
			s.Labeled++
		default:
			s.Empty++
		}

		unique := r.UniqueHazards()
		if len(unique) == 0 && !r.Cancelled {
			s.Unclassified++
		}
		for _, code := range unique {
			counts[code]++
		}
	}

	for code, n := range counts {
		cc := CodeCount{Code: code, Count: n}
		if nameOf != nil {
			cc.Name = nameOf(code)
		}
		s.Codes = append(s.Codes, cc)
	}
	sort.Slice(s.Codes, func(i, j int) bool { return s.Codes[i].Code < s.Codes[j].Code })

	return s
}

// HasHazards reports whether any reagent carries a code.
func (s *Summary) HasHazards() bool {
	return len(s.Codes) > 0
}
