package model

import "time"

// HazardMatch records that a phrase produced a GHS code.
type HazardMatch struct {
	// Code is the GHS identifier, e.g. "GHS02".
	Code string `json:"code"`

	// Name is the hazard name from the catalog.
	Name string `json:"name"`

	// Keyword is the rule keyword that matched.
	Keyword string `json:"keyword"`

	// Phrase is the input phrase that contained the keyword.
	Phrase string `json:"phrase"`
}

// LabelReport is the result of processing one reagent.
type LabelReport struct {
	// Reagent is the reagent name.
	Reagent string `json:"reagent"`

	// DateProcessed is when processing started.
	DateProcessed time.Time `json:"date_processed"`

	// Markup is the input markup before normalization.
	Markup string `json:"-"`

	// Label is the normalized label markup. Empty when the input had
	// no visible text.
	Label string `json:"label"`

	// PlainText is the visible text of Label.
	PlainText string `json:"plain_text"`

	// Digest is the SHA3-256 of Label in hex.
	Digest string `json:"digest,omitempty"`

	// Phrases are the hazard phrases that were classified.
	Phrases []string `json:"phrases,omitempty"`

	// Hazards are the classified codes in match order. A code appears
	// once per matching rule.
	Hazards []string `json:"hazards"`

	// Matches explain each entry of Hazards.
	Matches []HazardMatch `json:"matches,omitempty"`

	// Unchanged is true when the stored label already had this digest.
	Unchanged bool `json:"unchanged,omitempty"`

	// Cancelled is true when processing stopped on context cancellation.
	Cancelled bool `json:"cancelled"`

	// PerformedSteps lists the steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the last step error.
	Error error `json:"-"`

	// ErrorMessage is Error as text for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewLabelReport creates a report for a reagent.
func NewLabelReport(r Reagent) *LabelReport {
	phrases := make([]string, len(r.Hazards))
	copy(phrases, r.Hazards)

	return &LabelReport{
		Reagent:        r.Name,
		DateProcessed:  time.Now(),
		Markup:         r.Label,
		Phrases:        phrases,
		Hazards:        make([]string, 0),
		PerformedSteps: make([]string, 0),
	}
}

// UniqueHazards returns Hazards without repeats, first occurrence first.
func (r *LabelReport) UniqueHazards() []string {
	seen := make(map[string]bool, len(r.Hazards))
	out := make([]string, 0, len(r.Hazards))
	for _, h := range r.Hazards {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

// HasLabel reports whether normalization left any label.
func (r *LabelReport) HasLabel() bool {
	return r.Label != ""
}

// Failed reports whether a step recorded an error.
func (r *LabelReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}

// SetError records err on the report.
func (r *LabelReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
