package ghs

import "regexp"

// rule maps one keyword pattern to a code.
type rule struct {
	keyword string
	pattern *regexp.Regexp
	code    Code
}

// rules are checked in order against every phrase. Each word's first
// letter matches either case; the rest is literal. Harmful and irritant
// are separate rules and both append GHS07.
var rules = []rule{
	{"explosive", regexp.MustCompile(`[Ee]xplosive`), Explosive},
	{"flammable", regexp.MustCompile(`[Ff]lammable`), Flammable},
	{"oxidizing", regexp.MustCompile(`[Oo]xidizing`), Oxidizing},
	{"compressed gas", regexp.MustCompile(`[Cc]ompressed\s[Gg]as`), CompressedGas},
	{"corrosive", regexp.MustCompile(`[Cc]orrosive`), Corrosive},
	{"toxic", regexp.MustCompile(`[Tt]oxic`), Toxic},
	{"harmful", regexp.MustCompile(`[Hh]armful`), Harmful},
	{"irritant", regexp.MustCompile(`[Ii]rritant`), Harmful},
	{"health hazard", regexp.MustCompile(`[Hh]ealth\s[Hh]azard`), HealthHazard},
	{"environmental hazard", regexp.MustCompile(`[Ee]nvironmental\s[Hh]azard`), EnvironmentHazard},
}

// Match records which rule fired for which phrase.
type Match struct {
	Code    Code   `json:"code"`
	Keyword string `json:"keyword"`
	Phrase  string `json:"phrase"`
}

// MatchPhrase returns the matches for a single phrase in rule order.
func MatchPhrase(phrase string) []Match {
	var matches []Match
	for _, r := range rules {
		if r.pattern.MatchString(phrase) {
			matches = append(matches, Match{Code: r.code, Keyword: r.keyword, Phrase: phrase})
		}
	}
	return matches
}

// MatchAll returns the matches for every phrase, phrase order first.
func MatchAll(phrases []string) []Match {
	matches := make([]Match, 0, len(phrases))
	for _, p := range phrases {
		matches = append(matches, MatchPhrase(p)...)
	}
	return matches
}

// Classify maps phrases to codes. Every matching rule contributes one
// code, so the result may repeat codes; it is never nil.
func Classify(phrases []string) []Code {
	matches := MatchAll(phrases)
	codes := make([]Code, len(matches))
	for i, m := range matches {
		codes[i] = m.Code
	}
	return codes
}

// ClassifyStrings is Classify with identifiers as strings.
func ClassifyStrings(phrases []string) []string {
	codes := Classify(phrases)
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// Dedup removes repeated codes, keeping first occurrences in order.
func Dedup(codes []Code) []Code {
	seen := make(map[Code]bool, len(codes))
	out := make([]Code, 0, len(codes))
	for _, c := range codes {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
