// Package charmap provides the special characters offered when
// composing labels: degree sign, Greek letters, arrows, hazard symbols
// and common math operators, each with its Unicode name.
package charmap

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/runenames"
)

// Char is one selectable character.
type Char struct {
	Rune rune   `json:"rune"`
	Name string `json:"name"`
}

// String returns the character itself.
func (c Char) String() string {
	return string(c.Rune)
}

// CodePoint returns the character in U+XXXX notation.
func (c Char) CodePoint() string {
	return fmt.Sprintf("U+%04X", c.Rune)
}

var special = []rune{
	'°',
	// Greek capitals
	'Α', 'Β', 'Γ', 'Δ', 'Ε', 'Ζ', 'Η', 'Θ', 'Ι', 'Κ', 'Λ', 'Μ', 'Ν', 'Ξ', 'Ο',
	'Π', 'Ρ', 'Σ', 'Τ', 'Υ', 'Φ', 'Χ', 'Ψ', 'Ω',
	// Greek lowercase
	'α', 'β', 'γ', 'δ', 'ε', 'ζ', 'η', 'θ', 'ι', 'κ', 'λ', 'μ', 'ν', 'ξ', 'ο',
	'π', 'ρ', 'ς', 'σ', 'τ', 'υ', 'φ', 'χ', 'ψ', 'ω',
	// arrows
	'←', '↑', '→', '↓', '↔', '↚', '↛', '⇄', '⇐', '⇒',
	'\u212b', '·',
	// hazard
	'☠', '☢', '☣', '⚛',
	// math and misc
	'±', '∓', '√', '×', '÷', '≃', '≄', '≅', '≆', '≇', '≈', '≉', '≠', '≡', '∞', '∫', '∇', '∅',
	'$', '€', '‰', '⚠', '►', '◄', '▲', '▼', '⏪', '⏩', '⏫',
	'★', '☆', '✓', '✗', '≤', '≥',
}

// All returns every special character in display order.
func All() []Char {
	chars := make([]Char, len(special))
	for i, r := range special {
		chars[i] = Char{Rune: r, Name: runenames.Name(r)}
	}
	return chars
}

// Grid lays the characters out row by row. With columns <= 0 the grid
// is square: the column count is the ceiling of the square root of the
// character count.
func Grid(columns int) [][]Char {
	chars := All()
	if columns <= 0 {
		columns = int(math.Ceil(math.Sqrt(float64(len(chars)))))
	}

	rows := make([][]Char, 0, (len(chars)+columns-1)/columns)
	for start := 0; start < len(chars); start += columns {
		end := min(start+columns, len(chars))
		rows = append(rows, chars[start:end])
	}
	return rows
}

// Lookup finds a character by its exact Unicode name, ignoring case.
func Lookup(name string) (Char, bool) {
	for _, c := range All() {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Char{}, false
}

// Search returns the characters whose name contains query, ignoring case.
func Search(query string) []Char {
	query = strings.ToUpper(strings.TrimSpace(query))
	var out []Char
	for _, c := range All() {
		if strings.Contains(c.Name, query) {
			out = append(out, c)
		}
	}
	return out
}
