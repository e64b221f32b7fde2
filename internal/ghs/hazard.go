package ghs

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a GHS pictogram identifier such as "GHS02".
type Code string

// The GHS pictogram codes.
const (
	Explosive         Code = "GHS01"
	Flammable         Code = "GHS02"
	Oxidizing         Code = "GHS03"
	CompressedGas     Code = "GHS04"
	Corrosive         Code = "GHS05"
	Toxic             Code = "GHS06"
	Harmful           Code = "GHS07"
	HealthHazard      Code = "GHS08"
	EnvironmentHazard Code = "GHS09"
)

// ErrUnknownCode is returned by Parse for identifiers outside the catalog.
var ErrUnknownCode = errors.New("unknown GHS code")

// Hazard is one catalog entry.
type Hazard struct {
	Code Code   `json:"code"`
	Name string `json:"name"`
}

var catalog = []Hazard{
	{Explosive, "Explosive"},
	{Flammable, "Flammable"},
	{Oxidizing, "Oxidizing"},
	{CompressedGas, "Compressed gas"},
	{Corrosive, "Corrosive"},
	{Toxic, "Toxic"},
	{Harmful, "Harmful"},
	{HealthHazard, "Health hazard"},
	{EnvironmentHazard, "Environment hazard"},
}

// Catalog returns all hazards in code order. The slice is a copy.
func Catalog() []Hazard {
	out := make([]Hazard, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for code.
func Lookup(code Code) (Hazard, bool) {
	for _, h := range catalog {
		if h.Code == code {
			return h, true
		}
	}
	return Hazard{}, false
}

// Parse validates an identifier. Surrounding space and letter case are
// ignored, so " ghs05" parses as Corrosive.
func Parse(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !code.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCode, s)
	}
	return code, nil
}

// Name returns the hazard name, or "" for codes outside the catalog.
func (c Code) Name() string {
	h, _ := Lookup(c)
	return h.Name
}

// String returns the identifier.
func (c Code) String() string {
	return string(c)
}

// Valid reports whether c is in the catalog.
func (c Code) Valid() bool {
	_, ok := Lookup(c)
	return ok
}
