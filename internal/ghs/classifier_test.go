package ghs

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		phrases []string
		want    []Code
	}{
		{
			name:    "empty input",
			phrases: nil,
			want:    []Code{},
		},
		{
			name:    "substring match inside a word",
			phrases: []string{"Flammable liquid", "Nontoxic substance"},
			want:    []Code{Flammable, Toxic},
		},
		{
			name:    "harmful and irritant both fire",
			phrases: []string{"Irritant and harmful"},
			want:    []Code{Harmful, Harmful},
		},
		{
			name:    "lowercase first letter",
			phrases: []string{"highly flammable, explosive when dry"},
			want:    []Code{Explosive, Flammable},
		},
		{
			name:    "rule order within a phrase",
			phrases: []string{"Toxic, corrosive, oxidizing"},
			want:    []Code{Oxidizing, Corrosive, Toxic},
		},
		{
			name:    "compressed gas needs one whitespace",
			phrases: []string{"Compressed gas", "compressed  gas", "compressedgas", "compressed\tGas"},
			want:    []Code{CompressedGas, CompressedGas},
		},
		{
			name:    "health and environmental hazard",
			phrases: []string{"Health Hazard", "environmental hazard"},
			want:    []Code{HealthHazard, EnvironmentHazard},
		},
		{
			name:    "only the first letter is case-insensitive",
			phrases: []string{"FLAMMABLE", "TOXIC", "Environment hazard"},
			want:    []Code{},
		},
		{
			name:    "unmatched phrases contribute nothing",
			phrases: []string{"Store in a cool place", ""},
			want:    []Code{},
		},
		{
			name:    "duplicates across phrases kept",
			phrases: []string{"Flammable", "flammable vapour"},
			want:    []Code{Flammable, Flammable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.phrases)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.phrases, got, tt.want)
			}
		})
	}
}

func TestClassifyStrings(t *testing.T) {
	t.Parallel()

	got := ClassifyStrings([]string{"Flammable liquid", "Nontoxic substance"})
	want := []string{"GHS02", "GHS06"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := ClassifyStrings(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestMatchPhrase(t *testing.T) {
	t.Parallel()

	matches := MatchPhrase("Irritant and harmful")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Keyword != "harmful" || matches[1].Keyword != "irritant" {
		t.Errorf("unexpected keyword order: %q, %q", matches[0].Keyword, matches[1].Keyword)
	}
	for _, m := range matches {
		if m.Phrase != "Irritant and harmful" {
			t.Errorf("expected phrase to be recorded, got %q", m.Phrase)
		}
	}
}

func TestClassifyConcurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Classify([]string{"Flammable", "Corrosive"})
			if !slices.Equal(got, []Code{Flammable, Corrosive}) {
				t.Errorf("unexpected result %v", got)
			}
		}()
	}
	wg.Wait()
}

func TestDedup(t *testing.T) {
	t.Parallel()

	got := Dedup([]Code{Harmful, Flammable, Harmful, Toxic, Flammable})
	want := []Code{Harmful, Flammable, Toxic}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	hazards := Catalog()
	if len(hazards) != 9 {
		t.Fatalf("expected 9 hazards, got %d", len(hazards))
	}

	t.Run("codes are in order", func(t *testing.T) {
		t.Parallel()
		want := []Code{"GHS01", "GHS02", "GHS03", "GHS04", "GHS05", "GHS06", "GHS07", "GHS08", "GHS09"}
		for i, h := range hazards {
			if h.Code != want[i] {
				t.Errorf("hazard %d: got %s, want %s", i, h.Code, want[i])
			}
		}
	})

	t.Run("catalog copy is independent", func(t *testing.T) {
		t.Parallel()
		c := Catalog()
		c[0].Name = "changed"
		if Explosive.Name() != "Explosive" {
			t.Error("catalog was mutated through the returned slice")
		}
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Code
		wantErr bool
	}{
		{input: "GHS05", want: Corrosive},
		{input: " ghs09 ", want: EnvironmentHazard},
		{input: "GHS10", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCode) {
					t.Errorf("expected ErrUnknownCode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCodeName(t *testing.T) {
	t.Parallel()

	if got := CompressedGas.Name(); got != "Compressed gas" {
		t.Errorf("got %q", got)
	}
	if got := Code("GHS00").Name(); got != "" {
		t.Errorf("expected empty name for unknown code, got %q", got)
	}
	if Code("GHS00").Valid() {
		t.Error("expected GHS00 to be invalid")
	}
}
