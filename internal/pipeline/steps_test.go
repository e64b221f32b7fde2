package pipeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/nao1215/labelkit/internal/label"
	"github.com/nao1215/labelkit/internal/model"
)

// memoryStore is an in-memory Store for tests.
type memoryStore struct {
	mu      sync.Mutex
	digests map[string]string
	saved   []string
	getErr  error
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{digests: make(map[string]string)}
}

func (m *memoryStore) GetDigest(_ context.Context, reagent string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	d, ok := m.digests[reagent]
	return d, ok, nil
}

func (m *memoryStore) SaveReport(_ context.Context, report *model.LabelReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.digests[report.Reagent] = report.Digest
	m.saved = append(m.saved, report.Reagent)
	return nil
}

func TestNormalizeStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		wantLabel string
		wantText  string
	}{
		{
			name:      "full document",
			markup:    "<html><body><p style=\"font-size:12pt; color:red\">Danger</p></body></html>",
			wantLabel: `<p style="color:red">Danger</p>`,
			wantText:  "Danger",
		},
		{
			name:      "empty document",
			markup:    "<html><body><p style=\"font-size:12pt\"></p></body></html>",
			wantLabel: "",
			wantText:  "",
		},
		{
			name:      "plain text",
			markup:    "Acetone",
			wantLabel: "Acetone",
			wantText:  "Acetone",
		},
	}

	step := NewNormalizeStep(nil)
	if step.Name() != NormalizeStepName {
		t.Errorf("unexpected name %q", step.Name())
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := model.NewLabelReport(model.Reagent{Name: "r", Label: tt.markup})
			if err := step.Do(context.Background(), report); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", report.Label, tt.wantLabel)
			}
			if report.PlainText != tt.wantText {
				t.Errorf("plain text = %q, want %q", report.PlainText, tt.wantText)
			}
			if report.Digest != label.Digest(tt.wantLabel) {
				t.Errorf("unexpected digest %q", report.Digest)
			}
		})
	}
}

func TestClassifyStep(t *testing.T) {
	t.Parallel()

	step := NewClassifyStep(nil)
	if step.Name() != ClassifyStepName {
		t.Errorf("unexpected name %q", step.Name())
	}

	t.Run("classifies phrases", func(t *testing.T) {
		t.Parallel()

		report := model.NewLabelReport(model.Reagent{
			Name:    "acetone",
			Hazards: []string{"Highly flammable liquid", "Irritant and harmful"},
		})
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(report.Hazards, []string{"GHS02", "GHS07", "GHS07"}) {
			t.Errorf("got hazards %v", report.Hazards)
		}
		if len(report.Matches) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(report.Matches))
		}
		first := report.Matches[0]
		if first.Name != "Flammable" || first.Phrase != "Highly flammable liquid" {
			t.Errorf("unexpected first match %+v", first)
		}
	})

	t.Run("no phrases yields empty hazards", func(t *testing.T) {
		t.Parallel()

		report := model.NewLabelReport(model.Reagent{Name: "water"})
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Hazards == nil || len(report.Hazards) != 0 {
			t.Errorf("expected empty non-nil hazards, got %v", report.Hazards)
		}
	})
}

func TestPersistStep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newReport := func(digest string) *model.LabelReport {
		report := model.NewLabelReport(model.Reagent{Name: "acetone"})
		report.Digest = digest
		return report
	}

	t.Run("stores new report", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		step := NewPersistStep(store, nil)
		if step.Name() != PersistStepName {
			t.Errorf("unexpected name %q", step.Name())
		}

		report := newReport("d1")
		if err := step.Do(ctx, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Unchanged {
			t.Error("expected new report not to be unchanged")
		}
		if !slices.Equal(store.saved, []string{"acetone"}) {
			t.Errorf("unexpected saved %v", store.saved)
		}
	})

	t.Run("same digest is unchanged", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.digests["acetone"] = "d1"
		report := newReport("d1")

		if err := NewPersistStep(store, nil).Do(ctx, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Unchanged {
			t.Error("expected report to be unchanged")
		}
	})

	t.Run("different digest is changed", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.digests["acetone"] = "old"
		report := newReport("d1")

		if err := NewPersistStep(store, nil).Do(ctx, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Unchanged {
			t.Error("expected report to be changed")
		}
	})

	t.Run("failed report is not stored", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		report := newReport("d1")
		report.SetError(errors.New("earlier failure"))

		if err := NewPersistStep(store, nil).Do(ctx, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.saved) != 0 {
			t.Error("expected nothing to be stored")
		}
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		t.Parallel()

		errDB := errors.New("disk full")
		store := newMemoryStore()
		store.saveErr = errDB

		err := NewPersistStep(store, nil).Do(ctx, newReport("d1"))
		if !errors.Is(err, errDB) {
			t.Errorf("expected wrapped store error, got %v", err)
		}

		store = newMemoryStore()
		store.getErr = errDB
		err = NewPersistStep(store, nil).Do(ctx, newReport("d1"))
		if !errors.Is(err, errDB) {
			t.Errorf("expected wrapped lookup error, got %v", err)
		}
	})
}
