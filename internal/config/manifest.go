package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/labelkit/internal/model"
)

// Manifest is the list of reagents for a processing run.
type Manifest struct {
	Reagents []model.Reagent `yaml:"reagents"`
}

// LoadManifest reads a YAML manifest, resolves label files relative to
// the manifest's directory and applies settings from cf, which may be
// nil. Reagents marked skip are dropped.
func LoadManifest(path string, cf *File) ([]model.Reagent, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided manifest path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	dir := filepath.Dir(path)
	seen := make(map[string]bool, len(m.Reagents))
	reagents := make([]model.Reagent, 0, len(m.Reagents))

	for i, r := range m.Reagents {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return nil, fmt.Errorf("entry %d: %w", i+1, ErrEmptyReagentName)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%s: %w", r.Name, ErrDuplicateReagent)
		}
		seen[r.Name] = true

		if cf != nil {
			rc := cf.GetReagentConfig(r.Name)
			if rc.Skip {
				continue
			}
			if rc.Label != "" {
				r.Label = rc.Label
			}
			r.Hazards = append(r.Hazards, rc.Hazards...)
		}

		if r.Label == "" && r.LabelFile != "" {
			labelPath := r.LabelFile
			if !filepath.IsAbs(labelPath) {
				labelPath = filepath.Join(dir, labelPath)
			}
			content, err := os.ReadFile(labelPath) //nolint:gosec // Path comes from the manifest
			if err != nil {
				return nil, fmt.Errorf("%s: failed to read label file: %w", r.Name, err)
			}
			r.Label = string(content)
			r.LabelFile = labelPath
		}

		reagents = append(reagents, r)
	}

	return reagents, nil
}
