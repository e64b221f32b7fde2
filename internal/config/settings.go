package config

// ReagentConfig holds per-reagent settings. Everything is optional.
type ReagentConfig struct {
	// Hazards are extra hazard phrases classified together with the
	// phrases from the manifest.
	Hazards []string `yaml:"hazards,omitempty"`

	// Label replaces the manifest label when set.
	Label string `yaml:"label,omitempty"`

	// Skip excludes the reagent from processing.
	Skip bool `yaml:"skip,omitempty"`
}

// File represents the structure of the .labelkit settings file.
type File struct {
	// Reagents maps reagent names to their settings.
	Reagents map[string]ReagentConfig `yaml:"reagents,omitempty"`

	// Defaults applies to every reagent unless overridden.
	Defaults ReagentConfig `yaml:"defaults,omitempty"`

	// BatchSize overrides the default concurrency when set.
	BatchSize int `yaml:"batchSize,omitempty"`

	// DBDir overrides the default database directory when set.
	DBDir string `yaml:"dbDir,omitempty"`
}

// NewFile returns an empty settings file.
func NewFile() *File {
	return &File{Reagents: make(map[string]ReagentConfig)}
}

// GetReagentConfig returns the settings for a reagent, merged with the
// defaults. Hazard phrases accumulate: defaults first, then the
// reagent's own. Label and Skip from the reagent entry win.
func (cf *File) GetReagentConfig(name string) ReagentConfig {
	result := ReagentConfig{
		Label: cf.Defaults.Label,
		Skip:  cf.Defaults.Skip,
	}
	result.Hazards = append(result.Hazards, cf.Defaults.Hazards...)

	if rc, ok := cf.Reagents[name]; ok {
		result.Hazards = append(result.Hazards, rc.Hazards...)
		if rc.Label != "" {
			result.Label = rc.Label
		}
		if rc.Skip {
			result.Skip = true
		}
	}

	return result
}

// Apply copies settings file overrides into c. Values already changed
// from their defaults by flags are kept; changed reports which flags
// the user set explicitly.
func (c *Config) Apply(cf *File, changed func(flag string) bool) {
	if cf == nil {
		return
	}
	c.Settings = cf

	if cf.BatchSize > 0 && (changed == nil || !changed("batch-size")) {
		c.BatchSize = cf.BatchSize
	}
	if cf.DBDir != "" && (changed == nil || !changed("db-dir")) {
		c.DBDir = cf.DBDir
	}
}
