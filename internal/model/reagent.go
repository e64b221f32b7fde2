package model

// Reagent is one entry of a labeling job: a name, the label markup as
// the editor produced it, and the free-text hazard phrases from its
// safety data.
type Reagent struct {
	// Name identifies the reagent. It is the storage key and must be
	// unique within a manifest.
	Name string `yaml:"name" json:"name"`

	// Label is the editor markup. It may be a full HTML document, a
	// fragment or plain text.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`

	// LabelFile points at a file holding the markup. Relative paths are
	// resolved against the manifest's directory. Label wins when both
	// are set.
	LabelFile string `yaml:"labelFile,omitempty" json:"label_file,omitempty"`

	// Hazards are safety phrases such as "Highly flammable liquid".
	Hazards []string `yaml:"hazards,omitempty" json:"hazards,omitempty"`
}
