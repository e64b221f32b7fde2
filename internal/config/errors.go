package config

import "errors"

// Configuration errors returned by Config.Validate and the loaders.
// Callers match them with errors.Is.
var (
	// ErrNoManifest is returned when no manifest path is given.
	ErrNoManifest = errors.New("no manifest specified: provide a manifest file path")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidElideLength is returned when the elide length is too short
	// to hold an ellipsis and at least one character.
	ErrInvalidElideLength = errors.New("invalid elide length: must be at least 4")

	// ErrNoDBDir is returned when saving is enabled without a database directory.
	ErrNoDBDir = errors.New("no database directory: set --db-dir or disable saving")

	// ErrEmptyReagentName is returned when a manifest entry has no name.
	ErrEmptyReagentName = errors.New("manifest entry has no name")

	// ErrDuplicateReagent is returned when a manifest names a reagent twice.
	ErrDuplicateReagent = errors.New("duplicate reagent in manifest")
)
