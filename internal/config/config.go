package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize is the number of reagents processed concurrently.
	// Normalization and classification are CPU-bound and cheap, and the
	// database serializes writes, so a small pool is enough.
	DefaultBatchSize = 4

	// DefaultElideLength is the length at which log values are shortened.
	// It matches the label editor's elided-string default.
	DefaultElideLength = 32

	// AppName is the application name used for XDG directory paths.
	AppName = "labelkit"
)

// Config holds the options of a processing run. It is built from CLI
// flags and the settings file and passed down explicitly.
type Config struct {
	// ManifestPath is the YAML manifest listing the reagents to process.
	ManifestPath string

	// ConfigFilePath is the settings file path. When empty, .labelkit in
	// the current directory, config.yaml in the XDG config directory and
	// .labelkit in the home directory are tried in that order.
	ConfigFilePath string

	// Settings holds the loaded settings file. Never nil after the CLI
	// has built the config.
	Settings *File

	// BatchSize is the number of reagents processed concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// ElideLength bounds the length of string values in log output.
	ElideLength int

	// LogJSON writes log records as JSON lines instead of text.
	LogJSON bool

	// Progress prints one line per finished reagent to stderr.
	Progress bool

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to this path instead of stdout.
	// Parent directories are created as needed.
	ReportFile string

	// DBDir is the directory holding the SQLite database.
	DBDir string

	// SaveToDB stores normalized labels and hazard codes in the database.
	SaveToDB bool

	// ContinueOnError keeps running the remaining steps of a reagent
	// after one fails.
	ContinueOnError bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize:       DefaultBatchSize,
		ElideLength:     DefaultElideLength,
		DBDir:           XDGDataDir(),
		SaveToDB:        true,
		ContinueOnError: true,
		Settings:        NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for labelkit, where the
// database lives by default.
// On Linux: ~/.local/share/labelkit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for labelkit.
// On Linux: ~/.config/labelkit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.ManifestPath == "" {
		return ErrNoManifest
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ElideLength < 4 {
		return ErrInvalidElideLength
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
