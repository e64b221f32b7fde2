package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the settings file name looked up in the
	// working and home directories.
	DefaultConfigFile = ".labelkit"

	// XDGConfigFile is the settings file name inside XDGConfigDir.
	XDGConfigFile = "config.yaml"
)

var (
	// ErrConfigNotFound is returned when the settings file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidSettings is returned for settings that parse but cannot
	// be applied to a manifest.
	ErrInvalidSettings = errors.New("invalid settings")
)

// LoadConfigFile reads a settings file. Unknown keys are rejected so a
// misspelled "hazard:" does not silently drop phrases. Reagent names
// are trimmed the same way manifest names are, so overrides match.
func LoadConfigFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	defer f.Close()

	cf := NewFile()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cf.Reagents == nil {
		cf.Reagents = make(map[string]ReagentConfig)
	}

	if err := cf.normalize(); err != nil {
		return nil, err
	}
	return cf, nil
}

// normalize trims reagent names and checks every entry.
func (cf *File) normalize() error {
	if cf.BatchSize < 0 {
		return fmt.Errorf("%w: batchSize must not be negative", ErrInvalidSettings)
	}
	if err := checkPhrases("defaults", cf.Defaults.Hazards); err != nil {
		return err
	}

	reagents := make(map[string]ReagentConfig, len(cf.Reagents))
	for name, rc := range cf.Reagents {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("%w: reagent entry without a name", ErrInvalidSettings)
		}
		if _, dup := reagents[trimmed]; dup {
			return fmt.Errorf("%w: reagent %q listed twice", ErrInvalidSettings, trimmed)
		}
		if err := checkPhrases(trimmed, rc.Hazards); err != nil {
			return err
		}
		reagents[trimmed] = rc
	}
	cf.Reagents = reagents
	return nil
}

// checkPhrases rejects blank hazard phrases, which can never classify.
func checkPhrases(owner string, phrases []string) error {
	for i, p := range phrases {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: %s: hazard phrase %d is blank", ErrInvalidSettings, owner, i+1)
		}
	}
	return nil
}

// FindConfigFile returns the settings file to use, or "".
// An explicit configPath is used only when it exists. Otherwise the
// candidates from searchPaths are tried in order.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// searchPaths lists the implicit settings locations: the working
// directory, the XDG config directory, then the home directory.
func searchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	paths = append(paths, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return paths
}
