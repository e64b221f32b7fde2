// Package config provides configuration structures and loaders for labelkit.
// It covers run options built from CLI flags, the .labelkit settings file
// with per-reagent overrides, and the YAML reagent manifest.
package config
