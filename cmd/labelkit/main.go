// Package main provides the entry point for the labelkit CLI.
//
// labelkit normalizes reagent label markup produced by a rich-text label
// editor and classifies hazard phrases into GHS pictogram codes.
//
// Usage:
//
//	labelkit normalize label.html
//	labelkit classify "Highly flammable liquid and vapour"
//	labelkit process reagents.yaml
//
// See --help for all available options.
package main

func main() {
	Execute()
}
