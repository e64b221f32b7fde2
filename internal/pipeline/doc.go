// Package pipeline runs reagents through the labelkit processing steps.
//
// Each reagent gets a LabelReport that flows through a sequence of Steps:
// normalization of the label markup, GHS classification of the hazard
// phrases and, optionally, persistence. A step may fail without stopping
// the others when the pipeline is configured to continue on error.
//
// BatchProcessor runs one pipeline per reagent with bounded concurrency
// using errgroup and returns the reports in input order.
package pipeline
