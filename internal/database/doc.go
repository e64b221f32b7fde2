// Package database provides SQLite-based storage for labelkit.
//
// LabelDB stores:
//   - the normalized label of each reagent with its plain text and digest
//   - the GHS codes classified for each reagent, with the phrase that
//     produced them
//   - a JSON summary of every processing run
//
// The driver is modernc.org/sqlite, which needs no cgo. The whole store
// is one file, labelkit.db, in the configured directory.
package database
