// Package log provides the labelkit logger, built on top of the standard
// slog package.
//
// Label markup is long and noisy, so the ElideHandler shortens string
// attribute values to a fixed number of characters before they reach the
// output handler:
//
//	logger := log.NewLogger(os.Stderr, verbose, 32)
//	logger.Debug("normalized", "reagent", "acetone", "label", label)
//	// label="<p style=\"margin-top:0px;mar..."
//
// Verbose selects the Debug level; otherwise only warnings and errors
// are written.
package log
