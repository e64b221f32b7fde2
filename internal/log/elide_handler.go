package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// Ellipsis is appended to elided values.
const Ellipsis = "..."

// minLength is the shortest useful limit: one character plus the ellipsis.
const minLength = len(Ellipsis) + 1

// ElideHandler wraps an slog.Handler and shortens string attribute
// values longer than a limit. The limit counts characters, not bytes,
// and includes the ellipsis.
type ElideHandler struct {
	handler slog.Handler
	limit   int
}

// NewElideHandler creates an ElideHandler. A nil handler means
// slog.Default().Handler(). Limits below 4 are raised to 4.
func NewElideHandler(handler slog.Handler, limit int) *ElideHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if limit < minLength {
		limit = minLength
	}
	return &ElideHandler{handler: handler, limit: limit}
}

// Enabled delegates to the underlying handler.
func (h *ElideHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle elides the record's attributes and passes it on.
func (h *ElideHandler) Handle(ctx context.Context, r slog.Record) error {
	elided := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		elided.AddAttrs(h.elideAttr(a))
		return true
	})
	return h.handler.Handle(ctx, elided)
}

// WithAttrs returns a handler with the elided attributes added.
func (h *ElideHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.elideAttr(a)
	}
	return &ElideHandler{handler: h.handler.WithAttrs(out), limit: h.limit}
}

// WithGroup returns a handler with the given group name.
func (h *ElideHandler) WithGroup(name string) slog.Handler {
	return &ElideHandler{handler: h.handler.WithGroup(name), limit: h.limit}
}

func (h *ElideHandler) elideAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = h.elideAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindString:
		return slog.String(a.Key, Elide(a.Value.String(), h.limit))
	default:
		return a
	}
}

// Elide shortens s to at most limit characters, ending in Ellipsis when
// anything was cut. Strings within the limit are returned unchanged.
func Elide(s string, limit int) string {
	if limit < minLength {
		limit = minLength
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	keep := limit - len(Ellipsis)
	n := 0
	for i := range s {
		if n == keep {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}

// NewLogger creates a text logger that elides long values.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//   - limit: The maximum length of string values
func NewLogger(w io.Writer, verbose bool, limit int) *slog.Logger {
	return slog.New(NewElideHandler(slog.NewTextHandler(w, handlerOptions(verbose)), limit))
}

// NewJSONLogger creates a JSON logger that elides long values.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool, limit int) *slog.Logger {
	return slog.New(NewElideHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), limit))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
