package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// LogHandler forwards records to another handler and mirrors them into the
// AppState log buffer so they can be shown by the diagnostics endpoint.
type LogHandler struct {
	next  slog.Handler
	state *AppState
	attrs []slog.Attr
}

// NewLogHandler wraps next.
func NewLogHandler(next slog.Handler, st *AppState) *LogHandler {
	return &LogHandler{next: next, state: st}
}

// Enabled reports whether next handles level.
func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle mirrors r into the buffer, then passes it on.
func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	label := "Main"
	for _, a := range attrs {
		if a.Key == "component" {
			label = a.Value.String()
		}
	}

	h.state.AddLog(r.Level.String(), label, formatLogMessage(r.Time, r.Level.String(), r.Message, attrs))
	return h.next.Handle(ctx, r)
}

// WithAttrs returns a handler that carries attrs on every record.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LogHandler{next: h.next.WithAttrs(attrs), state: h.state, attrs: merged}
}

// WithGroup groups attributes on the forwarded handler. The mirrored
// message stays flat.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{next: h.next.WithGroup(name), state: h.state, attrs: h.attrs}
}

// formatLogMessage renders a record as a single JSON line with the base
// fields first and attributes in the order they were given.
func formatLogMessage(t time.Time, level, msg string, attrs []slog.Attr) string {
	type logEntry struct {
		Time  string `json:"time"`
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}

	if t.IsZero() {
		t = time.Now()
	}
	baseJSON, _ := json.Marshal(logEntry{
		Time:  t.UTC().Format(time.RFC3339Nano),
		Level: level,
		Msg:   msg,
	})
	// Remove closing brace
	parts := []string{string(baseJSON[:len(baseJSON)-1])}

	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		valJSON, err := json.Marshal(attrValue(a.Value))
		if err != nil {
			valJSON, _ = json.Marshal(a.Value.String())
		}
		keyJSON, _ := json.Marshal(a.Key)
		parts = append(parts, fmt.Sprintf(`%s:%s`, keyJSON, valJSON))
	}

	return strings.Join(parts, ",") + "}"
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.String()
	}
}
