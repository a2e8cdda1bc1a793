package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID identifies one batch run; every record of the run carries it.
const FieldSessionID = "session_id"

// stampHandler appends fixed run-level attributes to every record at Handle
// time, after the record's own attributes.
type stampHandler struct {
	base  slog.Handler
	stamp []slog.Attr
}

func newStampHandler(base slog.Handler, stamp ...slog.Attr) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	kept := make([]slog.Attr, 0, len(stamp))
	for _, attr := range stamp {
		if attr.Key == "" || attr.Value.String() == "" {
			continue
		}
		kept = append(kept, attr)
	}
	if len(kept) == 0 {
		return base
	}
	return &stampHandler{base: base, stamp: kept}
}

func newSessionIDHandler(base slog.Handler, sessionID string) slog.Handler {
	return newStampHandler(base, slog.String(FieldSessionID, sessionID))
}

func (h *stampHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *stampHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.stamp...)
	return h.base.Handle(ctx, record)
}

func (h *stampHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stampHandler{base: h.base.WithAttrs(attrs), stamp: h.stamp}
}

func (h *stampHandler) WithGroup(name string) slog.Handler {
	return &stampHandler{base: h.base.WithGroup(name), stamp: h.stamp}
}
