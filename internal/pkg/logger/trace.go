package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey is the context key every job and request carries a trace
// id under.
const TraceIDKey = "trace_id"

// ContextHandler pulls trace_id out of the context and attaches it to
// every log record it emits.
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String("trace_id", traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}
