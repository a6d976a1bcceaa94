package logger

import (
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer = os.Stdout

// InitLogger installs a JSON slog logger, wrapped so every record
// picks up the trace_id carried on its context.
func InitLogger() {
	handler := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})
	log.SetDefault(log.New(&ContextHandler{handler}))
}
