package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/mdkit/mdreport/observability"
)

// newLogger creates a logger with timestamp formatting. Timestamps are
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// charmLogger adapts a charmbracelet logger to the library's logging
// facade.
type charmLogger struct {
	l *log.Logger
}

func libLogger(l *log.Logger) observability.Logger {
	return charmLogger{l: l}
}

func keyvals(fields []observability.Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key(), f.Value())
	}
	return kv
}

func (c charmLogger) Debug(msg string, fields ...observability.Field) {
	c.l.Debug(msg, keyvals(fields)...)
}

func (c charmLogger) Info(msg string, fields ...observability.Field) {
	c.l.Info(msg, keyvals(fields)...)
}

func (c charmLogger) Warn(msg string, fields ...observability.Field) {
	c.l.Warn(msg, keyvals(fields)...)
}

func (c charmLogger) Error(msg string, fields ...observability.Field) {
	c.l.Error(msg, keyvals(fields)...)
}

func (c charmLogger) With(fields ...observability.Field) observability.Logger {
	return charmLogger{l: c.l.With(keyvals(fields)...)}
}
