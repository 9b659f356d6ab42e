package transport

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosight/gosight/tracer/internal/model"
)

// Log writes records to the process logger. Useful when no backend is
// configured.
type Log struct {
	logger zerolog.Logger
}

func NewLog() *Log {
	return &Log{logger: log.With().Str("component", "transport").Logger()}
}

// NewLogTo writes to the given logger instead of the global one.
func NewLogTo(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, rec model.TraceRecord) error {
	ev := l.logger.Info().
		Str("trace_id", rec.TraceID).
		Str("type", string(rec.Type)).
		Str("trace_level", string(rec.Level)).
		Str("app_id", rec.AppID).
		Str("page_route", rec.PageRoute).
		Int("breadcrumbs", len(rec.Breadcrumbs))
	if rec.Data != nil {
		base := rec.Data.Base()
		ev = ev.Int32("data_id", base.DataID).Str("name", base.Name).Str("message", base.Message)
	}
	if rec.Perf != nil {
		ev = ev.Str("perf_id", rec.Perf.ID)
	}
	ev.Msg("Trace record")
	return nil
}

func (l *Log) Close() error { return nil }
