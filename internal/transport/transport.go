// Package transport delivers finished trace records to a backend.
package transport

import (
	"context"
	"fmt"

	"github.com/gosight/gosight/tracer/internal/codec"
	"github.com/gosight/gosight/tracer/internal/config"
	"github.com/gosight/gosight/tracer/internal/model"
)

// Transport sends one record at a time. Implementations do not retry.
type Transport interface {
	Send(ctx context.Context, rec model.TraceRecord) error
	Close() error
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, rec model.TraceRecord) error

func (f Func) Send(ctx context.Context, rec model.TraceRecord) error { return f(ctx, rec) }
func (f Func) Close() error                                          { return nil }

// New builds the transport selected by cfg.Transport.Kind.
func New(ctx context.Context, cfg *config.Config) (Transport, error) {
	c, err := codec.New(cfg.Transport.Codec)
	if err != nil {
		return nil, err
	}

	switch cfg.Transport.Kind {
	case config.KindHTTP:
		return NewHTTP(cfg.DSN, c,
			WithGzip(cfg.Transport.Gzip),
			WithTimeout(cfg.Transport.Timeout),
			WithHeaders(cfg.Transport.Headers),
		), nil
	case config.KindKafka:
		return NewKafka(cfg.Transport.Kafka, c), nil
	case config.KindRedis:
		return NewRedis(cfg.Transport.Redis, c), nil
	case config.KindClickHouse:
		return NewClickHouse(ctx, cfg.Transport.ClickHouse)
	case config.KindLog, "":
		return NewLog(), nil
	}
	return nil, fmt.Errorf("transport: unknown kind %q", cfg.Transport.Kind)
}
