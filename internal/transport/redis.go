package transport

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gosight/gosight/tracer/internal/codec"
	"github.com/gosight/gosight/tracer/internal/config"
	"github.com/gosight/gosight/tracer/internal/model"
)

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Redis appends records to a stream.
type Redis struct {
	client streamAdder
	closer func() error
	stream string
	maxLen int64
	codec  codec.Codec
}

func NewRedis(cfg config.RedisConfig, c codec.Codec) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Redis{
		client: rdb,
		closer: rdb.Close,
		stream: cfg.Stream,
		maxLen: cfg.MaxLen,
		codec:  c,
	}
}

func (r *Redis) Send(ctx context.Context, rec model.TraceRecord) error {
	data, err := r.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("transport: encode %s: %w", rec.TraceID, err)
	}

	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"trace_id": rec.TraceID,
			"app_id":   rec.AppID,
			"type":     string(rec.Type),
			"level":    string(rec.Level),
			"codec":    r.codec.Name(),
			"payload":  data,
		},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}

	if err := r.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("transport: xadd %s: %w", r.stream, err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
