package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/gosight/gosight/tracer/internal/codec"
	"github.com/gosight/gosight/tracer/internal/config"
	"github.com/gosight/gosight/tracer/internal/model"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes records to a topic keyed by app id.
type Kafka struct {
	writer messageWriter
	codec  codec.Codec
}

func NewKafka(cfg config.KafkaConfig, c codec.Codec) *Kafka {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: time.Millisecond * 100,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("count", len(messages)).Msg("Kafka delivery failed")
			}
		},
	}
	return &Kafka{writer: w, codec: c}
}

func (k *Kafka) Send(ctx context.Context, rec model.TraceRecord) error {
	data, err := k.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("transport: encode %s: %w", rec.TraceID, err)
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.AppID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "trace-id", Value: []byte(rec.TraceID)},
			{Key: "content-type", Value: []byte(k.codec.ContentType())},
		},
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
