// Package delivery throttles outbound trace records: records wait in a FIFO
// queue and a ticker hands at most one per tick to the transport.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosight/gosight/tracer/internal/model"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = time.Second

// Sender delivers one record. Errors are the sender's concern; the queue
// logs and drops them.
type Sender interface {
	Send(ctx context.Context, rec model.TraceRecord) error
}

// Queue is the FIFO of records awaiting delivery.
type Queue struct {
	sender Sender
	logger zerolog.Logger

	mu      sync.Mutex
	records []model.TraceRecord
}

// NewQueue creates an empty queue delivering to sender.
func NewQueue(sender Sender) *Queue {
	return &Queue{
		sender:  sender,
		logger:  log.With().Str("component", "delivery").Logger(),
		records: make([]model.TraceRecord, 0, 16),
	}
}

// Enqueue appends rec to the tail.
func (q *Queue) Enqueue(rec model.TraceRecord) {
	q.mu.Lock()
	q.records = append(q.records, rec)
	q.mu.Unlock()
}

// Len returns the number of queued records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// Tick pops the head record, if any, and sends it. It reports whether a
// record was popped. A failed send is logged and the record is dropped.
func (q *Queue) Tick(ctx context.Context) bool {
	rec, ok := q.pop()
	if !ok {
		return false
	}
	q.send(ctx, rec)
	return true
}

// Drain sends every queued record in order. Used at teardown only; it
// bypasses the per-tick throttle.
func (q *Queue) Drain(ctx context.Context) int {
	q.mu.Lock()
	records := q.records
	q.records = make([]model.TraceRecord, 0, 16)
	q.mu.Unlock()

	for _, rec := range records {
		q.send(ctx, rec)
	}
	if len(records) > 0 {
		q.logger.Info().Int("count", len(records)).Msg("Drained delivery queue")
	}
	return len(records)
}

func (q *Queue) pop() (model.TraceRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.records) == 0 {
		return model.TraceRecord{}, false
	}
	rec := q.records[0]
	q.records[0] = model.TraceRecord{}
	q.records = q.records[1:]
	return rec, true
}

func (q *Queue) send(ctx context.Context, rec model.TraceRecord) {
	if err := q.sender.Send(ctx, rec); err != nil {
		q.logger.Warn().
			Err(err).
			Str("trace_id", rec.TraceID).
			Str("type", string(rec.Type)).
			Msg("Failed to send trace record")
		return
	}
	q.logger.Debug().
		Str("trace_id", rec.TraceID).
		Str("type", string(rec.Type)).
		Msg("Sent trace record")
}

// Snapshot returns a copy of the queued records, head first.
func (q *Queue) Snapshot() []model.TraceRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.TraceRecord, len(q.records))
	copy(out, q.records)
	return out
}
