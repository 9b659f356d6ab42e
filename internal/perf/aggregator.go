// Package perf accumulates page vitals into one record per session and
// delivers it once when the page goes away.
package perf

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gosight/gosight/tracer/internal/model"
)

var (
	ErrUnknownMetric = errors.New("perf: unknown metric")
	ErrFlushed       = errors.New("perf: record already flushed")
)

// Metric is one sample produced by the vitals library. Rating may be empty,
// in which case it is derived from the standard thresholds.
type Metric struct {
	Name   model.MetricName `json:"name"`
	Value  float64          `json:"value"`
	Rating model.Rating     `json:"rating,omitempty"`
}

// Aggregator merges metric samples into the session's PerfRecord.
type Aggregator struct {
	mu      sync.Mutex
	record  model.PerfRecord
	final   model.PerfRecord
	flushed atomic.Bool
}

// NewAggregator creates an aggregator for the session id.
func NewAggregator(id string) *Aggregator {
	return &Aggregator{record: model.PerfRecord{ID: id}}
}

// ID returns the session id.
func (a *Aggregator) ID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record.ID
}

// Merge writes the sample's metric into the record, leaving every other
// metric untouched. The latest sample for a metric wins.
func (a *Aggregator) Merge(m Metric) error {
	name := model.MetricName(strings.ToUpper(string(m.Name)))

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.flushed.Load() {
		return ErrFlushed
	}
	slot := a.record.Field(name)
	if slot == nil {
		return ErrUnknownMetric
	}

	rating := m.Rating
	if rating == "" {
		rating = Rate(name, m.Value)
	}
	*slot = &model.Vital{Value: m.Value, Rating: rating}
	return nil
}

// Snapshot returns a copy of the current record.
func (a *Aggregator) Snapshot() model.PerfRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record.Clone()
}

// Flush freezes the record. The first call returns the frozen snapshot and
// true; every later call returns the same snapshot and false.
func (a *Aggregator) Flush() (model.PerfRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.flushed.CompareAndSwap(false, true) {
		return a.final.Clone(), false
	}
	a.final = a.record.Clone()
	return a.final.Clone(), true
}

// Flushed reports whether Flush has run.
func (a *Aggregator) Flushed() bool {
	return a.flushed.Load()
}
