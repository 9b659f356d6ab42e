// Package builder assembles the canonical TraceRecord from a captured event
// or a perf record plus the collector's context at that moment.
package builder

import (
	"time"

	"github.com/google/uuid"

	"github.com/gosight/gosight/tracer/internal/env"
	"github.com/gosight/gosight/tracer/internal/model"
)

// Context is the collector state copied into a record. The builder takes
// ownership of the slices; callers pass snapshots.
type Context struct {
	AppID       string
	PageID      string
	PageRoute   string
	UserAgent   model.UserAgent
	UserInfo    model.UserInfo
	Breadcrumbs []model.Breadcrumb
	Resources   []model.ResourceData
}

// Builder builds records. It reads the environment on every build and
// mutates nothing.
type Builder struct {
	env   env.Environment
	now   func() time.Time
	newID func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides trace id generation.
func WithIDGenerator(f func() string) Option {
	return func(b *Builder) { b.newID = f }
}

// New creates a Builder reading connection state and URL from e.
func New(e env.Environment, opts ...Option) *Builder {
	b := &Builder{
		env:   e,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build classifies payload and assembles a record around it.
//
// When correlate is true and payload is a fetch carrying an upstream request
// id, that id becomes the trace id so the record joins the server-side
// trace. Every other record gets a fresh id.
func (b *Builder) Build(payload model.Payload, correlate bool, ctx Context) model.TraceRecord {
	typ, level, data, perf := Classify(payload)

	ts := b.now().UnixMilli()
	rec := model.TraceRecord{
		TraceID:     b.traceID(data, correlate),
		Type:        typ,
		Level:       level,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		Data:        data,
		Perf:        perf,
		Breadcrumbs: ctx.Breadcrumbs,
		Resources:   ctx.Resources,
		UA:          ctx.UserAgent,
		Connection:  b.env.Connection(),
		AppID:       ctx.AppID,
		PageID:      ctx.PageID,
		PageRoute:   ctx.PageRoute,
		URL:         b.env.URL(),
		UserInfo:    ctx.UserInfo,
	}
	if rec.Breadcrumbs == nil {
		rec.Breadcrumbs = []model.Breadcrumb{}
	}
	return rec
}

func (b *Builder) traceID(data model.TraceData, correlate bool) string {
	if correlate {
		if f, ok := data.(*model.FetchData); ok && f.RequestID != "" {
			return f.RequestID
		}
	}
	return b.newID()
}
