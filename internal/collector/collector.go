// Package collector is the in-page telemetry core: it turns instrumentation
// signals into breadcrumbs and trace records and hands them to delivery.
package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosight/gosight/tracer/internal/breadcrumb"
	"github.com/gosight/gosight/tracer/internal/builder"
	"github.com/gosight/gosight/tracer/internal/config"
	"github.com/gosight/gosight/tracer/internal/delivery"
	"github.com/gosight/gosight/tracer/internal/env"
	"github.com/gosight/gosight/tracer/internal/fingerprint"
	"github.com/gosight/gosight/tracer/internal/model"
	"github.com/gosight/gosight/tracer/internal/perf"
	"github.com/gosight/gosight/tracer/internal/useragent"
)

// ErrNoSender is returned by New when Deps has no sender.
var ErrNoSender = errors.New("collector: sender is required")

// Deps are the collaborators the collector does not own.
type Deps struct {
	Sender      delivery.Sender
	Fingerprint fingerprint.Provider
	// Now and NewID default to time.Now and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

// Collector holds every piece of per-page state. All hooks are serialized
// on mu; the delivery queue has its own lock so the scheduler never waits
// on a hook.
type Collector struct {
	cfg    config.Config
	logger zerolog.Logger
	sender delivery.Sender
	now    func() time.Time
	newID  func() string

	env       *env.State
	builder   *builder.Builder
	queue     *delivery.Queue
	scheduler *delivery.Scheduler

	mu          sync.Mutex
	breadcrumbs *breadcrumb.Ring[model.Breadcrumb]
	resources   *breadcrumb.Ring[model.ResourceData]
	pageID      string
	pageRoute   string
	ua          model.UserAgent
	user        model.UserInfo
	perf        *perf.Aggregator
	trigger     *perf.Trigger
	started     bool
	closed      bool

	closeOnce sync.Once
}

// New wires a collector from a copy of cfg with defaults applied. Call
// Start to begin delivery.
func New(cfg *config.Config, deps Deps) (*Collector, error) {
	if cfg == nil || cfg.AppID == "" {
		return nil, config.ErrMissingAppID
	}
	if deps.Sender == nil {
		return nil, ErrNoSender
	}
	own := *cfg
	own.ApplyDefaults()
	cfg = &own
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.New().String() }
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := log.With().
		Str("component", "collector").
		Str("app_id", cfg.AppID).
		Logger().
		Level(level)

	state := env.NewState(cfg.Environment.URL)
	queue := delivery.NewQueue(deps.Sender)

	c := &Collector{
		cfg:         *cfg,
		logger:      logger,
		sender:      deps.Sender,
		now:         deps.Now,
		newID:       deps.NewID,
		env:         state,
		builder:     builder.New(state, builder.WithClock(deps.Now), builder.WithIDGenerator(deps.NewID)),
		queue:       queue,
		scheduler:   delivery.NewScheduler(queue, cfg.SendInterval),
		breadcrumbs: breadcrumb.New[model.Breadcrumb](cfg.MaxBreadcrumb),
		resources:   breadcrumb.New[model.ResourceData](cfg.MaxResources),
		pageID:      deps.NewID(),
		ua:          useragent.Parse(cfg.Environment.UserAgent),
		user: model.UserInfo{
			FingerprintID: fingerprint.Resolve(deps.Fingerprint, cfg.FingerprintSeed),
		},
	}

	if cfg.PerfWatch {
		c.perf = perf.NewAggregator(deps.NewID())
		c.trigger = perf.NewTrigger(cfg.Environment.SupportsLayoutShift, nil)
		logger.Debug().
			Str("perf_id", c.perf.ID()).
			Stringer("mode", c.trigger.Mode()).
			Msg("Perf watch armed")
	}
	if c.user.FingerprintID == "" {
		logger.Debug().Msg("Fingerprint unavailable")
	}

	return c, nil
}

// Start begins the delivery ticker. It is a no-op after the first call.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	c.scheduler.Start(ctx)
	c.logger.Info().
		Str("page_id", c.pageID).
		Dur("send_interval", c.scheduler.Interval()).
		Msg("Collector started")
}

// Close stops the ticker, disarms the perf trigger and sends whatever is
// still queued. Later calls do nothing.
func (c *Collector) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		if c.trigger != nil {
			c.trigger.Cancel()
		}
		c.mu.Unlock()

		c.scheduler.Stop()
		n := c.queue.Drain(ctx)
		c.logger.Info().Int("drained", n).Msg("Collector closed")
	})
	return nil
}

// Env exposes the connection state the collector reports.
func (c *Collector) Env() *env.State { return c.env }

// PageID returns the id generated for this page session.
func (c *Collector) PageID() string { return c.pageID }

// NewUUID returns a fresh random id for callers that need one, for example
// to tag an outgoing request for correlation.
func (c *Collector) NewUUID() string { return c.newID() }

// Breadcrumbs returns a copy of the breadcrumb ring, oldest first.
func (c *Collector) Breadcrumbs() []model.Breadcrumb {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.breadcrumbs.Snapshot()
}

// Resources returns a copy of the resource defect list, oldest first.
func (c *Collector) Resources() []model.ResourceData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resources.Snapshot()
}

// QueueLen returns the number of records awaiting delivery.
func (c *Collector) QueueLen() int { return c.queue.Len() }

// Queued returns a copy of the records awaiting delivery, head first.
func (c *Collector) Queued() []model.TraceRecord { return c.queue.Snapshot() }

// UserInfo returns the current user block.
func (c *Collector) UserInfo() model.UserInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// PerfSnapshot returns the perf record accumulated so far and whether perf
// watching is on.
func (c *Collector) PerfSnapshot() (model.PerfRecord, bool) {
	if c.perf == nil {
		return model.PerfRecord{}, false
	}
	return c.perf.Snapshot(), true
}

func (c *Collector) timestamp() int64 {
	return c.now().UnixMilli()
}

// saveBreadcrumb must be called with mu held.
func (c *Collector) saveBreadcrumb(b model.Breadcrumb) {
	if !c.cfg.BreadcrumbEnabled {
		return
	}
	c.breadcrumbs.Push(b)
}

// buildContext must be called with mu held.
func (c *Collector) buildContext() builder.Context {
	ctx := builder.Context{
		AppID:       c.cfg.AppID,
		PageID:      c.pageID,
		PageRoute:   c.pageRoute,
		UserAgent:   c.ua,
		UserInfo:    c.user,
		Breadcrumbs: c.breadcrumbs.Snapshot(),
	}
	if c.cfg.ResourceWatch {
		ctx.Resources = c.resources.Snapshot()
	}
	return ctx
}

// enqueue must be called with mu held.
func (c *Collector) enqueue(payload model.Payload, correlate bool) model.TraceRecord {
	rec := c.builder.Build(payload, correlate, c.buildContext())
	if c.closed {
		c.logger.Debug().Str("trace_id", rec.TraceID).Msg("Collector closed, record dropped")
		return rec.Clone()
	}
	c.queue.Enqueue(rec)
	c.logger.Debug().
		Str("trace_id", rec.TraceID).
		Str("type", string(rec.Type)).
		Int32("data_id", rec.DataID()).
		Int("queued", c.queue.Len()).
		Msg("Record queued")
	return rec.Clone()
}
