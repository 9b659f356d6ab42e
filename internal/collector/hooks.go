package collector

import (
	"context"
	"errors"
	"strconv"

	"github.com/gosight/gosight/tracer/internal/classify"
	"github.com/gosight/gosight/tracer/internal/hashing"
	"github.com/gosight/gosight/tracer/internal/model"
	"github.com/gosight/gosight/tracer/internal/perf"
)

// ClickEvent is a user click observed on the page.
type ClickEvent struct {
	TagName   string `json:"tagName,omitempty"`
	InnerHTML string `json:"innerHTML"`
}

// FetchRequest describes an HTTP call about to start.
type FetchRequest struct {
	URL     string                 `json:"url"`
	Method  string                 `json:"method"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// FetchResult describes a finished or failed HTTP call. TraceID is the
// upstream request id, when the call carried one.
type FetchResult struct {
	URL         string      `json:"url"`
	Method      string      `json:"method"`
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	Body        string      `json:"body,omitempty"`
	ElapsedTime int64       `json:"elapsedTime"`
	TraceID     string      `json:"traceId,omitempty"`
	Response    interface{} `json:"response,omitempty"`
}

// UserDetails is the signed in user as reported by the host application.
type UserDetails struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Token    string `json:"token"`
	ServerID string `json:"serverId"`
}

// PageInfo updates the page the collector reports for. An empty URL keeps
// the current one.
type PageInfo struct {
	Route string `json:"pageRoute"`
	URL   string `json:"url,omitempty"`
}

// OnScriptOrResourceError handles a global error event. Resource failures
// are also kept in the resource defect list.
func (c *Collector) OnScriptOrResourceError(event classify.ErrorEvent) model.TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := classify.Error(event, c.timestamp())
	c.saveBreadcrumb(out.Breadcrumb)
	if out.Resource != nil {
		c.resources.Push(*out.Resource)
	}
	c.logger.Debug().
		Str("event_type", event.Type).
		Bool("resource", out.Resource != nil).
		Msg("Error captured")
	return c.enqueue(out.Data, false)
}

// OnUnhandledRejection handles a promise rejection nobody caught.
func (c *Collector) OnUnhandledRejection(name, reason, stack string) model.TraceRecord {
	return c.OnScriptOrResourceError(classify.Rejection(name, reason, stack))
}

// OnClick records a click breadcrumb when click watching is on.
func (c *Collector) OnClick(event ClickEvent) {
	if !c.cfg.ClickWatch {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.saveBreadcrumb(model.Breadcrumb{
		Name:     "click",
		Level:    model.SeverityNormal,
		Type:     model.BreadcrumbClick,
		Category: model.CategoryUser,
		Message:  event.InnerHTML,
		Time:     c.timestamp(),
	})
}

// OnFetchBefore records the outgoing request as a breadcrumb.
func (c *Collector) OnFetchBefore(req FetchRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.saveBreadcrumb(model.Breadcrumb{
		Name:     "fetch",
		Level:    model.SeverityNormal,
		Type:     model.BreadcrumbFetch,
		Category: model.CategoryHTTP,
		Message:  req.URL,
		Time:     c.timestamp(),
		Request: &model.RequestInfo{
			Method:  req.Method,
			URL:     req.URL,
			Options: model.CloneMap(req.Options),
		},
	})
}

// OnFetchAfter records a completed request and queues an HTTP record whose
// trace id is the upstream request id when one is present.
func (c *Collector) OnFetchAfter(res FetchResult) model.TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timestamp()
	c.saveBreadcrumb(model.Breadcrumb{
		Name:     "fetch-response-info",
		Level:    model.SeverityNormal,
		Type:     model.BreadcrumbFetch,
		Category: model.CategoryHTTP,
		Message:  strconv.Itoa(res.Status),
		Time:     now,
		Response: &model.ResponseInfo{Status: res.Status, StatusText: res.StatusText},
	})
	return c.enqueue(fetchData(res, "fetch-response-info", model.SeverityInfo, now), true)
}

// OnFetchError records a failed request and queues a critical HTTP record.
func (c *Collector) OnFetchError(res FetchResult) model.TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timestamp()
	c.saveBreadcrumb(model.Breadcrumb{
		Name:     "fetch-response-error",
		Level:    model.SeverityCritical,
		Type:     model.BreadcrumbFetch,
		Category: model.CategoryHTTP,
		Message:  res.StatusText,
		Time:     now,
		Response: &model.ResponseInfo{Status: res.Status, StatusText: res.StatusText},
	})
	// A failed call that carried an upstream request id joins that trace.
	return c.enqueue(fetchData(res, "fetch-error", model.SeverityCritical, now), true)
}

func fetchData(res FetchResult, name string, level model.Severity, now int64) *model.FetchData {
	return &model.FetchData{
		BaseData: model.BaseData{
			DataID:  hashing.Fetch(res.URL, res.Method, res.Status, res.StatusText),
			Name:    name,
			Level:   level,
			Message: res.StatusText,
			Time:    now,
			Type:    model.DataTypeHTTP,
		},
		RequestID:   res.TraceID,
		ElapsedTime: res.ElapsedTime,
		Method:      res.Method,
		HTTPType:    "fetch",
		URL:         res.URL,
		Body:        res.Body,
		Status:      res.Status,
		Response:    model.CloneValue(res.Response),
	}
}

// OnPerfMetric merges a vitals sample into the session's perf record.
// Samples are ignored when perf watching is off or the record has already
// been sent.
func (c *Collector) OnPerfMetric(m perf.Metric) error {
	if c.perf == nil {
		return nil
	}
	err := c.perf.Merge(m)
	switch {
	case errors.Is(err, perf.ErrFlushed):
		c.logger.Debug().Str("metric", string(m.Name)).Msg("Perf sample after flush ignored")
		return nil
	case err != nil:
		c.logger.Warn().Err(err).Str("metric", string(m.Name)).Msg("Perf sample rejected")
		return err
	}
	return nil
}

// OnResourceTiming keeps slow resource loads in the resource defect list.
// It reports whether the entry was recorded.
func (c *Collector) OnResourceTiming(entry classify.ResourceTiming) bool {
	if !c.cfg.ResourceWatch {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := classify.Timing(entry, c.timestamp())
	if !ok {
		return false
	}
	c.resources.Push(*data)
	c.logger.Debug().
		Str("url", data.URL).
		Float64("duration", entry.Duration).
		Msg("Slow resource recorded")
	return true
}

// OnConnectionChange updates the connection class reported in records.
func (c *Collector) OnConnectionChange(t model.EffectiveType) {
	c.env.SetEffectiveType(t)
}

// OnOnlineChange updates the online flag reported in records.
func (c *Collector) OnOnlineChange(online bool) {
	c.env.SetOnline(online)
}

// OnVisibilityChange flushes the perf record when the page becomes hidden
// and the trigger runs in hidden mode.
func (c *Collector) OnVisibilityChange(ctx context.Context, hidden bool) bool {
	if c.trigger == nil {
		return false
	}
	return c.flushPerf(ctx, c.trigger.VisibilityChanged(hidden))
}

// OnPageHide flushes the perf record when the trigger runs in unload mode.
func (c *Collector) OnPageHide(ctx context.Context) bool {
	if c.trigger == nil {
		return false
	}
	return c.flushPerf(ctx, c.trigger.PageHide())
}

// flushPerf sends the perf record straight to the sender, bypassing the
// queue. It reports whether a record was sent.
func (c *Collector) flushPerf(ctx context.Context, fired bool) bool {
	if !fired {
		return false
	}
	snapshot, first := c.perf.Flush()
	if !first {
		return false
	}

	c.mu.Lock()
	rec := c.builder.Build(&snapshot, false, c.buildContext())
	c.mu.Unlock()

	// The flush is one-shot, so the send must outlive the caller.
	if err := c.sender.Send(context.WithoutCancel(ctx), rec); err != nil {
		c.logger.Warn().Err(err).Str("trace_id", rec.TraceID).Msg("Failed to send perf record")
		return true
	}
	c.logger.Debug().Str("trace_id", rec.TraceID).Str("trace_level", string(rec.Level)).Msg("Perf record sent")
	return true
}

// Info queues an informational custom log.
func (c *Collector) Info(message, tag string) model.TraceRecord {
	return c.customLog("customer-info", model.SeverityInfo, message, tag)
}

// Warn queues a warning custom log.
func (c *Collector) Warn(message, tag string) model.TraceRecord {
	return c.customLog("customer-warning", model.SeverityWarning, message, tag)
}

// Error queues an error custom log.
func (c *Collector) Error(message, tag string) model.TraceRecord {
	return c.customLog("customer-error", model.SeverityError, message, tag)
}

func (c *Collector) customLog(name string, level model.Severity, message, tag string) model.TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timestamp()
	c.saveBreadcrumb(model.Breadcrumb{
		Name:     "customer-log",
		Level:    level,
		Type:     model.BreadcrumbCustomLog,
		Category: model.CategoryDebug,
		Message:  message,
		Time:     now,
	})
	return c.enqueue(&model.LogData{
		BaseData: model.BaseData{
			DataID:  hashing.Log(message, tag),
			Name:    name,
			Level:   level,
			Message: message,
			Time:    now,
			Type:    model.DataTypeLog,
		},
		Tag: tag,
	}, false)
}

// SetUserInfo replaces the user fields of the user block. The fingerprint
// id is kept.
func (c *Collector) SetUserInfo(u UserDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user.UserID = u.UserID
	c.user.UserName = u.UserName
	c.user.Token = u.Token
	c.user.ServerID = u.ServerID
}

// SetPageInfo sets the route, and optionally the URL, reported in records.
func (c *Collector) SetPageInfo(info PageInfo) {
	c.mu.Lock()
	c.pageRoute = info.Route
	c.mu.Unlock()

	if info.URL != "" {
		c.env.SetURL(info.URL)
	}
}

// PageView records a route change and queues a page view record.
func (c *Collector) PageView(route string) model.TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pageRoute = route
	return c.enqueue(&model.PageViewData{
		BaseData: model.BaseData{
			DataID:  hashing.PageView(route),
			Name:    "pageview",
			Level:   model.SeverityInfo,
			Message: route,
			Time:    c.timestamp(),
			Type:    model.DataTypePageView,
		},
		Route: route,
	}, false)
}
