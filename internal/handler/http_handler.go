package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gosight/gosight/tracer/internal/classify"
	"github.com/gosight/gosight/tracer/internal/collector"
	"github.com/gosight/gosight/tracer/internal/model"
	"github.com/gosight/gosight/tracer/internal/perf"
)

const maxBodyBytes = 1 << 20

// HookHandler exposes the collector hooks over HTTP so instrumentation
// running outside the process can feed it.
type HookHandler struct {
	collector *collector.Collector
}

func NewHookHandler(c *collector.Collector) *HookHandler {
	return &HookHandler{collector: c}
}

// Mount registers every hook route on r.
func (h *HookHandler) Mount(r chi.Router) {
	r.Route("/v1/hooks", func(r chi.Router) {
		r.Post("/error", h.HandleError)
		r.Post("/rejection", h.HandleRejection)
		r.Post("/click", h.HandleClick)
		r.Post("/fetch/before", h.HandleFetchBefore)
		r.Post("/fetch/after", h.HandleFetchAfter)
		r.Post("/fetch/error", h.HandleFetchError)
		r.Post("/perf", h.HandlePerf)
		r.Post("/resource-timing", h.HandleResourceTiming)
		r.Post("/connection", h.HandleConnection)
		r.Post("/visibility", h.HandleVisibility)
		r.Post("/pagehide", h.HandlePageHide)
		r.Post("/log", h.HandleLog)
		r.Post("/user", h.HandleUser)
		r.Post("/page", h.HandlePage)
		r.Post("/pageview", h.HandlePageView)
	})
	r.Get("/v1/state", h.HandleState)
}

type HookResponse struct {
	Success bool   `json:"success"`
	TraceID string `json:"trace_id,omitempty"`
	DataID  int32  `json:"data_id,omitempty"`
	Flushed *bool  `json:"flushed,omitempty"`
	Message string `json:"message,omitempty"`
}

type RejectionRequest struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Stack  string `json:"stack"`
}

type ConnectionRequest struct {
	EffectiveType string `json:"effectiveType"`
	Online        *bool  `json:"online"`
}

type VisibilityRequest struct {
	Hidden bool `json:"hidden"`
}

type LogRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

type PageViewRequest struct {
	Route string `json:"route"`
}

type StateResponse struct {
	PageID      string               `json:"page_id"`
	QueueLen    int                  `json:"queue_len"`
	Breadcrumbs []model.Breadcrumb   `json:"breadcrumbs"`
	Resources   []model.ResourceData `json:"resources"`
	Connection  model.Connection     `json:"connection"`
}

// decode reads a JSON body into v. It writes a 400 and returns false on
// failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return false
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func accepted(w http.ResponseWriter) {
	writeJSON(w, http.StatusAccepted, HookResponse{Success: true})
}

func acceptedRecord(w http.ResponseWriter, rec model.TraceRecord) {
	writeJSON(w, http.StatusAccepted, HookResponse{
		Success: true,
		TraceID: rec.TraceID,
		DataID:  rec.DataID(),
	})
}

func acceptedFlush(w http.ResponseWriter, flushed bool) {
	writeJSON(w, http.StatusAccepted, HookResponse{Success: true, Flushed: &flushed})
}

func (h *HookHandler) HandleError(w http.ResponseWriter, r *http.Request) {
	var event classify.ErrorEvent
	if !decode(w, r, &event) {
		return
	}
	if event.Type == "" {
		event.Type = "error"
	}
	acceptedRecord(w, h.collector.OnScriptOrResourceError(event))
}

func (h *HookHandler) HandleRejection(w http.ResponseWriter, r *http.Request) {
	var req RejectionRequest
	if !decode(w, r, &req) {
		return
	}
	acceptedRecord(w, h.collector.OnUnhandledRejection(req.Name, req.Reason, req.Stack))
}

func (h *HookHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	var event collector.ClickEvent
	if !decode(w, r, &event) {
		return
	}
	h.collector.OnClick(event)
	accepted(w)
}

func (h *HookHandler) HandleFetchBefore(w http.ResponseWriter, r *http.Request) {
	var req collector.FetchRequest
	if !decode(w, r, &req) {
		return
	}
	h.collector.OnFetchBefore(req)
	accepted(w)
}

func (h *HookHandler) HandleFetchAfter(w http.ResponseWriter, r *http.Request) {
	var res collector.FetchResult
	if !decode(w, r, &res) {
		return
	}
	acceptedRecord(w, h.collector.OnFetchAfter(res))
}

func (h *HookHandler) HandleFetchError(w http.ResponseWriter, r *http.Request) {
	var res collector.FetchResult
	if !decode(w, r, &res) {
		return
	}
	acceptedRecord(w, h.collector.OnFetchError(res))
}

func (h *HookHandler) HandlePerf(w http.ResponseWriter, r *http.Request) {
	var m perf.Metric
	if !decode(w, r, &m) {
		return
	}
	if err := h.collector.OnPerfMetric(m); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, perf.ErrUnknownMetric) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, HookResponse{Success: false, Message: err.Error()})
		return
	}
	accepted(w)
}

func (h *HookHandler) HandleResourceTiming(w http.ResponseWriter, r *http.Request) {
	var entry classify.ResourceTiming
	if !decode(w, r, &entry) {
		return
	}
	recorded := h.collector.OnResourceTiming(entry)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":  true,
		"recorded": recorded,
	})
}

func (h *HookHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.EffectiveType != "" {
		h.collector.OnConnectionChange(model.ParseEffectiveType(req.EffectiveType))
	}
	if req.Online != nil {
		h.collector.OnOnlineChange(*req.Online)
	}
	accepted(w)
}

func (h *HookHandler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if !decode(w, r, &req) {
		return
	}
	acceptedFlush(w, h.collector.OnVisibilityChange(r.Context(), req.Hidden))
}

func (h *HookHandler) HandlePageHide(w http.ResponseWriter, r *http.Request) {
	acceptedFlush(w, h.collector.OnPageHide(r.Context()))
}

func (h *HookHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if !decode(w, r, &req) {
		return
	}

	var rec model.TraceRecord
	switch strings.ToLower(req.Level) {
	case "", "info":
		rec = h.collector.Info(req.Message, req.Tag)
	case "warn", "warning":
		rec = h.collector.Warn(req.Message, req.Tag)
	case "error":
		rec = h.collector.Error(req.Message, req.Tag)
	default:
		writeJSON(w, http.StatusBadRequest, HookResponse{Success: false, Message: "Unknown log level"})
		return
	}
	acceptedRecord(w, rec)
}

func (h *HookHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	var req collector.UserDetails
	if !decode(w, r, &req) {
		return
	}
	h.collector.SetUserInfo(req)
	accepted(w)
}

func (h *HookHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	var req collector.PageInfo
	if !decode(w, r, &req) {
		return
	}
	h.collector.SetPageInfo(req)
	accepted(w)
}

func (h *HookHandler) HandlePageView(w http.ResponseWriter, r *http.Request) {
	var req PageViewRequest
	if !decode(w, r, &req) {
		return
	}
	acceptedRecord(w, h.collector.PageView(req.Route))
}

func (h *HookHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StateResponse{
		PageID:      h.collector.PageID(),
		QueueLen:    h.collector.QueueLen(),
		Breadcrumbs: h.collector.Breadcrumbs(),
		Resources:   h.collector.Resources(),
		Connection:  h.collector.Env().Connection(),
	})
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Trace-Id")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
