package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/gosight/gosight/tracer/internal/codec"
	"github.com/gosight/gosight/tracer/internal/model"
)

const defaultHTTPTimeout = 5 * time.Second

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithGzip compresses request bodies.
func WithGzip(on bool) HTTPOption {
	return func(h *HTTP) { h.gzip = on }
}

// WithTimeout sets the client timeout. Default: 5s.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithHeaders sets headers sent with every POST.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(h *HTTP) { h.headers = headers }
}

// HTTP posts each record to the collector endpoint.
type HTTP struct {
	endpoint string
	codec    codec.Codec
	gzip     bool
	headers  map[string]string
	client   *http.Client
}

func NewHTTP(endpoint string, c codec.Codec, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		endpoint: endpoint,
		codec:    c,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTP) Send(ctx context.Context, rec model.TraceRecord) error {
	body, err := h.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("transport: encode %s: %w", rec.TraceID, err)
	}
	if h.gzip {
		if body, err = compress(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", h.codec.ContentType())
	if h.gzip {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: post %s: %w", h.endpoint, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("transport: post %s: status %d", h.endpoint, resp.StatusCode)
	}
	return nil
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("transport: gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("transport: gzip: %w", err)
	}
	return buf.Bytes(), nil
}
