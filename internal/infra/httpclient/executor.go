package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sihhealth/healthbot/internal/domain"
)

const defaultMaxBodyBytes = 1 << 20 // 1MB

// Executor executes HTTP requests with timing.
type Executor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	log          *slog.Logger
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the default timeout applied to requests.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) ExecutorOption {
	return func(e *Executor) { e.maxBodyBytes = n }
}

// WithLogger enables debug logging of requests with sensitive headers masked.
func WithLogger(log *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.log = log }
}

// NewExecutor builds an Executor with a default client and timeout.
func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	e := &Executor{
		client:       New(cfg),
		timeout:      cfg.Timeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do executes the request. Any failure to get a complete response is a
// *domain.TransportError; HTTP error statuses are returned as data.
func (e *Executor) Do(ctx context.Context, req *http.Request) (domain.Response, error) {
	start := time.Now()
	ctxWithTimeout := ctx
	cancel := func() {}
	if e.timeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	resp, err := e.client.Do(req.WithContext(ctxWithTimeout))
	latency := time.Since(start)
	if err != nil {
		e.debug(req, 0, latency, err)
		return domain.Response{LatencyMS: latency.Milliseconds()}, &domain.TransportError{Op: "httpclient.do", Err: err}
	}
	defer resp.Body.Close()

	body, err := readBounded(resp.Body, e.maxBodyBytes)
	latency = time.Since(start)
	if err != nil {
		e.debug(req, resp.StatusCode, latency, err)
		return domain.Response{StatusCode: resp.StatusCode, LatencyMS: latency.Milliseconds()}, &domain.TransportError{Op: "httpclient.read", Err: err}
	}

	e.debug(req, resp.StatusCode, latency, nil)

	return domain.Response{
		StatusCode: resp.StatusCode,
		Headers:    cloneHeaders(resp.Header),
		Body:       body,
		LatencyMS:  latency.Milliseconds(),
	}, nil
}

func (e *Executor) debug(req *http.Request, status int, latency time.Duration, err error) {
	if e.log == nil {
		return
	}
	attrs := []any{
		"method", req.Method,
		"url", req.URL.String(),
		"status", status,
		"latency_ms", latency.Milliseconds(),
		"headers", MaskHeaders(req.Header),
	}
	if err != nil {
		e.log.Warn("http.request.failed", append(attrs, "err", err)...)
		return
	}
	e.log.Debug("http.request", attrs...)
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil {
		return nil, err
	}
	return b, nil
}

func cloneHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
