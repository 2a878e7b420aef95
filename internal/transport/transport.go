// Package transport dispatches outbound HTTP requests for the runner.
//
// The Dispatcher interface is the single suspension point in the system:
// everything else is synchronous. The runner awaits each dispatch fully
// before recording its result, so at most one request is in flight.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Template describes the fixed parts of a request: method, url, and
// headers. Scenario inputs are overlaid as the body; the template's
// method, headers, and url are never touched by the overlay.
type Template struct {
	Method string            `yaml:"method" json:"method"`
	URL    string            `yaml:"url" json:"url"`
	Header map[string]string `yaml:"header,omitempty" json:"header,omitempty"`
}

// Request is a fully materialized outbound request.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// Overlay builds a Request from the template with input serialized as
// the JSON body. A nil input produces an empty body.
func (t Template) Overlay(input map[string]any) (Request, error) {
	req := Request{
		Method: t.Method,
		URL:    t.URL,
		Header: t.Header,
	}
	if input != nil {
		body, err := json.Marshal(input)
		if err != nil {
			return Request{}, fmt.Errorf("serialize input: %w", err)
		}
		req.Body = body
	}
	return req, nil
}

// Response is the observed outcome of a dispatched request.
type Response struct {
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
	Size       int64
}

// DecodeJSON decodes the response body as JSON. An empty body decodes to
// nil without error.
func (r *Response) DecodeJSON() (any, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(r.Body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return decoded, nil
}

// Dispatcher sends a request and yields either a transport error or a
// response. Implementations must respect ctx cancellation.
type Dispatcher interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HTTP is the production Dispatcher on net/http.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates a dispatcher with the given request timeout.
// A zero timeout means no client-level timeout; the runner itself
// implements no cancellation, so callers should set one.
func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{client: &http.Client{Timeout: timeout}}
}

// Do dispatches the request and reads the full response body.
func (h *HTTP) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("dispatch %s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Elapsed:    elapsed,
		Size:       int64(len(respBody)),
	}, nil
}
