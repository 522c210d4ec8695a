// Package testutil provides testing utilities for the bulk lookup tool.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines one scripted response of the mock Mouser server.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// ReceivedRequest captures one request for assertions.
type ReceivedRequest struct {
	APIKey           string
	MouserPartNumber string
	ContentType      string
}

// MockMouser is a configurable mock of the Mouser part number search
// endpoint. Responses are served in script order; once the script is
// exhausted every request gets the final entry again.
type MockMouser struct {
	server *httptest.Server

	mu        sync.Mutex
	script    []MockResponse
	served    int
	requests  []ReceivedRequest
	onRequest func(r *http.Request)
}

// NewMockMouser creates a mock server with the given response script.
// An empty script answers every request with an empty usable response.
func NewMockMouser(script ...MockResponse) *MockMouser {
	mock := &MockMouser{script: script}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, captureRequest(r))
		resp := mock.next()
		hook := mock.onRequest
		mock.mu.Unlock()

		if hook != nil {
			hook(r)
		}

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// next picks the response for the current request. Callers hold mu.
func (m *MockMouser) next() MockResponse {
	if len(m.script) == 0 {
		return MockResponse{StatusCode: http.StatusOK, Body: PartsBody()}
	}

	idx := m.served
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	m.served++
	return m.script[idx]
}

// captureRequest extracts the fields tests assert on.
func captureRequest(r *http.Request) ReceivedRequest {
	captured := ReceivedRequest{
		APIKey:      r.URL.Query().Get("apiKey"),
		ContentType: r.Header.Get("Content-Type"),
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return captured
	}

	var req struct {
		SearchByPartRequest struct {
			MouserPartNumber string `json:"mouserPartNumber"`
		} `json:"searchByPartRequest"`
	}
	if json.Unmarshal(body, &req) == nil {
		captured.MouserPartNumber = req.SearchByPartRequest.MouserPartNumber
	}

	return captured
}

// URL returns the mock server URL.
func (m *MockMouser) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockMouser) Close() {
	m.server.Close()
}

// OnRequest registers a hook invoked for every incoming request.
func (m *MockMouser) OnRequest(hook func(r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRequest = hook
}

// RequestCount returns the number of requests served so far.
func (m *MockMouser) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the captured requests.
func (m *MockMouser) Requests() []ReceivedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ReceivedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// MockPart mirrors the upstream part record shape.
type MockPart struct {
	ManufacturerPartNumber string `json:"ManufacturerPartNumber,omitempty"`
	Manufacturer           string `json:"Manufacturer,omitempty"`
	ImagePath              string `json:"ImagePath,omitempty"`
	Description            string `json:"Description,omitempty"`
}

// PartsBody builds a usable response body containing the given parts.
func PartsBody(parts ...MockPart) string {
	body := map[string]interface{}{
		"Errors": []interface{}{},
		"SearchResults": map[string]interface{}{
			"NumberOfResult": len(parts),
			"Parts":          parts,
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// ErrorBody builds a response whose upstream error list is non-empty.
func ErrorBody(code, message string) string {
	body := map[string]interface{}{
		"Errors": []map[string]interface{}{
			{"Id": 0, "Code": code, "Message": message},
		},
		"SearchResults": nil,
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// OKResponse scripts a 200 with the given parts.
func OKResponse(parts ...MockPart) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Body: PartsBody(parts...)}
}

// ThrottledResponse scripts a transient 503.
func ThrottledResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       `{"error": "service unavailable"}`,
	}
}

// ForbiddenResponse scripts a transient 403.
func ForbiddenResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"error": "forbidden"}`,
	}
}

// RejectedResponse scripts a permanent 400.
func RejectedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       `{"error": "bad request"}`,
	}
}
