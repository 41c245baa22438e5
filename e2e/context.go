// Package e2e drives the whole HTTP surface with Gherkin scenarios. Each
// scenario gets a fresh server, a fake blood bank backend and a cookie jar
// standing in for the browser.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"bloodlink/internal/bloodbank/client"
	"bloodlink/internal/platform/metrics"
	"bloodlink/internal/session"
	httptransport "bloodlink/internal/transport/http"
)

// TestContext holds per-scenario state shared by every step package.
type TestContext struct {
	server  *httptest.Server
	backend *httptest.Server
	browser *http.Client

	lastStatus int
	lastBody   []byte

	mu          sync.Mutex
	rejectNext  bool
	submissions []map[string]any
}

// Start launches the application and its fake backend.
func (tc *TestContext) Start() error {
	tc.backend = httptest.NewServer(http.HandlerFunc(tc.serveBackend))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	manager := session.NewManager(session.NewInMemoryBackend(), client.New(tc.backend.URL), session.WithMetrics(m))
	tc.server = httptest.NewServer(httptransport.NewRouter(httptransport.RouterConfig{
		Sessions: manager,
		Metrics:  m,
		Gatherer: reg,
	}))

	jar, err := cookiejar.New(nil)
	if err != nil {
		tc.Close()
		return err
	}
	tc.browser = &http.Client{Jar: jar}
	return nil
}

// Close stops whatever Start launched.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
	if tc.backend != nil {
		tc.backend.Close()
	}
}

func (tc *TestContext) serveBackend(w http.ResponseWriter, r *http.Request) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	tc.submissions = append(tc.submissions, body)
	if tc.rejectNext {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"message":"updated"}`))
}

// SetBackendRejects makes the fake backend answer 500 (true) or 200 (false).
func (tc *TestContext) SetBackendRejects(reject bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.rejectNext = reject
}

// Submissions returns the request bodies the backend received so far.
func (tc *TestContext) Submissions() []map[string]any {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]map[string]any(nil), tc.submissions...)
}

func (tc *TestContext) GET(path string) error    { return tc.do(http.MethodGet, path, nil) }
func (tc *TestContext) DELETE(path string) error { return tc.do(http.MethodDelete, path, nil) }
func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}
func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body)
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.server.URL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.browser.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

// LastStatus is the status of the most recent response.
func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// GetResponseField resolves a dotted path such as "view.operator_name" in the
// last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var current any
	if err := json.Unmarshal(tc.lastBody, &current); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.lastBody)
		}
	}
	return current, nil
}
