// Package browsertest provides an in-process fake of the browser session
// service for tests.
package browsertest

import (
	"agent-textweb/internal/config"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// HomeSnapshot is the canonical single-element page used across tests.
const HomeSnapshot = `{"view":"HOME","elements":{"1":{"semantic":"button","text":"Login"}},"meta":{"url":"http://x","title":"X","totalRefs":1}}`

// HomeText is HomeSnapshot rendered with default formatting.
const HomeText = "URL: http://x\nTitle: X\n\nHOME\n\nInteractive elements:\n[1] button: Login"

// Request is one call received by the fake service.
type Request struct {
	Method  string
	Path    string
	Body    map[string]any
	RawBody string
	Header  http.Header
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	status   int
	body     string
	delay    time.Duration
}

// NewServer starts a fake service answering every route with status 200 and
// body. It is closed when the test ends.
func NewServer(t testing.TB, body string) *Server {
	t.Helper()

	s := &Server{status: http.StatusOK, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	req := Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		RawBody: string(raw),
		Header:  r.Header.Clone(),
	}

	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &req.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	status, body, delay := s.status, s.body, s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// Respond changes the status and body of subsequent responses.
func (s *Server) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.body = body
}

// Delay holds every subsequent response for d.
func (s *Server) Delay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = d
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}, false
	}

	return s.requests[len(s.requests)-1], true
}

// Config returns an application config pointing at baseURL.
func Config(baseURL string) *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{Mode: config.ModeConsole, LogLevel: "debug"},
		TextWebConfig: &config.TextWebConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
		AIConfig: &config.AIConfig{Provider: config.ProviderAnthropic, MaxIterations: 4},
	}
}
