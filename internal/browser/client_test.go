package browser

import (
	"agent-textweb/internal/browser/browsertest"
	"agent-textweb/internal/entity"
	"agent-textweb/pkg/apperr"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c := NewClient(Params{
		Config: browsertest.Config(baseURL),
		Logger: zaptest.NewLogger(t),
	})
	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func TestClient_Do_RequestShapes(t *testing.T) {
	tests := []struct {
		name   string
		req    entity.ActionRequest
		method string
		path   string
		body   map[string]any
	}{
		{
			name:   "navigate",
			req:    entity.NavigateRequest("https://example.com"),
			method: http.MethodPost,
			path:   "/navigate",
			body:   map[string]any{"url": "https://example.com"},
		},
		{
			name:   "click",
			req:    entity.ClickRequest("7"),
			method: http.MethodPost,
			path:   "/click",
			body:   map[string]any{"ref": float64(7)},
		},
		{
			name:   "type",
			req:    entity.TypeRequest("3", "hello"),
			method: http.MethodPost,
			path:   "/type",
			body:   map[string]any{"ref": float64(3), "text": "hello"},
		},
		{
			name:   "select",
			req:    entity.SelectRequest("4", "Canada"),
			method: http.MethodPost,
			path:   "/select",
			body:   map[string]any{"ref": float64(4), "value": "Canada"},
		},
		{
			name:   "scroll",
			req:    entity.ScrollRequest("down", 2),
			method: http.MethodPost,
			path:   "/scroll",
			body:   map[string]any{"direction": "down", "amount": float64(2)},
		},
		{
			name:   "scroll zero amount is sent",
			req:    entity.ScrollRequest("down", 0),
			method: http.MethodPost,
			path:   "/scroll",
			body:   map[string]any{"direction": "down", "amount": float64(0)},
		},
		{
			name:   "snapshot",
			req:    entity.SnapshotRequest(),
			method: http.MethodGet,
			path:   "/snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
			c := newTestClient(t, srv.URL)

			snapshot, err := c.Do(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, "HOME", snapshot.View)

			got, ok := srv.LastRequest()
			require.True(t, ok)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.body, got.Body)
			assert.NotEmpty(t, got.Header.Get("X-Request-ID"))

			if tt.method == http.MethodPost {
				assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
			} else {
				assert.Empty(t, got.RawBody)
			}
		})
	}
}

func TestClient_Call_NilBodySendsEmptyObject(t *testing.T) {
	srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
	c := newTestClient(t, srv.URL)

	_, err := c.Call(context.Background(), entity.Endpoint{Method: http.MethodPost, Path: "/scroll"}, nil)
	require.NoError(t, err)

	got, _ := srv.LastRequest()
	assert.Equal(t, "{}", got.RawBody)
}

func TestClient_Call_TrimsBaseURLSlash(t *testing.T) {
	srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
	c := newTestClient(t, srv.URL+"/")

	_, err := c.Do(context.Background(), entity.SnapshotRequest())
	require.NoError(t, err)

	got, _ := srv.LastRequest()
	assert.Equal(t, "/snapshot", got.Path)
}

func TestClient_Call_UnknownEndpoint(t *testing.T) {
	srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
	c := newTestClient(t, srv.URL)

	_, err := c.Call(context.Background(), entity.Endpoint{Method: http.MethodPost, Path: "/hover"}, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsSchemaValidation(err))
	assert.Empty(t, srv.Requests())
}

func TestClient_Call_RemoteServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		stage  any
	}{
		{name: "internal_error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "stale_ref", status: http.StatusBadRequest, body: `{"error":"ref 9 not found"}`},
		{name: "invalid_json", status: http.StatusOK, body: `<html>oops</html>`, stage: apperr.StageDecode},
		{name: "not_an_object", status: http.StatusOK, body: `[1,2,3]`, stage: apperr.StageDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
			srv.Respond(tt.status, tt.body)
			c := newTestClient(t, srv.URL)

			_, err := c.Do(context.Background(), entity.ClickRequest("9"))
			require.Error(t, err)
			assert.True(t, apperr.IsRemoteService(err))
			assert.False(t, apperr.IsTransport(err))

			status, ok := apperr.StatusCode(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, status)

			body, ok := apperr.Body(err)
			require.True(t, ok)
			assert.Equal(t, tt.body, body)

			stage, _ := apperr.Meta(err, apperr.MetaStage)
			assert.Equal(t, tt.stage, stage)

			assert.Len(t, srv.Requests(), 1, "no retry expected")
		})
	}
}

func TestClient_Call_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)

	_, err := c.Do(context.Background(), entity.SnapshotRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))
	assert.False(t, apperr.IsRemoteService(err))
}

func TestClient_Call_Timeout(t *testing.T) {
	srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
	srv.Delay(2 * time.Second)

	conf := browsertest.Config(srv.URL)
	conf.TextWebConfig.Timeout = 50 * time.Millisecond

	c := NewClient(Params{Config: conf, Logger: zaptest.NewLogger(t)})
	defer c.Close()

	_, err := c.Do(context.Background(), entity.SnapshotRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
}

func TestClient_Close(t *testing.T) {
	srv := browsertest.NewServer(t, browsertest.HomeSnapshot)
	ignore := goleak.IgnoreCurrent()

	c := NewClient(Params{Config: browsertest.Config(srv.URL), Logger: zaptest.NewLogger(t)})

	_, err := c.Do(context.Background(), entity.SnapshotRequest())
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = c.Do(context.Background(), entity.SnapshotRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))
	assert.Len(t, srv.Requests(), 1)

	goleak.VerifyNone(t, ignore)
}

func TestClient_ReusesConnection(t *testing.T) {
	var opened atomic.Int32

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(browsertest.HomeSnapshot))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			opened.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	for i := 0; i < 5; i++ {
		_, err := c.Do(context.Background(), entity.SnapshotRequest())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), opened.Load())
}

func TestDecodeSnapshot(t *testing.T) {
	raw := []byte(`{
		"view": "grid",
		"elements": {
			"10": {"semantic": "button", "text": "Next"},
			"2": {"semantic": "input"},
			"5": {"text": null}
		},
		"meta": {"url": "https://a.test", "title": "A", "totalRefs": 3, "viewport": {"w": 120}}
	}`)

	snapshot, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	assert.Equal(t, "grid", snapshot.View)
	assert.Equal(t, []entity.ElementEntry{
		{Ref: "10", Element: entity.Element{Semantic: "button", Text: "Next"}},
		{Ref: "2", Element: entity.Element{Semantic: "input"}},
		{Ref: "5"},
	}, snapshot.Elements)
	assert.Equal(t, "https://a.test", snapshot.Meta.URL)
	assert.Equal(t, "A", snapshot.Meta.Title)
	require.NotNil(t, snapshot.Meta.TotalRefs)
	assert.Equal(t, 3, *snapshot.Meta.TotalRefs)
}

func TestDecodeSnapshot_MissingSections(t *testing.T) {
	snapshot, err := DecodeSnapshot([]byte(`{}`))
	require.NoError(t, err)

	assert.Empty(t, snapshot.View)
	assert.Empty(t, snapshot.Elements)
	assert.Empty(t, snapshot.Meta.URL)
	assert.Nil(t, snapshot.Meta.TotalRefs)
}
