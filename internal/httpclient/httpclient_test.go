package httpclient

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echo is what the test server reports back about a request.
type echo struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Query       map[string]string `json:"query"`
	ContentType string            `json:"content_type"`
	Accept      string            `json:"accept"`
	Custom      string            `json:"custom"`
	Body        string            `json:"body"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		e := echo{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       map[string]string{},
			ContentType: r.Header.Get("Content-Type"),
			Accept:      r.Header.Get("Accept"),
			Custom:      r.Header.Get("X-Custom"),
			Body:        string(body),
		}

		for k := range r.URL.Query() {
			e.Query[k] = r.URL.Query().Get(k)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(e)
	})

	mux.HandleFunc("/list", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[1,2,3]`))
	})

	mux.HandleFunc("/text", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("plain body"))
	})

	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"not found"}`))
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func decodeEcho(t *testing.T, out any) echo {
	t.Helper()

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var e echo
	require.NoError(t, json.Unmarshal(raw, &e))

	return e
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		url     string
		want    string
	}{
		{"relative with base", "http://api.local", "/users", "http://api.local/users"},
		{"absolute with base", "http://api.local", "https://other.local/x", "https://other.local/x"},
		{"relative without base", "", "/users", "/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.baseURL, 0).ResolveURL(tt.url))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("", 0)

	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, "application/json", c.DefaultHeaders["Content-Type"])
	assert.Equal(t, "application/json", c.DefaultHeaders["Accept"])
}

func TestGet(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, time.Second)

	out, err := c.Get("/echo", map[string]any{"page": 2, "status": "active"}, map[string]string{"X-Custom": "yes"})
	require.NoError(t, err)

	e := decodeEcho(t, out)
	assert.Equal(t, http.MethodGet, e.Method)
	assert.Equal(t, "/echo", e.Path)
	assert.Equal(t, map[string]string{"page": "2", "status": "active"}, e.Query)
	assert.Equal(t, "application/json", e.Accept)
	assert.Equal(t, "yes", e.Custom)
	assert.Empty(t, e.Body)
}

func TestPost(t *testing.T) {
	srv := newTestServer(t)

	// absolute urls ignore the base url
	c := New("http://unused.invalid", time.Second)

	out, err := c.Post(srv.URL+"/echo", map[string]any{"name": "example"}, nil,
		map[string]string{"accept": "application/vnd.api+json"})
	require.NoError(t, err)

	e := decodeEcho(t, out)
	assert.Equal(t, http.MethodPost, e.Method)
	assert.JSONEq(t, `{"name":"example"}`, e.Body)
	assert.Equal(t, "application/json", e.ContentType)
	assert.Equal(t, "application/vnd.api+json", e.Accept)
}

func TestRequestJSONArray(t *testing.T) {
	srv := newTestServer(t)

	out, err := New(srv.URL, time.Second).Get("/list", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, out)
}

func TestRequestText(t *testing.T) {
	srv := newTestServer(t)

	out, err := New(srv.URL, time.Second).Get("/text", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "plain body"}, out)
}

func TestRequestStatusError(t *testing.T) {
	srv := newTestServer(t)

	_, err := New(srv.URL, time.Second).Request(http.MethodDelete, "/missing", Options{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, http.MethodDelete, statusErr.Method)
	assert.Equal(t, srv.URL+"/missing", statusErr.URL)
	assert.JSONEq(t, `{"detail":"not found"}`, statusErr.Body)
}

func TestRequestTimeout(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, 5*time.Second)

	start := time.Now()
	_, err := c.Request(http.MethodGet, "/slow", Options{Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestRequestConnectionRefused(t *testing.T) {
	srv := newTestServer(t)
	addr := srv.URL
	srv.Close()

	_, err := New(addr, time.Second).Get("/echo", nil, nil)
	assert.Error(t, err)
}

func TestRequestUnsupportedScheme(t *testing.T) {
	_, err := New("", time.Second).Get("ftp://files.local/x", nil, nil)
	assert.Error(t, err)
}

func TestEncodeParams(t *testing.T) {
	got := encodeParams("a=1", map[string]any{"b": true, "c": []string{"x", "y"}, "skip": nil})
	assert.Equal(t, "a=1&b=true&c=x&c=y", got)
}
