package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/errors"
)

func fastClient(c cache.Cache) *Client {
	return NewClient(ClientOptions{Cache: c, Delay: time.Millisecond, Namespace: "test"})
}

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Write([]byte(`[{"id":"1"},{"id":"2"}]`))
	}))
	defer srv.Close()

	var got []struct{ ID string }
	if err := fastClient(nil).GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].ID != "2" {
		t.Errorf("decoded %+v", got)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := fastClient(nil).Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("Get() error after transient failures: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		code   errors.Code
		calls  int32
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound, 1},
		{http.StatusBadRequest, errors.ErrCodeNetwork, 1},
		{http.StatusTooManyRequests, errors.ErrCodeNetwork, DefaultAttempts},
		{http.StatusInternalServerError, errors.ErrCodeNetwork, DefaultAttempts},
	}
	for _, tt := range tests {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(tt.status)
		}))

		_, err := fastClient(nil).Get(context.Background(), srv.URL)
		srv.Close()

		if got := errors.GetCode(err); got != tt.code {
			t.Errorf("status %d: code = %q, want %q", tt.status, got, tt.code)
		}
		if calls.Load() != tt.calls {
			t.Errorf("status %d: calls = %d, want %d", tt.status, calls.Load(), tt.calls)
		}
	}
}

func TestClientCachesBodies(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"v":1}`))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := fastClient(fc)
	for range 3 {
		if _, err := c.Get(context.Background(), srv.URL); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}
}

func TestClientBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{`))
	}))
	defer srv.Close()

	var v map[string]any
	err := fastClient(nil).GetJSON(context.Background(), srv.URL, &v)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("GetJSON() = %v, want INVALID_FORMAT", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := fastClient(nil).Get(context.Background(), url)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Get() = %v, want NETWORK_ERROR", err)
	}
}
