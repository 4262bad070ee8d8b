package request

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
)

type echoResponse struct {
	Value string `json:"value"`
}

type strictResponse struct {
	Value string `json:"value"`
}

func (s *strictResponse) Validate() error {
	if s.Value == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func TestSend(t *testing.T) {
	var hits int32
	r := mux.NewRouter()
	r.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{"value":"hello"}`)
	}).Methods("GET")
	r.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}).Methods("GET")
	r.HandleFunc("/fail", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"nope"}`, http.StatusBadRequest)
	}).Methods("GET")
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := New(srv.URL)

	t.Run("decodes a valid response", func(t *testing.T) {
		var res echoResponse
		if err := c.NewRequest(http.MethodGet, "/ok").Send(context.Background(), &res); err != nil {
			t.Fatal(err)
		}
		if res.Value != "hello" {
			t.Errorf("Value = %q, want hello", res.Value)
		}
	})

	t.Run("shape validation failure fails the call", func(t *testing.T) {
		var res strictResponse
		err := c.NewRequest(http.MethodGet, "/empty").Send(context.Background(), &res)
		if err == nil {
			t.Fatal("expected shape error")
		}
		if _, ok := err.(*Error); !ok {
			t.Errorf("error type = %T, want *Error", err)
		}
	})

	t.Run("http error carries the server message", func(t *testing.T) {
		var res echoResponse
		err := c.NewRequest(http.MethodGet, "/fail").Send(context.Background(), &res)
		reqErr, ok := err.(*Error)
		if !ok {
			t.Fatalf("error type = %T, want *Error", err)
		}
		if reqErr.Status != http.StatusBadRequest {
			t.Errorf("Status = %d", reqErr.Status)
		}
		if reqErr.Message != "nope" {
			t.Errorf("Message = %q, want nope", reqErr.Message)
		}
	})

	t.Run("caching skips repeated network calls", func(t *testing.T) {
		atomic.StoreInt32(&hits, 0)
		for i := 0; i < 3; i++ {
			var res echoResponse
			if err := c.NewRequest(http.MethodGet, "/ok").WithCache().Send(context.Background(), &res); err != nil {
				t.Fatal(err)
			}
		}
		if got := atomic.LoadInt32(&hits); got != 1 {
			t.Errorf("server hits = %d, want 1", got)
		}
	})
}

func TestRetry(t *testing.T) {
	t.Run("recovers from transient failures", func(t *testing.T) {
		var attempts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `{"value":"finally"}`)
		}))
		defer srv.Close()

		var res echoResponse
		err := New(srv.URL).NewRequest(http.MethodGet, "/").WithRetry().Send(context.Background(), &res)
		if err != nil {
			t.Fatal(err)
		}
		if res.Value != "finally" {
			t.Errorf("Value = %q", res.Value)
		}
		if got := atomic.LoadInt32(&attempts); got != 3 {
			t.Errorf("attempts = %d, want 3", got)
		}
	})

	t.Run("exhausted retries surface the error", func(t *testing.T) {
		var attempts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&attempts, 1)
			http.Error(w, "down", http.StatusInternalServerError)
		}))
		defer srv.Close()

		var res echoResponse
		err := New(srv.URL).NewRequest(http.MethodGet, "/").WithRetry().Send(context.Background(), &res)
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if got := atomic.LoadInt32(&attempts); got != maxAttempts {
			t.Errorf("attempts = %d, want %d", got, maxAttempts)
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var attempts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&attempts, 1)
			http.Error(w, "bad", http.StatusBadRequest)
		}))
		defer srv.Close()

		var res echoResponse
		if err := New(srv.URL).NewRequest(http.MethodGet, "/").WithRetry().Send(context.Background(), &res); err == nil {
			t.Fatal("expected error")
		}
		if got := atomic.LoadInt32(&attempts); got != 1 {
			t.Errorf("attempts = %d, want 1", got)
		}
	})
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("GET", "http://x/y", nil)
	b := cacheKey("GET", "http://x/y", []byte(`{"v":1}`))
	c := cacheKey("POST", "http://x/y", nil)
	if a == b || a == c || b == c {
		t.Errorf("cache keys collide: %q %q %q", a, b, c)
	}
	if a != cacheKey("GET", "http://x/y", nil) {
		t.Error("cache key is not deterministic")
	}
}
