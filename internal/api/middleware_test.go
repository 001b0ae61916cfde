package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func clientRequest(client string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	if client != "" {
		req.Header.Set("X-Client-ID", client)
	}
	return req
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	handler := RateLimitMiddleware(5)(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, clientRequest("scheduler-a"))

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	handler := RateLimitMiddleware(3)(okHandler())

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), clientRequest("scheduler-a"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, clientRequest("scheduler-a"))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_UsesClientIDAsKey(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), clientRequest("scheduler-a"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, clientRequest("scheduler-b"))
	if w.Code != http.StatusOK {
		t.Errorf("scheduler-b should not be rate-limited, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, clientRequest("scheduler-a"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("scheduler-a should be rate-limited, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_FallsBackToRemoteAddr(t *testing.T) {
	handler := RateLimitMiddleware(1)(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), clientRequest(""))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, clientRequest(""))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected anonymous caller to be limited by address, got %d", w.Code)
	}
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	rl := &rateLimiter{requests: make(map[string][]time.Time), limit: 1, window: time.Minute}
	now := time.Now()

	if !rl.allow("a", now) {
		t.Fatal("first request should pass")
	}
	if rl.allow("a", now.Add(30*time.Second)) {
		t.Error("second request inside the window should be blocked")
	}
	if !rl.allow("a", now.Add(61*time.Second)) {
		t.Error("request after the window should pass")
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	handler := AdminAuthMiddleware("s3cret")(okHandler())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"not bearer", "s3cret", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAdminAuthMiddleware_NoTokenConfigured(t *testing.T) {
	handler := AdminAuthMiddleware("")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("PUT", "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected open access without a token, got %d", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	called := false
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, clientRequest("test-client"))

	if !called {
		t.Error("inner handler was not called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
