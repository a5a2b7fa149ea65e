package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Middleware(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := NewRateLimiter(3, 30*time.Second)
	rl.now = func() time.Time { return now }

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/quiz/quick", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		if w := do("10.0.0.1:5000"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %v, want %v", i, w.Code, http.StatusOK)
		}
	}

	w := do("10.0.0.1:5001")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %v, want %v", w.Code, http.StatusTooManyRequests)
	}
	// One token refills every 10s.
	if got := w.Header().Get("Retry-After"); got != "10" {
		t.Errorf("Retry-After = %q, want 10", got)
	}

	if w := do("10.0.0.2:5000"); w.Code != http.StatusOK {
		t.Errorf("other client status = %v, want %v", w.Code, http.StatusOK)
	}

	now = now.Add(10 * time.Second)
	if w := do("10.0.0.1:5000"); w.Code != http.StatusOK {
		t.Errorf("after refill status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestRateLimiter_Evict(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.get("a", now)
	now = now.Add(2 * time.Minute)
	rl.get("b", now)

	if _, ok := rl.clients["a"]; ok {
		t.Error("idle client should be evicted")
	}
	if len(rl.clients) != 1 {
		t.Errorf("clients = %d, want 1", len(rl.clients))
	}
}
