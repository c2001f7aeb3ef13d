package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(counter Counter, limit int64) *gin.Engine {
	router := gin.New()
	router.POST("/auth/login", RateLimit(counter, limit, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRateLimitAllowsUpToLimit(t *testing.T) {
	router := limitedRouter(NewMemoryCounter(), 10)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("11th request: status = %d, want 429", w.Code)
	}
	want := `{"message":"Too many requests, please try again later."}`
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}

func TestRateLimitKeysByClientIP(t *testing.T) {
	router := limitedRouter(NewMemoryCounter(), 1)

	first := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first ip: status = %d", w.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Errorf("different ip must have its own budget: status = %d", w.Code)
	}

	third := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	third.RemoteAddr = "10.0.0.1:9999"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, third)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("same ip over budget: status = %d, want 429", w.Code)
	}
}

type failingCounter struct{}

func (failingCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, context.DeadlineExceeded
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := limitedRouter(failingCounter{}, 1)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("counter failure must not block logins: status = %d", w.Code)
		}
	}
}

func TestMemoryCounterWindowReset(t *testing.T) {
	counter := NewMemoryCounter()
	ctx := context.Background()

	if n, _ := counter.Incr(ctx, "k", 10*time.Millisecond); n != 1 {
		t.Fatalf("first incr = %d", n)
	}
	if n, _ := counter.Incr(ctx, "k", 10*time.Millisecond); n != 2 {
		t.Fatalf("second incr = %d", n)
	}

	time.Sleep(20 * time.Millisecond)

	if n, _ := counter.Incr(ctx, "k", 10*time.Millisecond); n != 1 {
		t.Errorf("incr after window = %d, want 1", n)
	}
}
