package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"perfreview/internal/domain/review"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(noContent))
	userCtx := WithUser(context.Background(), UserContext{UserID: review.NewUserID()})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/cycles/c1/final-scores", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/cycles/c1/final-scores", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(noContent))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/cycles/c1", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/cycles/c1", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by ip key, got %d", secondRec.Code)
	}
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(http.HandlerFunc(noContent))

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cycles/c1", nil)
		req.RemoteAddr = "192.0.2.20:1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", code)
	}
	time.Sleep(60 * time.Millisecond)
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("expected request after window reset to pass, got %d", code)
	}
}

func TestSensitiveMutationRateLimitOnlyGuardsCycleWideOperations(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(http.HandlerFunc(noContent))
	userCtx := WithUser(context.Background(), UserContext{UserID: review.NewUserID()})

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil).WithContext(userCtx)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := send(http.MethodPatch, "/api/v1/cycles/c1/self-review"); code != http.StatusNoContent {
			t.Fatalf("ordinary mutation should not be limited, got %d", code)
		}
	}
	if code := send(http.MethodPost, "/api/v1/cycles/c1/final-scores/report"); code != http.StatusNoContent {
		t.Fatalf("expected first sensitive request to pass, got %d", code)
	}
	if code := send(http.MethodPost, "/api/v1/cycles/c1/employees/e1/evaluation/calibrate"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second sensitive request to be throttled, got %d", code)
	}
}

func TestRateLimitReportsRemainingBudget(t *testing.T) {
	limited := RateLimit(3, time.Minute)(http.HandlerFunc(noContent))

	for _, want := range []string{"2", "1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cycles/c1", nil)
		req.RemoteAddr = "192.0.2.30:1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected request to pass, got %d", rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != want {
			t.Fatalf("expected remaining %s, got %s", want, got)
		}
	}
}
