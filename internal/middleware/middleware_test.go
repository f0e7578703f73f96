package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(buf *bytes.Buffer) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(zerolog.New(buf)), Logger(), Recovery())
	return r
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	rid := w.Header().Get(RequestIDHeader)
	if rid == "" || rid != seen {
		t.Fatalf("expected matching request id, header=%q handler=%q", rid, seen)
	}
	if !strings.Contains(buf.String(), rid) {
		t.Errorf("request log must carry the request id: %s", buf.String())
	}
}

func TestRequestIDReusesCallerHeader(t *testing.T) {
	r := newEngine(&bytes.Buffer{})
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected caller id, got %q", got)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)
	r.GET("/api/citas/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/citas/5", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" || entry["route"] != "/api/citas/:id" || entry["status"] != float64(404) {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)
	r.GET("/boom", func(c *gin.Context) { panic("kaput") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "kaput") {
		t.Error("panic value must not reach the client")
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic log, got %s", buf.String())
	}
}

func TestLoginRateLimit(t *testing.T) {
	rl := NewLoginRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/api/login", LoginRateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other clients must not share the bucket, got %d", w.Code)
	}
}

func TestLoginRateLimiterSweepsIdleClients(t *testing.T) {
	rl := NewLoginRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("10.0.0.1")

	now = now.Add(clientIdleTTL + sweepInterval + time.Second)
	rl.Allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Error("idle client should have been swept")
	}
}

func TestNilLimiterDisablesThrottle(t *testing.T) {
	r := gin.New()
	r.POST("/api/login", LoginRateLimit(nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}
