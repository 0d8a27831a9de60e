package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, remoteAddr string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_UnderLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 3, Window: time.Minute})(okHandler())

	for i := 0; i < 3; i++ {
		rec := doRequest(t, h, "10.0.0.1:1234", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	doRequest(t, h, "10.0.0.1:1234", nil)
	doRequest(t, h, "10.0.0.1:1234", nil)
	rec := doRequest(t, h, "10.0.0.1:1234", nil)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(429), body["code"])
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimit_DifferentClients(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	rec := doRequest(t, h, "10.0.0.1:1234", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second client has its own budget.
	rec = doRequest(t, h, "10.0.0.2:1234", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, "10.0.0.1:1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_Headers(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 5, Window: time.Minute})(okHandler())

	rec := doRequest(t, h, "10.0.0.1:1234", nil)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	rec = doRequest(t, h, "10.0.0.1:1234", nil)
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_CustomKeyFunc(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-User-ID")
		},
	})(okHandler())

	rec := doRequest(t, h, "10.0.0.1:1234", map[string]string{"X-User-ID": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same IP, different key.
	rec = doRequest(t, h, "10.0.0.1:1234", map[string]string{"X-User-ID": "2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, "10.0.0.1:1234", map[string]string{"X-User-ID": "1"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_XForwardedFor(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	xff := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
	rec := doRequest(t, h, "10.0.0.1:1234", xff)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same forwarded client through a different proxy is still one key.
	rec = doRequest(t, h, "10.0.0.2:1234", xff)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	_, _, allowed := rl.allow("k", now)
	require.True(t, allowed)

	_, _, allowed = rl.allow("k", now.Add(30*time.Second))
	assert.False(t, allowed)

	// Budget comes back once the window has elapsed.
	_, _, allowed = rl.allow("k", now.Add(time.Minute))
	assert.True(t, allowed)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	rl.allow("stale", now)
	rl.allow("fresh", now.Add(55*time.Second))
	rl.cleanup(now.Add(70 * time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.windows, "stale")
	assert.Contains(t, rl.windows, "fresh")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:5555"
	assert.Equal(t, "192.0.2.9", clientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
