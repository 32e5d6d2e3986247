package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func post(handler http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimit_UnderLimit(t *testing.T) {
	handler := RateLimit(nil, RateLimitConfig{Max: 3, Window: time.Minute})(okHandler())

	for i := range 3 {
		w := post(handler, "192.168.1.1:12345")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	handler := RateLimit(nil, RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	for range 2 {
		require.Equal(t, http.StatusOK, post(handler, "10.0.0.1:9999").Code)
	}

	w := post(handler, "10.0.0.1:9999")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var (
		code    int
		message string
	)
	err := jx.DecodeBytes(w.Body.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			code, err = d.Int()
		case "message":
			message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", message)
}

func TestRateLimit_ReadsAreNotLimited(t *testing.T) {
	handler := RateLimit(nil, RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_DifferentClients(t *testing.T) {
	handler := RateLimit(nil, RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	assert.Equal(t, http.StatusOK, post(handler, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, post(handler, "10.0.0.2:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(handler, "10.0.0.1:5678").Code)
}

func TestLimiter_SlidingWindow(t *testing.T) {
	l := newLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	now := start
	l.now = func() time.Time { return now }

	_, _, ok := l.take("k")
	require.True(t, ok)
	_, _, ok = l.take("k")
	require.False(t, ok)

	// The previous window still weighs fully at the boundary.
	now = start.Add(time.Minute)
	_, resetAt, ok := l.take("k")
	assert.False(t, ok)
	assert.Equal(t, start.Add(2*time.Minute), resetAt)

	// Half way through, half of the previous window remains.
	now = start.Add(90 * time.Second)
	remaining, _, ok := l.take("k")
	require.True(t, ok)
	assert.Zero(t, remaining)

	now = start.Add(4 * time.Minute)
	l.evict()
	assert.Empty(t, l.windows)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:80"
	assert.Equal(t, "10.1.1.1", ClientIP(req))

	req.Header.Set("X-Real-IP", "10.2.2.2")
	assert.Equal(t, "10.2.2.2", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.3.3.3, 10.4.4.4")
	assert.Equal(t, "10.3.3.3", ClientIP(req))
}

func TestRateLimit_NoCleanupForZeroWindow(t *testing.T) {
	assert.NotPanics(t, func() {
		RateLimit(t.Context(), RateLimitConfig{Max: 1})
	})
}
