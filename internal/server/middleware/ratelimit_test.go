package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	limited bool
	err     error
	lastKey string
}

func (f *fakeLimiter) IsRateLimited(ctx context.Context, clientKey string, window time.Duration, maxRequests int) (bool, error) {
	f.lastKey = clientKey
	return f.limited, f.err
}

func newLimitedContext(t *testing.T, header map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=syrup", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRateLimit_Admitted(t *testing.T) {
	cfg := &config.Config{}
	limiter := &fakeLimiter{limited: false}

	c, rec := newLimitedContext(t, nil)
	err := RateLimit(cfg, limiter)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_Limited(t *testing.T) {
	cfg := &config.Config{}
	limiter := &fakeLimiter{limited: true}

	c, _ := newLimitedContext(t, nil)
	err := RateLimit(cfg, limiter)(okHandler)(c)

	require.Error(t, err)
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusTooManyRequests, respErr.Status)
}

func TestRateLimit_StoreDown_FailClosed(t *testing.T) {
	cfg := &config.Config{}
	limiter := &fakeLimiter{err: models.ErrStoreUnavailable}

	c, _ := newLimitedContext(t, nil)
	err := RateLimit(cfg, limiter)(okHandler)(c)

	require.Error(t, err)
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusInternalServerError, respErr.Status)
}

func TestRateLimit_StoreDown_FailOpen(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.FailOpen = true
	limiter := &fakeLimiter{err: models.ErrStoreUnavailable}

	c, rec := newLimitedContext(t, nil)
	err := RateLimit(cfg, limiter)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name     string
		header   map[string]string
		clientID string
		want     string
	}{
		{
			name:   "forwarded-for first hop wins",
			header: map[string]string{echo.HeaderXForwardedFor: "203.0.113.7, 10.0.0.1, 10.0.0.2"},
			want:   "203.0.113.7",
		},
		{
			name: "direct connection address",
			want: "192.0.2.1", // httptest.NewRequest default RemoteAddr
		},
		{
			name:     "credential composes with address",
			header:   map[string]string{echo.HeaderXForwardedFor: "203.0.113.7"},
			clientID: "partner-42",
			want:     "203.0.113.7|partner-42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newLimitedContext(t, tt.header)
			if tt.clientID != "" {
				c.Set(ClientIDKey, tt.clientID)
			}
			assert.Equal(t, tt.want, ClientKey(c))
		})
	}
}

func TestClientKey_UsedForLimiting(t *testing.T) {
	cfg := &config.Config{}
	limiter := &fakeLimiter{}

	c, _ := newLimitedContext(t, map[string]string{echo.HeaderXForwardedFor: "198.51.100.9"})
	err := RateLimit(cfg, limiter)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, "198.51.100.9", limiter.lastKey)
}
