package middleware

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/internal/ratelimit"
	"github.com/nguyentranbao-ct/product-search/pkg/ctxval"
)

// RateLimit performs sliding-window admission control before any search work
// runs. When the shared store is unreachable the policy is explicit: admit
// and warn under fail-open, otherwise reject with a 500.
func RateLimit(cfg *config.Config, limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			clientKey := ClientKey(c)
			ctxval.SetClientKey(ctx, clientKey)

			limited, err := limiter.IsRateLimited(ctx, clientKey, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
			if err != nil {
				if errors.Is(err, models.ErrStoreUnavailable) && cfg.RateLimit.FailOpen {
					log.Warnw(ctx, "rate limit store unavailable, failing open", "error", err)
					return next(c)
				}
				return &ResponseError{
					Status:       http.StatusInternalServerError,
					Err:          err,
					Code:         "rate_limit_unavailable",
					ErrorMessage: "could not verify rate limit",
				}
			}
			if limited {
				return &ResponseError{
					Status:       http.StatusTooManyRequests,
					Code:         "rate_limited",
					ErrorMessage: "too many requests, slow down",
				}
			}
			return next(c)
		}
	}
}

// ClientKey derives the rate-limit identity: the first hop of the
// forwarded-for chain, else the direct connection address, else an "unknown"
// sentinel; composed with the authenticated client id so credentialed and
// anonymous traffic from one address are tracked independently.
func ClientKey(c echo.Context) string {
	addr := forwardedForFirstHop(c.Request().Header.Get(echo.HeaderXForwardedFor))
	if addr == "" {
		addr = c.RealIP()
	}
	if addr == "" {
		addr = "unknown"
	}

	if clientID, ok := c.Get(ClientIDKey).(string); ok && clientID != "" {
		return addr + "|" + clientID
	}
	return addr
}

func forwardedForFirstHop(header string) string {
	if header == "" {
		return ""
	}
	first := header
	if idx := strings.Index(header, ","); idx >= 0 {
		first = header[:idx]
	}
	return strings.TrimSpace(first)
}
