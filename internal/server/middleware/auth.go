package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/product-search/internal/config"
)

const (
	// ClientIDKey carries the authenticated client identity, when any, so
	// the rate limiter can track credentialed traffic separately.
	ClientIDKey = "client_id"

	headerAPIKey = "X-API-Key"
)

// Auth verifies a presented API key or Bearer JWT when credentials are
// configured. Requests without credentials are still served, as anonymous.
// An invalid credential is rejected rather than downgraded to anonymous.
func Auth(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey := c.Request().Header.Get(headerAPIKey); apiKey != "" {
				if cfg.Auth.APIKey == "" || !verifyAPIKey(apiKey, cfg.Auth.APIKey) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
				}
				c.Set(ClientIDKey, "key")
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" {
				tokenString := strings.TrimPrefix(authHeader, "Bearer ")
				if tokenString == authHeader {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
				}
				subject, err := verifyJWT(tokenString, cfg.Auth.JWTSecret)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				c.Set(ClientIDKey, subject)
				return next(c)
			}

			return next(c)
		}
	}
}

// verifyAPIKey compares in constant time to avoid leaking key prefixes.
func verifyAPIKey(presented, configured string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

func verifyJWT(tokenString, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt auth not configured")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	subject := claims.Subject
	if subject == "" {
		subject = "jwt"
	}
	return subject, nil
}
