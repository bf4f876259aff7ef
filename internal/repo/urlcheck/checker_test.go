package urlcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImageExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/image.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.WriteHeader(http.StatusOK)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusOK)
		case "/missing.png":
			w.WriteHeader(http.StatusNotFound)
		case "/slow.png":
			time.Sleep(300 * time.Millisecond)
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	checker := NewChecker(100 * time.Millisecond)
	ctx := context.Background()

	assert.True(t, checker.ImageExists(ctx, srv.URL+"/image.jpg"))
	assert.False(t, checker.ImageExists(ctx, srv.URL+"/page.html"), "non-image content type")
	assert.False(t, checker.ImageExists(ctx, srv.URL+"/missing.png"), "404 response")
	assert.False(t, checker.ImageExists(ctx, srv.URL+"/slow.png"), "slower than probe timeout")
	assert.False(t, checker.ImageExists(ctx, "http://127.0.0.1:1/unreachable.png"))
}
