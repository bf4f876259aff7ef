package urlcheck

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/product-search/pkg/util"
)

// Checker probes whether a URL serves an actual image. Used by the stricter
// validation mode; a failed probe removes the image, never the whole product.
type Checker interface {
	ImageExists(ctx context.Context, url string) bool
}

type restyChecker struct {
	client  *resty.Client
	timeout time.Duration
}

func NewChecker(timeout time.Duration) Checker {
	client := util.NewRestyClient().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &restyChecker{
		client:  client,
		timeout: timeout,
	}
}

// ImageExists issues a HEAD request and requires a success status plus an
// image content type. Redirects are followed; anything slower than the
// per-check timeout counts as missing.
func (c *restyChecker) ImageExists(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.R().SetContext(probeCtx).Head(url)
	if err != nil {
		return false
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return false
	}
	contentType := resp.Header().Get("Content-Type")
	return strings.HasPrefix(contentType, "image/")
}
