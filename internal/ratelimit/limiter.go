package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Limiter is sliding-window admission control shared across all service
// instances. IsRateLimited reports true when the call must be rejected.
type Limiter interface {
	IsRateLimited(ctx context.Context, clientKey string, window time.Duration, maxRequests int) (bool, error)
}

type slidingWindow struct {
	client redis.UniversalClient
}

// NewLimiter builds a limiter on top of a shared Redis client. The client is
// injected so every handler uses the single connection pool created at
// process start; the limiter itself holds no state between calls.
func NewLimiter(client redis.UniversalClient) Limiter {
	return &slidingWindow{client: client}
}

// IsRateLimited prunes entries older than the window, records the current
// request, and counts what remains, all in one transactional pipeline so
// concurrent checks from any process cannot interleave. The just-recorded
// request is part of the count, so request maxRequests+1 within the window is
// the first one rejected.
func (l *slidingWindow) IsRateLimited(ctx context.Context, clientKey string, window time.Duration, maxRequests int) (bool, error) {
	now := time.Now().UnixMilli()
	windowKey := keyPrefix + clientKey

	// Members must be unique per request or two requests landing on the
	// same millisecond would count as one.
	member := strconv.FormatInt(now, 10) + ":" + uuid.NewString()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, windowKey, "0", strconv.FormatInt(now-window.Milliseconds(), 10))
	pipe.ZAdd(ctx, windowKey, redis.Z{Score: float64(now), Member: member})
	count := pipe.ZCard(ctx, windowKey)
	pipe.Expire(ctx, windowKey, time.Duration(math.Ceil(window.Seconds()))*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	limited := count.Val() > int64(maxRequests)
	if limited {
		log.Warnw(ctx, "client rate limited",
			"client_key", clientKey,
			"requests_in_window", count.Val(),
			"max_requests", maxRequests)
	}
	return limited, nil
}
