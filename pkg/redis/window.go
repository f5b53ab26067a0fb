package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindow counts hits per key in fixed time windows. Each window's counter expires with the window.
type FixedWindow struct {
	rdb    redis.Cmdable
	prefix string
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow creates a counter with the given window length. Keys are stored under prefix.
func NewFixedWindow(rdb redis.Cmdable, prefix string, window time.Duration) *FixedWindow {
	return &FixedWindow{rdb: rdb, prefix: prefix, window: window, now: time.Now}
}

// Hit records one hit for key and returns the count in the current window.
func (w *FixedWindow) Hit(ctx context.Context, key string) (int64, error) {
	slot := w.now().UnixNano() / int64(w.window)
	k := fmt.Sprintf("%s:%s:%d", w.prefix, key, slot)

	pipe := w.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, w.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate window %s: %w", k, err)
	}
	return incr.Val(), nil
}
