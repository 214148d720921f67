// Package redis keeps named sequence counters in Redis.
package redis

import (
	"context"
	"fmt"

	"catering/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces counter keys.
const KeyPrefix = "seq:"

// SequenceCounter implements ports.SequenceCounter with INCR. A missing key is
// created at 1 by Redis, so the first value handed out is 0.
type SequenceCounter struct {
	client goredis.UniversalClient
}

func NewSequenceCounter(client goredis.UniversalClient) *SequenceCounter {
	return &SequenceCounter{client: client}
}

func (c *SequenceCounter) IncrementAndGet(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errs.NewValueIsRequiredError("counter name")
	}

	next, err := c.client.Incr(ctx, KeyPrefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", name, err)
	}

	return next - 1, nil
}
