package repository

import (
	"context"
	"time"
)

// expiryGrace keeps keys around a little longer than the session deadline so the
// janitor still finds them and can announce the timeout.
const expiryGrace = time.Minute

type kvStorage interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

func ttlUntil(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}

	ttl := time.Until(expiresAt) + expiryGrace
	if ttl < expiryGrace {
		return expiryGrace
	}

	return ttl
}
