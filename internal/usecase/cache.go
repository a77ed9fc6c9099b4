package usecase

import (
	"context"
	"time"
)

// Cache is the narrow slice of the cache layer the usecases consume. A nil
// or failing cache must never change results, only latency.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
