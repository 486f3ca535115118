// Package cache holds the listing cache used by the public pages and the
// token revocation list.
package cache

import (
	"context"
	"time"
)

// Cache is satisfied by Redis in production and by Memory otherwise.
type Cache interface {
	// Get unmarshals the stored value into dest. found is false on a miss and
	// dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob such as "artists:*".
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
