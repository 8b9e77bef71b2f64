package redis

import (
	"errors"
	"time"

	"github.com/rentable-xyz/goapi/base/ctx"
)

// Forever is the ttl for keys without expiration
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")
	// ErrNoTTL is returned when the key exists but has no associated expire
	ErrNoTTL = errors.New("key has no ttl")
)

// Service is the redis kv service used for caches, nonces and health checks
type Service interface {
	// Get returns the value of key, ErrNotFound if the key does not exist
	Get(context ctx.Ctx, key string) ([]byte, error)

	// Set sets key to val with a ttl. Use Forever to keep the key without expiration
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// Del removes the given keys and returns the number of removed keys
	Del(context ctx.Ctx, keys ...string) (int, error)

	// Exists reports whether the key exists
	Exists(context ctx.Ctx, key string) (bool, error)

	// TTL returns the remaining ttl of key in seconds.
	// Returns ErrNotFound if the key does not exist, ErrNoTTL if it has no expire.
	TTL(context ctx.Ctx, key string) (int, error)

	// Incrby increments the number stored at key by val
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
}
