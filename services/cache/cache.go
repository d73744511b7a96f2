package cache

import "time"

// CacheService defines the interface for cache implementations. The scraper
// uses it as a block memo: once a run is blocked, the fact is recorded with
// a TTL so later runs fail fast instead of hitting the site again.
type CacheService interface {
	// Get retrieves a value by key
	Get(key string) ([]byte, error)

	// Set stores a value with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value by key
	Delete(key string) error
}
