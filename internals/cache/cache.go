// Package cache stores fetched metadata with an expiry time
package cache

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidKey is returned for keys that would escape the cache directory
var ErrInvalidKey = errors.New("invalid cache key")

// Store is a key value cache with expiring entries
type Store interface {
	// Get returns the value and true if the key exists and is not expired
	Get(key string) ([]byte, bool)
	// Put stores value for ttl. A ttl <= 0 never expires
	Put(key string, value []byte, ttl time.Duration) error
	// Delete removes a key, missing keys are ignored
	Delete(key string) error
}

// Clock returns the current time
type Clock func() time.Time

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(now time.Time, expires time.Time) bool {
	return !expires.IsZero() && !now.Before(expires)
}
