package cache

import (
	"fmt"
	"time"

	"brkicks/importworker/logger"
)

// HostLimiter tracks per-host politeness flags and short lived page
// caches on top of a CacheService. A flagged host is skipped until the
// flag expires instead of being hammered with retries.
type HostLimiter struct {
	cache CacheService
	ttl   time.Duration
	log   *logger.Logger
}

// NewHostLimiter creates a limiter with the given flag TTL
func NewHostLimiter(cacheSvc CacheService, ttl time.Duration) *HostLimiter {
	return &HostLimiter{cache: cacheSvc, ttl: ttl, log: logger.ForCache()}
}

func rateLimitKey(host string) string {
	return fmt.Sprintf("ratelimit:%s", host)
}

func pageKey(url string) string {
	return fmt.Sprintf("page:%s", url)
}

// IsLimited reports whether the host is currently flagged
func (l *HostLimiter) IsLimited(host string) bool {
	if l == nil || l.cache == nil {
		return false
	}
	_, err := l.cache.Get(rateLimitKey(host))
	return err == nil
}

// Limit flags the host for the limiter's TTL
func (l *HostLimiter) Limit(host string) error {
	if l == nil || l.cache == nil {
		return nil
	}
	if err := l.cache.Set(rateLimitKey(host), []byte("1"), l.ttl); err != nil {
		return err
	}
	l.log.Debug().
		Str("host", host).
		Dur("ttl", l.ttl).
		Msg("Host flagged for politeness")
	return nil
}

// TTL returns the limiter's flag TTL
func (l *HostLimiter) TTL() time.Duration {
	if l == nil {
		return 0
	}
	return l.ttl
}

// GetPage returns a cached page body for the URL, if any
func (l *HostLimiter) GetPage(url string) ([]byte, bool) {
	if l == nil || l.cache == nil {
		return nil, false
	}
	body, err := l.cache.Get(pageKey(url))
	if err != nil || len(body) == 0 {
		return nil, false
	}
	return body, true
}

// PutPage caches a page body for the URL for a short period
func (l *HostLimiter) PutPage(url string, body []byte, ttl time.Duration) error {
	if l == nil || l.cache == nil {
		return nil
	}
	return l.cache.Set(pageKey(url), body, ttl)
}
