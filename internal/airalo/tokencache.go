package airalo

import (
	"sync/atomic"
	"time"
)

// DefaultSafetyMargin is subtracted from the API-reported token lifetime so a
// token is never used close to its real expiry.
const DefaultSafetyMargin = time.Hour

// TokenCache holds at most one bearer token. It is best-effort: two callers
// that miss at the same time will both fetch and the last Store wins. The
// pointer swap keeps concurrent Get/Store free of data races without
// serialising refreshes.
type TokenCache struct {
	current atomic.Pointer[AccessToken]
	nowFunc func() time.Time
}

// TokenCacheOption configures the TokenCache.
type TokenCacheOption func(*TokenCache)

// WithCacheNowFunc overrides the time function for testing.
func WithCacheNowFunc(f func() time.Time) TokenCacheOption {
	return func(c *TokenCache) {
		c.nowFunc = f
	}
}

// NewTokenCache creates an empty cache.
func NewTokenCache(opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{nowFunc: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached token if one is present and not yet expired.
func (c *TokenCache) Get() (AccessToken, bool) {
	tok := c.current.Load()
	if tok == nil || tok.Value == "" {
		return AccessToken{}, false
	}
	if !c.nowFunc().Before(tok.ExpiresAt) {
		return AccessToken{}, false
	}
	return *tok, true
}

// Store replaces the cached token. The token stops being served at
// now + ttl - margin; a non-positive effective lifetime means it is never
// served from the cache.
func (c *TokenCache) Store(value string, ttl, margin time.Duration) AccessToken {
	tok := AccessToken{
		Value:     value,
		ExpiresAt: c.nowFunc().Add(ttl - margin),
	}
	c.current.Store(&tok)
	return tok
}

// Clear drops the cached token.
func (c *TokenCache) Clear() {
	c.current.Store(nil)
}
