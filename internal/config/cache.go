package config

import "time"

// CacheConfig defines settings for the slot-list response cache.  Only the
// public GET /api/slots listing is cached; mutating endpoints never are.
// A short TTL keeps the grid fresh enough — every mutating endpoint
// re-reads authoritative state before acting, so a briefly stale listing
// is harmless.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 5*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1048576),
	}
}
