package config

import "time"

// CacheConfig controls the read-through cache in front of gig schedules.
// Entries are keyed by Prefix and the gig id and live for TTL unless a
// cancellation invalidates them first.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadCacheConfig reads CACHE_ENABLED, CACHE_TTL and CACHE_PREFIX.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled: envBool("CACHE_ENABLED", true),
        TTL:     envDur("CACHE_TTL", 5*time.Minute),
        Prefix:  envStr("CACHE_PREFIX", "gigs:schedule"),
    }
    if cfg.TTL <= 0 {
        cfg.Enabled = false
    }
    return cfg
}
