// Package cache keeps rendered gig schedules in Redis so repeated views
// skip the lineup query.  Every method is safe on a nil *ScheduleCache,
// which is what NewScheduleCache returns when caching is off.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/config"
	"github.com/iliyamo/gig-scheduler/internal/model"
)

// ScheduleCache stores the schedule view of a gig under
// prefix:gig:<id>:<version>.  The current version lives in
// prefix:gig:<id>:v and only ever grows; a gig that was never
// invalidated is at version 0.
type ScheduleCache struct {
	rdb *redis.Client
	cfg config.CacheConfig
	log *zap.Logger
}

// NewScheduleCache returns nil when cfg disables caching or rdb is nil.
func NewScheduleCache(rdb *redis.Client, cfg config.CacheConfig, log *zap.Logger) *ScheduleCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &ScheduleCache{rdb: rdb, cfg: cfg, log: log.Named("schedule-cache")}
}

// Key returns the Redis key of a gig's schedule at version.
func (c *ScheduleCache) Key(gigID, version uint64) string {
	return fmt.Sprintf("%s:gig:%d:%d", c.cfg.Prefix, gigID, version)
}

// VersionKey returns the Redis key holding a gig's current version.
func (c *ScheduleCache) VersionKey(gigID uint64) string {
	return fmt.Sprintf("%s:gig:%d:v", c.cfg.Prefix, gigID)
}

func (c *ScheduleCache) version(ctx context.Context, gigID uint64) (uint64, error) {
	v, err := c.rdb.Get(ctx, c.VersionKey(gigID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get returns the cached schedule and the version it was looked up
// under.  Misses and Redis errors both report false; errors are logged.
func (c *ScheduleCache) Get(ctx context.Context, gigID uint64) ([]model.ScheduleEntry, uint64, bool) {
	if c == nil {
		return nil, 0, false
	}
	ver, err := c.version(ctx, gigID)
	if err != nil {
		c.log.Warn("version lookup failed", zap.Uint64("gig_id", gigID), zap.Error(err))
		return nil, 0, false
	}
	bs, err := c.rdb.Get(ctx, c.Key(gigID, ver)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("get failed", zap.Uint64("gig_id", gigID), zap.Error(err))
		}
		return nil, ver, false
	}
	var entries []model.ScheduleEntry
	if err := json.Unmarshal(bs, &entries); err != nil {
		c.log.Warn("corrupt entry dropped", zap.Uint64("gig_id", gigID), zap.Error(err))
		_ = c.rdb.Del(ctx, c.Key(gigID, ver)).Err()
		return nil, ver, false
	}
	return entries, ver, true
}

// Set stores entries under version for the configured TTL.  If the gig
// was invalidated since version was read, the entry lands under a key
// nobody reads and simply expires.
func (c *ScheduleCache) Set(ctx context.Context, gigID, version uint64, entries []model.ScheduleEntry) {
	if c == nil {
		return
	}
	bs, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.rdb.SetEx(ctx, c.Key(gigID, version), bs, c.cfg.TTL).Err(); err != nil {
		c.log.Warn("set failed", zap.Uint64("gig_id", gigID), zap.Error(err))
	}
}

// Invalidate bumps the gig's version and drops the entry of the old one.
func (c *ScheduleCache) Invalidate(ctx context.Context, gigID uint64) {
	if c == nil {
		return
	}
	ver, err := c.rdb.Incr(ctx, c.VersionKey(gigID)).Uint64()
	if err != nil {
		c.log.Warn("invalidate failed", zap.Uint64("gig_id", gigID), zap.Error(err))
		return
	}
	if err := c.rdb.Del(ctx, c.Key(gigID, ver-1)).Err(); err != nil {
		c.log.Warn("drop old entry failed", zap.Uint64("gig_id", gigID), zap.Error(err))
	}
}
