// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/kranthikiran885366/time-table-app/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the Redis client used for schedule read caching.
var CacheClient *redis.Client

// ScheduleCachePrefix is the prefix used for cached section schedules.
const ScheduleCachePrefix = "schedule:"

// ScheduleCacheTTL is the time-to-live for cached section schedules.
const ScheduleCacheTTL = 5 * time.Minute

// InitCache initializes the Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the cache client, or nil when caching is not
// initialized (callers must treat a nil client as cache-disabled).
func GetCacheClient() *redis.Client {
	return CacheClient
}

// ScheduleCacheKey returns the cache key for a section's schedule.
func ScheduleCacheKey(sectionCode string) string {
	return ScheduleCachePrefix + sectionCode
}
