package utils

import (
	"context"
	"log"
	"time"

	"meetwise/config"

	"github.com/go-redis/redis/v8"
)

// StatusCacheClient serves booking-status polling reads.
var StatusCacheClient *redis.Client

// InitStatusCache initializes the Redis client used to cache booking status
// lookups. Entries carry a short TTL and are invalidated on every state
// transition, so a stale read can never outlive a commit by more than the TTL.
func InitStatusCache() {
	StatusCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStatusDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := StatusCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Status Cache): %v", err)
	}
}

// GetStatusCacheClient returns the status cache client.
func GetStatusCacheClient() *redis.Client {
	if StatusCacheClient == nil {
		InitStatusCache()
	}
	return StatusCacheClient
}
