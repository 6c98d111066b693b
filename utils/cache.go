package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"salonbook/config"
)

var (
	// SessionCacheClient holds in-flight booking sessions.
	SessionCacheClient *redis.Client
	// QueryCacheClient holds short-lived availability query state.
	QueryCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for booking sessions.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the booking session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitQueryCache initializes the Redis client for availability query caching.
func InitQueryCache() {
	QueryCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueryDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := QueryCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Query Cache): %v", err)
	}
}

// GetQueryCacheClient returns the availability query cache client.
func GetQueryCacheClient() *redis.Client {
	if QueryCacheClient == nil {
		InitQueryCache()
	}
	return QueryCacheClient
}
