package utils

import (
	"context"
	"log"
	"time"

	"appointly/config"

	"github.com/go-redis/redis/v8"
)

// StoreClient backs pending confirmations and conversation state when STORE_BACKEND=redis.
var StoreClient *redis.Client

// InitStoreCache connects the Redis client used by the stores.
func InitStoreCache() {
	StoreClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStoreDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := StoreClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Store): %v", err)
	}
}

// GetStoreClient returns the store client, connecting on first use.
func GetStoreClient() *redis.Client {
	if StoreClient == nil {
		InitStoreCache()
	}
	return StoreClient
}
