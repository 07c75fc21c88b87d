package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamehive/backend/config"
)

var (
	redisClient    *redis.Client
	redisOnce      sync.Once
	redisAvailable bool
)

// GetRedis returns a singleton Redis client, or nil when the server is
// unreachable at first use so callers fall back to their in-memory paths.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		redisClient = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			if Sugar != nil {
				Sugar.Warnf("redis unavailable, falling back to in-memory stores: %v", err)
			}
			redisAvailable = false
			return
		}
		redisAvailable = true
	})
	if !redisAvailable {
		return nil
	}
	return redisClient
}
