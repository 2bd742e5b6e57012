package cache

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// NewRedisClient connects to the Redis instance named by REDIS_URL and
// verifies the connection with a ping. Callers treat Redis as optional: when
// REDIS_URL is unset the repositories run uncached.
func NewRedisClient() (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, eris.New("REDIS_URL is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, eris.Wrap(err, "parsing Redis URL")
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, eris.Wrap(err, "connecting to Redis")
	}

	return client, nil
}
