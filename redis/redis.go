package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis connects to addr. A nil client is returned when redis is not
// reachable so callers can run without it.
func InitRedis(addr string, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not available. Running without Redis.", zap.String("address", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}

	log.Info("Redis connected successfully.", zap.String("address", addr))
	return client
}
