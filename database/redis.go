package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"linkup/config"
	"linkup/logger"
)

var RDB *redis.Client

func ConnectRedis() error {
	RDB = redis.NewClient(&redis.Options{
		Addr: config.Cfg.RedisAddr,
	})

	if err := RDB.Ping(context.Background()).Err(); err != nil {
		return err
	}

	logger.L.Info("redis connected")
	return nil
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
	}
}

const revokedKeyPrefix = "revoked:"

// RevokeToken denylists a token id until its natural expiry.
func RevokeToken(jti string, ttl time.Duration) error {
	if RDB == nil || ttl <= 0 {
		return nil
	}
	return RDB.Set(context.Background(), revokedKeyPrefix+jti, 1, ttl).Err()
}

// TokenRevoked reports whether a token id has been denylisted. With no redis
// connection (tests) every token counts as live.
func TokenRevoked(jti string) bool {
	if RDB == nil {
		return false
	}
	n, err := RDB.Exists(context.Background(), revokedKeyPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
