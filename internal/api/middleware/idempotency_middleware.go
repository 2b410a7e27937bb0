package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const IdempotencyHeader = "Idempotency-Key"

// IdempotencyStore claims a key for ttl. Claim reports false when the key is
// already held.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	rdb redis.Cmdable
}

func NewRedisIdempotencyStore(rdb redis.Cmdable) IdempotencyStore {
	return &redisIdempotencyStore{rdb: rdb}
}

func (s *redisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}

func (s *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Idempotency rejects a repeated mutating request carrying the same
// Idempotency-Key from the same user while the first claim is alive. Failed
// requests release their key so the client can retry.
func Idempotency(store IdempotencyStore, ttl time.Duration) fiber.Handler {
	log := logging.WithComponent("idempotency")

	return func(c *fiber.Ctx) error {
		header := c.Get(IdempotencyHeader)
		if header == "" || c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			return c.Next()
		}

		userID, _ := c.Locals(LocalUserID).(string)
		key := "idem:" + userID + ":" + header

		ok, err := store.Claim(c.Context(), key, ttl)
		if err != nil {
			// a failed claim lets the request through unguarded
			log.Warn("claim idempotency key", zap.Error(err))
			return c.Next()
		}
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Duplicate request",
			})
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if rerr := store.Release(context.Background(), key); rerr != nil {
				log.Warn("release idempotency key", zap.Error(rerr))
			}
		}
		return err
	}
}
