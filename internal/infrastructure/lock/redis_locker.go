package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

var ErrLockTimeout = errors.New("lock: timed out waiting for user lock")

// release deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a per-user lock built on SET NX PX. The TTL bounds how long a
// crashed holder can block the user.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *logrus.Logger
	token  func() string
}

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, logger *logrus.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &RedisLocker{
		rdb:    rdb,
		prefix: "lock:user:",
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		logger: logger,
		token:  uuid.NewString,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := l.prefix + userID
	token := l.token()

	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()
	backoff := l.retry

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock.RedisLocker.Lock: %w", err)
		}
		if ok {
			var once sync.Once
			return func() { once.Do(func() { l.release(key, token) }) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrLockTimeout
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	// Released with a fresh context so a cancelled request still frees the lock.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && l.logger != nil {
		l.logger.WithError(err).WithField("key", key).Warn("release user lock failed")
	}
}

var _ repository.UserLocker = (*RedisLocker)(nil)
