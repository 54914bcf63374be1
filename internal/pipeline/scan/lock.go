package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"docnotifier/internal/common/logger"
)

// DefaultLockKey is the redis key guarding scan invocations.
const DefaultLockKey = "notifier:scan:lock"

// releaseScript deletes the lock only when the caller still owns it, so a
// slow scan whose lock expired cannot release a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Lock is the single-flight guard around Scan. The interval ticker fires
// whether or not the previous invocation finished; the lock is what keeps
// two scans from running against the same storage at once. The TTL bounds
// how long a crashed process can wedge the schedule.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger logger.Logger
}

func NewLock(client *redis.Client, ttl time.Duration, log logger.Logger) *Lock {
	return &Lock{
		client: client,
		key:    DefaultLockKey,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "scan-lock"}),
	}
}

// Acquire attempts to take the lock. On success it returns a release
// function bound to this acquisition's owner token; when the lock is
// already held it returns acquired=false with no error.
func (l *Lock) Acquire(ctx context.Context) (release func(), acquired bool, err error) {
	owner := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		// Release must not inherit a cancelled scan context
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, owner).Err(); err != nil {
			l.logger.WithError(err).Warn("failed to release scan lock", map[string]interface{}{
				"lockKey": l.key,
			})
		}
	}
	return release, true, nil
}
