package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"rose-booking/internal/logger"
)

// unlockScript deletes the key only while it still holds the caller's token,
// so an expired lock taken over by another request is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{Client: client, TTL: ttl, Logger: logger}
}

func slotKey(tableID int64, date string) string {
	return fmt.Sprintf("table_lock:%d:%s", tableID, date)
}

// LockSlot claims the (table, date) slot for owner. It returns false when
// another owner holds it.
func (r *Redis) LockSlot(ctx context.Context, tableID int64, date, owner string) (bool, error) {
	ok, err := r.Client.SetNX(ctx, slotKey(tableID, date), owner, r.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock error: %w", err)
	}
	if !ok {
		r.Logger.Debug("REDIS", fmt.Sprintf("slot %s already locked", slotKey(tableID, date)))
	}
	return ok, nil
}

// UnlockSlot releases the slot if owner still holds it.
func (r *Redis) UnlockSlot(ctx context.Context, tableID int64, date, owner string) error {
	if err := unlockScript.Run(ctx, r.Client, []string{slotKey(tableID, date)}, owner).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("redis unlock error: %w", err)
	}
	return nil
}

// IsLocked reports whether any owner currently holds the slot.
func (r *Redis) IsLocked(ctx context.Context, tableID int64, date string) (bool, error) {
	n, err := r.Client.Exists(ctx, slotKey(tableID, date)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
