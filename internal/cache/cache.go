package cache

import (
	"fmt"
	"log"

	"github.com/go-redis/redis"

	"github.com/wlopz/codeflow-app/internal/config"
	"github.com/wlopz/codeflow-app/internal/models"
)

// Invalidator drops cached target reads after a vote commits and,
// when a publisher is configured, pushes a vote-changed event. Both are
// fire-and-forget: a dead cache or broker never fails a vote.
type Invalidator struct {
	rdb       *redis.Client
	publisher *Publisher
}

// New connects to redis. An empty addr disables invalidation entirely,
// which keeps local setups without redis working.
func New(cfg *config.Config, publisher *Publisher) *Invalidator {
	if cfg.Redis.Addr == "" {
		log.Println("redis addr empty, cache invalidation disabled")
		return &Invalidator{publisher: publisher}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping().Err(); err != nil {
		log.Printf("redis unreachable, cache invalidation disabled: %v", err)
		return &Invalidator{publisher: publisher}
	}

	return &Invalidator{rdb: rdb, publisher: publisher}
}

// TargetKey is the cache key for a target's rendered vote state.
func TargetKey(targetType models.TargetType, targetID int) string {
	return fmt.Sprintf("%s:%d:votes", targetType, targetID)
}

// InvalidateTarget deletes the target's cached vote state and publishes
// the change event. Errors are logged and swallowed.
func (i *Invalidator) InvalidateTarget(targetType models.TargetType, targetID int) {
	if i == nil {
		return
	}
	if i.rdb != nil {
		if err := i.rdb.Del(TargetKey(targetType, targetID)).Err(); err != nil {
			log.Printf("cache invalidation failed for %s %d: %v", targetType, targetID, err)
		}
	}
	i.publisher.PublishVoteChanged(targetType, targetID)
}

// Close releases the redis connection and the publisher's channel.
func (i *Invalidator) Close() {
	if i == nil {
		return
	}
	if i.rdb != nil {
		if err := i.rdb.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
	i.publisher.Close()
}
