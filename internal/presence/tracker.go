// Package presence tracks ephemeral typing state. Nothing here is
// persisted: rows never touch the relational store, and every entry
// carries a TTL so a client that disconnects mid-keystroke cannot leave
// a typing indicator stuck on everyone else's screen.
package presence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Second

// Tracker stores (channel, user) typing entries in Redis with a TTL.
// Last write wins; a repeated start simply refreshes the expiry.
type Tracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTracker(rdb *redis.Client, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Tracker{rdb: rdb, ttl: ttl}
}

func typingKey(channelID, userID int64) string {
	return fmt.Sprintf("typing:%d:%d", channelID, userID)
}

func (t *Tracker) Start(ctx context.Context, channelID, userID int64) error {
	return t.rdb.Set(ctx, typingKey(channelID, userID), "1", t.ttl).Err()
}

func (t *Tracker) Stop(ctx context.Context, channelID, userID int64) error {
	return t.rdb.Del(ctx, typingKey(channelID, userID)).Err()
}

// Active returns the ids of users currently typing in the channel.
// Used by the reconciliation read; the broadcast path never calls it.
func (t *Tracker) Active(ctx context.Context, channelID int64) ([]int64, error) {
	pattern := fmt.Sprintf("typing:%d:*", channelID)

	var userIDs []int64
	iter := t.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		idx := strings.LastIndexByte(key, ':')
		if idx < 0 {
			continue
		}
		userID, err := strconv.ParseInt(key[idx+1:], 10, 64)
		if err != nil {
			continue
		}
		userIDs = append(userIDs, userID)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return userIDs, nil
}
