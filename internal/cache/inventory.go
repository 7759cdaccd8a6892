package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%d"
	IdeaFeedKey    = "ideas:feed"
	UserStatsKey   = "users:stats"
	BlacklistKeyPF = "blacklist:%s"
)

const (
	UserTTL      = 5 * time.Minute
	IdeaFeedTTL  = 1 * time.Minute
	UserStatsTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPF, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserStatsKey)
}

func InvalidateIdeaFeed(ctx context.Context) {
	Invalidate(ctx, IdeaFeedKey)
}
