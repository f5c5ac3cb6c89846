package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type SeenToucher interface {
	TouchUserSeen(ctx context.Context, userID string) error
}

// TouchLastSeen records activity at most once per throttle window per user.
// Without Redis every request writes.
func TouchLastSeen(users SeenToucher, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := CurrentUserID(c)
		if uid == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		touch := true
		if rdb != nil {
			ok, err := rdb.SetNX(ctx, "inv:lastseen:"+uid, "1", throttle).Result()
			touch = err == nil && ok
		}
		if touch {
			_ = users.TouchUserSeen(ctx, uid)
		}
		c.Next()
	}
}
