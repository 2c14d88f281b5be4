package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	UserHandleKeyPrefix = "user:handle:%s"
	ThreadKeyPrefix     = "thread:%d"
)

const (
	UserTTL   = 5 * time.Minute
	ThreadTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserHandleKey(handle string) string {
	return fmt.Sprintf(UserHandleKeyPrefix, handle)
}

func ThreadKey(threadID uint) string {
	return fmt.Sprintf(ThreadKeyPrefix, threadID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint, handle string) {
	Invalidate(ctx, UserKey(userID))
	if handle != "" {
		Invalidate(ctx, UserHandleKey(handle))
	}
}

func InvalidateThread(ctx context.Context, threadID uint) {
	Invalidate(ctx, ThreadKey(threadID))
}
