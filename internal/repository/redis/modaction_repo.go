package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	ModActionPrefix = "mod:actions"
	ModActionWindow = 60 * time.Second
)

var ErrCounterUnavailable = errors.New("moderation counter unavailable")

// ModActionRepository 管理操作限流计数：固定窗口，窗口从该窗口内
// 第一次操作起算，到期整体重置
type ModActionRepository struct{}

func (r *ModActionRepository) key(actorID, communityID uint64) string {
	return fmt.Sprintf("%s:%d:%d", ModActionPrefix, actorID, communityID)
}

// Incr 计一次操作并返回窗口内的累计次数（含本次）
func (r *ModActionRepository) Incr(actorID, communityID uint64) (int64, error) {
	ctx := context.Background()
	key := r.key(actorID, communityID)

	count, err := Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, ErrCounterUnavailable
	}
	// 窗口内第一次操作时设置过期
	if count == 1 {
		if err := Client.Expire(ctx, key, ModActionWindow).Err(); err != nil {
			return count, ErrCounterUnavailable
		}
	}
	return count, nil
}

// Reset 清空计数（运维用）
func (r *ModActionRepository) Reset(actorID, communityID uint64) error {
	if err := Client.Del(context.Background(), r.key(actorID, communityID)).Err(); err != nil {
		return ErrCounterUnavailable
	}
	return nil
}
