package service

import (
	"context"
	"encoding/json"
	"time"

	"ForumHub/internal/model"
	"ForumHub/internal/pkg"

	"go.uber.org/zap"
)

// ModerationEvent 写入 kafka 的管理操作事件，按社区 ID 分区保证同社区有序
type ModerationEvent struct {
	CommunityID  uint64  `json:"community_id"`
	ModeratorID  uint64  `json:"moderator_id"`
	TargetUserID *uint64 `json:"target_user_id,omitempty"`
	Action       string  `json:"action"`
	Reason       string  `json:"reason,omitempty"`
	OccurredAt   string  `json:"occurred_at"`
}

type ModerationEventService struct {
	producer *pkg.KafkaProducer
}

func NewModerationEventService(producer *pkg.KafkaProducer) *ModerationEventService {
	return &ModerationEventService{producer: producer}
}

// Publish 尽力而为：事件发送失败只记日志，不影响已提交的操作
func (s *ModerationEventService) Publish(entry *model.CommunityModerationLog) {
	if s == nil || s.producer == nil {
		return
	}

	evt := ModerationEvent{
		CommunityID:  entry.CommunityID,
		ModeratorID:  entry.ModeratorID,
		TargetUserID: entry.TargetUserID,
		Action:       string(entry.Action),
		Reason:       entry.Reason,
		OccurredAt:   time.Now().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		pkg.L().Warn("marshal moderation event failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.producer.Send(ctx, pkg.CommunityKey(entry.CommunityID), b); err != nil {
		pkg.L().Warn("publish moderation event failed",
			zap.Uint64("community_id", entry.CommunityID),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}
