package model

import "time"

const (
	LogStatusPending   = "pending"
	LogStatusCompleted = "completed"
	LogStatusFailed    = "failed"
	LogStatusReverted  = "reverted"
)

// CommunityModerationLog 只追加的审计记录，随社区级联删除
type CommunityModerationLog struct {
	ID           uint64           `gorm:"primaryKey"`
	CommunityID  uint64           `gorm:"not null;index"`
	ModeratorID  uint64           `gorm:"not null;index"`
	TargetUserID *uint64          `gorm:"index"`
	Action       ModerationAction `gorm:"size:32;not null;index"`
	TargetType   TargetKind       `gorm:"size:16"`
	TargetID     *uint64
	Reason       string         `gorm:"size:500"`
	Metadata     map[string]any `gorm:"serializer:json"`
	PreviousData map[string]any `gorm:"serializer:json"`
	Status       string         `gorm:"size:16;not null;default:completed"`
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActiveEffect 针对带时效的条目（如临时禁言）：expires_at 为空或未到期即生效
func (l *CommunityModerationLog) IsActiveEffect() bool {
	return l.ExpiresAt == nil || l.ExpiresAt.After(time.Now())
}
