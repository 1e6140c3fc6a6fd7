package model

import "time"

const (
	BanTypePermanent = "permanent"
	BanTypeTemporary = "temporary"
)

// CommunityBan 社区封禁。每个 (community, user) 仅一行，
// 解封只写回 unban 字段，不删除
type CommunityBan struct {
	ID          uint64         `gorm:"primaryKey"`
	CommunityID uint64         `gorm:"not null;index;uniqueIndex:uk_comm_ban"`
	UserID      uint64         `gorm:"not null;index;uniqueIndex:uk_comm_ban"`
	BannedBy    uint64         `gorm:"not null"`
	Reason      string         `gorm:"size:500"`
	Type        string         `gorm:"size:16;not null;default:permanent"` // permanent / temporary
	ExpiresAt   *time.Time
	IsActive    bool           `gorm:"not null;default:true"`
	Metadata    map[string]any `gorm:"serializer:json"`
	UnbannedBy  *uint64
	UnbannedAt  *time.Time
	UnbanReason string `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *CommunityBan) IsPermanent() bool { return b.Type == BanTypePermanent }
func (b *CommunityBan) IsTemporary() bool { return b.Type == BanTypeTemporary }

// ActiveNow 懒惰过期：is_active 且（永久或未到期）才算生效
func (b *CommunityBan) ActiveNow() bool {
	if !b.IsActive {
		return false
	}
	if b.IsPermanent() {
		return true
	}
	return b.ExpiresAt != nil && b.ExpiresAt.After(time.Now())
}

func (b *CommunityBan) Expired() bool {
	return b.IsTemporary() && b.ExpiresAt != nil && !b.ExpiresAt.After(time.Now())
}
