package model

import "time"

// CommunityModerator 版主指派记录。每个 (community, user) 至多一行，
// 解除指派只置 is_active=false，保留审计信息
type CommunityModerator struct {
	ID          uint64         `gorm:"primaryKey"`
	CommunityID uint64         `gorm:"not null;index;uniqueIndex:uk_comm_moderator"`
	UserID      uint64         `gorm:"not null;index;uniqueIndex:uk_comm_moderator"`
	Role        Role           `gorm:"size:16;not null"` // admin / moderator
	AssignedBy  uint64         `gorm:"not null"`
	AssignedAt  time.Time      `gorm:"not null"`
	Permissions map[string]any `gorm:"serializer:json"`
	IsActive    bool           `gorm:"not null;default:true"`
	Notes       string         `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// 活跃指派数上限
const (
	MaxAdmins     = 3
	MaxModerators = 10
)

// ModeratorLimit 返回对应角色的指派上限，不可指派的角色返回 0
func ModeratorLimit(role Role) int {
	switch role {
	case RoleAdmin:
		return MaxAdmins
	case RoleModerator:
		return MaxModerators
	}
	return 0
}
