package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"type:text"`
	Rules       string `gorm:"type:text"`
	IsPublic    bool   `gorm:"not null;default:true"`
	OwnerID     uint64 `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Community) IsOwnedBy(userID uint64) bool {
	return c.OwnerID == userID
}

// CommunityMember 普通成员关系；owner 角色由 Community.OwnerID 派生，不落在此表
type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
