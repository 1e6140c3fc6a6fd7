package model

import "time"

const (
	ContentStatusNormal  = 0
	ContentStatusRemoved = 1
)

type Post struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index:idx_community_time,priority:1"`
	AuthorID    uint64    `gorm:"not null;index:idx_author_time"`
	Title       string    `gorm:"size:200;not null"`
	Content     string    `gorm:"type:text"`
	Status      int       `gorm:"not null;default:0"` // 0=normal 1=removed
	IsPinned    bool      `gorm:"not null;default:false"`
	IsLocked    bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index:idx_community_time,priority:2,sort:desc"`
	UpdatedAt   time.Time
}
