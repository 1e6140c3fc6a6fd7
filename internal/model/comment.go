package model

import "time"

type Comment struct {
	ID          uint64 `gorm:"primaryKey"`
	PostID      uint64 `gorm:"not null;index"`
	CommunityID uint64 `gorm:"not null;index"`
	AuthorID    uint64 `gorm:"not null;index"`
	Content     string `gorm:"type:text;not null"`
	Status      int    `gorm:"not null;default:0"` // 0=normal 1=removed
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
