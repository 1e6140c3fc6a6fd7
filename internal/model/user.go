package model

import "time"

type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;size:32;not null"`
	Password string `gorm:"size:255;not null"`
	Email    string `gorm:"uniqueIndex;size:64;not null"`

	// 全局管理状态，独立于各社区内的状态
	IsBannedGlobally bool `gorm:"not null;default:false"`
	BannedUntil      *time.Time
	IsMutedGlobally  bool `gorm:"not null;default:false"`
	MutedUntil       *time.Time
	WarningCount     int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BannedGloballyNow 懒惰过期：banned_until 为空表示永久
func (u *User) BannedGloballyNow() bool {
	if !u.IsBannedGlobally {
		return false
	}
	if u.BannedUntil == nil {
		return true
	}
	return u.BannedUntil.After(time.Now())
}

func (u *User) MutedGloballyNow() bool {
	if !u.IsMutedGlobally {
		return false
	}
	if u.MutedUntil == nil {
		return true
	}
	return u.MutedUntil.After(time.Now())
}
