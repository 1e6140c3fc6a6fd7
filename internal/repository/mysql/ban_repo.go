package mysql

import (
	"time"

	"ForumHub/internal/model"

	"gorm.io/gorm"
)

type CommunityBanRepository struct {
	DB *gorm.DB
}

// notExpired 懒惰过期：永久 ban 或 expires_at 在未来
func (r *CommunityBanRepository) notExpired(q *gorm.DB) *gorm.DB {
	return q.Where("type = ? OR expires_at > ?", model.BanTypePermanent, time.Now())
}

func (r *CommunityBanRepository) IsBanned(communityID, userID uint64) (bool, error) {
	var count int64
	q := r.DB.Model(&model.CommunityBan{}).
		Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true)
	err := r.notExpired(q).Count(&count).Error
	return count > 0, err
}

func (r *CommunityBanRepository) ActiveBan(communityID, userID uint64) (*model.CommunityBan, error) {
	var ban model.CommunityBan
	q := r.DB.Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true)
	err := r.notExpired(q).First(&ban).Error
	return &ban, err
}

// FindByPair 返回该 (community, user) 的唯一一行，无论状态
func (r *CommunityBanRepository) FindByPair(communityID, userID uint64) (*model.CommunityBan, error) {
	var ban model.CommunityBan
	err := r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).First(&ban).Error
	return &ban, err
}

func (r *CommunityBanRepository) Create(ban *model.CommunityBan) error {
	return r.DB.Create(ban).Error
}

// Reactivate 复用历史行重新封禁：覆盖封禁字段并清空解封审计字段
func (r *CommunityBanRepository) Reactivate(id uint64, ban *model.CommunityBan) error {
	return r.DB.Model(&model.CommunityBan{}).Where("id = ?", id).
		Updates(map[string]any{
			"banned_by":    ban.BannedBy,
			"reason":       ban.Reason,
			"type":         ban.Type,
			"expires_at":   ban.ExpiresAt,
			"is_active":    true,
			"metadata":     ban.Metadata,
			"unbanned_by":  nil,
			"unbanned_at":  nil,
			"unban_reason": "",
		}).Error
}

// Unban 解封：unban 字段一并写回，行保留不删
func (r *CommunityBanRepository) Unban(id, unbannedBy uint64, reason string) error {
	now := time.Now()
	return r.DB.Model(&model.CommunityBan{}).Where("id = ?", id).
		Updates(map[string]any{
			"is_active":    false,
			"unbanned_by":  unbannedBy,
			"unbanned_at":  now,
			"unban_reason": reason,
		}).Error
}

func (r *CommunityBanRepository) ListActive(communityID uint64, offset, limit int) ([]model.CommunityBan, error) {
	var list []model.CommunityBan
	q := r.DB.Where("community_id = ? AND is_active = ?", communityID, true)
	err := r.notExpired(q).Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
