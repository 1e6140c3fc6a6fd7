package mysql

import (
	"time"

	"ForumHub/internal/model"

	"gorm.io/gorm"
)

type ModerationLogRepository struct {
	DB *gorm.DB
}

// Record 追加一条审计记录；target_type 未填时由操作目录推导
func (r *ModerationLogRepository) Record(entry *model.CommunityModerationLog) error {
	if entry.TargetType == model.TargetNone {
		entry.TargetType = entry.Action.TargetKind()
	}
	if entry.Status == "" {
		entry.Status = model.LogStatusCompleted
	}
	return r.DB.Create(entry).Error
}

type LogFilter struct {
	ModeratorID  uint64
	TargetUserID uint64
	Action       model.ModerationAction
}

func (r *ModerationLogRepository) ListByCommunity(communityID uint64, f LogFilter, offset, limit int) ([]model.CommunityModerationLog, error) {
	var list []model.CommunityModerationLog
	q := r.DB.Where("community_id = ?", communityID)
	if f.ModeratorID != 0 {
		q = q.Where("moderator_id = ?", f.ModeratorID)
	}
	if f.TargetUserID != 0 {
		q = q.Where("target_user_id = ?", f.TargetUserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// RevertActiveMutes 解除禁言：把该用户未过期的 mute 条目标记为 reverted
func (r *ModerationLogRepository) RevertActiveMutes(communityID, targetUserID uint64) (int64, error) {
	tx := r.DB.Model(&model.CommunityModerationLog{}).
		Where("community_id = ? AND target_user_id = ? AND action = ? AND status = ?",
			communityID, targetUserID, model.ActionMuteUser, model.LogStatusCompleted).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Update("status", model.LogStatusReverted)
	return tx.RowsAffected, tx.Error
}

// HasActiveMute 是否存在未过期且未撤销的禁言条目
func (r *ModerationLogRepository) HasActiveMute(communityID, targetUserID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityModerationLog{}).
		Where("community_id = ? AND target_user_id = ? AND action = ? AND status = ?",
			communityID, targetUserID, model.ActionMuteUser, model.LogStatusCompleted).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&count).Error
	return count > 0, err
}
