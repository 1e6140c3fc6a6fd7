package mysql

import (
	"ForumHub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityModeratorRepository struct {
	DB *gorm.DB
}

// FindActive 返回 (community, user) 的活跃指派行，没有则返回 gorm.ErrRecordNotFound
func (r *CommunityModeratorRepository) FindActive(communityID, userID uint64) (*model.CommunityModerator, error) {
	var m model.CommunityModerator
	err := r.DB.Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true).
		First(&m).Error
	return &m, err
}

func (r *CommunityModeratorRepository) CountActiveByRole(communityID uint64, role model.Role) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CommunityModerator{}).
		Where("community_id = ? AND role = ? AND is_active = ?", communityID, role, true).
		Count(&count).Error
	return count, err
}

// Upsert 指派或重新激活：冲突时覆盖角色与指派信息，旧行复活
func (r *CommunityModeratorRepository) Upsert(m *model.CommunityModerator) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"role", "assigned_by", "assigned_at", "permissions", "is_active", "notes",
		}),
	}).Create(m).Error
}

// Deactivate 软移除；对不存在或已停用的行也视为成功（幂等）
func (r *CommunityModeratorRepository) Deactivate(communityID, userID uint64) error {
	return r.DB.Model(&model.CommunityModerator{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("is_active", false).Error
}

func (r *CommunityModeratorRepository) UpdateRole(communityID, userID uint64, newRole model.Role, changedBy uint64) error {
	return r.DB.Model(&model.CommunityModerator{}).
		Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true).
		Updates(map[string]any{
			"role":        newRole,
			"assigned_by": changedBy,
			"assigned_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *CommunityModeratorRepository) ListByCommunity(communityID uint64, onlyActive bool) ([]model.CommunityModerator, error) {
	var list []model.CommunityModerator
	q := r.DB.Where("community_id = ?", communityID)
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("assigned_at desc").Find(&list).Error
	return list, err
}
