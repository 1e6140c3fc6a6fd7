package mysql

import (
	"time"

	"ForumHub/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 建社区并幂等地让 owner 成为成员（owner 角色本身由 owner_id 派生）
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		mRepo := &CommunityMemberRepository{DB: tx}

		if err := tx.Create(c).Error; err != nil {
			return err
		}

		now := time.Now()
		return mRepo.Join(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.OwnerID,
			ApprovedAt:  &now,
		})
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) List(offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) UpdateFields(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.Community{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CommunityRepository) TransferOwner(id, newOwnerID uint64) error {
	return r.DB.Model(&model.Community{}).Where("id = ?", id).Update("owner_id", newOwnerID).Error
}
