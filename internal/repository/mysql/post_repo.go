package mysql

import (
	"ForumHub/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

// FindByID 不过滤状态：管理操作需要读到已移除的帖子
func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

// ListByCommunity 列表只展示正常状态，置顶优先
func (r *PostRepository) ListByCommunity(communityID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("community_id = ? AND status = ?", communityID, model.ContentStatusNormal).
		Order("is_pinned desc, created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) SetStatus(id uint64, status int) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostRepository) SetPinned(id uint64, pinned bool) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).Update("is_pinned", pinned).Error
}

func (r *PostRepository) SetLocked(id uint64, locked bool) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).Update("is_locked", locked).Error
}
