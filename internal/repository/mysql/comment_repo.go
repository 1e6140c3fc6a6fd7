package mysql

import (
	"ForumHub/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	return &comment, err
}

func (r *CommentRepository) ListByPost(postID uint64, offset, limit int) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.
		Where("post_id = ? AND status = ?", postID, model.ContentStatusNormal).
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) SetStatus(id uint64, status int) error {
	return r.DB.Model(&model.Comment{}).Where("id = ?", id).Update("status", status).Error
}
