package mysql

import (
	"ForumHub/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

// IncrementWarningCount 返回自增前的计数，供审计快照使用
func (r *UserRepository) IncrementWarningCount(userID uint64) (int, error) {
	var user model.User
	if err := r.DB.First(&user, userID).Error; err != nil {
		return 0, err
	}
	prev := user.WarningCount
	err := r.DB.Model(&user).Update("warning_count", gorm.Expr("warning_count + 1")).Error
	return prev, err
}
