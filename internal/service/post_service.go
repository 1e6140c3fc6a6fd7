package service

import (
	"errors"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	repo          *mysql.PostRepository
	commentRepo   *mysql.CommentRepository
	communityRepo *mysql.CommunityRepository
	userRepo      *mysql.UserRepository
	perm          *PermissionService
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:          &mysql.PostRepository{DB: db},
		commentRepo:   &mysql.CommentRepository{DB: db},
		communityRepo: &mysql.CommunityRepository{DB: db},
		userRepo:      &mysql.UserRepository{DB: db},
		perm:          NewPermissionService(db),
	}
}

func (s *PostService) CreatePost(userID, communityID uint64, title, content string) (*model.Post, error) {
	if title == "" {
		return nil, errors.New("title required")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		return nil, err
	}
	// 封禁、禁言与私有社区成员资格统一在这里拦截
	if err := s.perm.CanCreateContent(user, community); err != nil {
		return nil, err
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Title:       title,
		Content:     content,
	}

	if err := s.repo.Create(post); err != nil {
		return nil, err
	}

	return post, nil
}

// ListByCommunity 社区帖子列表
func (s *PostService) ListByCommunity(communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, offset, size)
}

// DeletePost 作者删除自己的帖子；他人的帖子走管理操作
func (s *PostService) DeletePost(userID, postID uint64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}
	return s.repo.SetStatus(postID, model.ContentStatusRemoved)
}

func (s *PostService) CreateComment(userID, postID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, errors.New("content required")
	}

	post, err := s.repo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post.Status != model.ContentStatusNormal || post.IsLocked {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	community, err := s.communityRepo.FindByID(post.CommunityID)
	if err != nil {
		return nil, err
	}
	if err := s.perm.CanCreateContent(user, community); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:      postID,
		CommunityID: post.CommunityID,
		AuthorID:    userID,
		Content:     content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) ListComments(postID uint64, page, size int) ([]model.Comment, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.commentRepo.ListByPost(postID, offset, size)
}
