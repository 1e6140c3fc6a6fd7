package service

import (
	"errors"
	"time"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
	}
}

func (s *CommunityService) CreateCommunity(userID uint64, name, desc string, isPublic bool) (*model.Community, error) {
	if name == "" {
		return nil, errors.New("community name required")
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		OwnerID:     userID,
		IsPublic:    isPublic,
	}

	if _, err := s.repo.Create(community); err != nil {
		return nil, err
	}

	return community, nil
}

func (s *CommunityService) GetCommunity(id uint64) (*model.Community, error) {
	return s.repo.FindByID(id)
}

// JoinCommunity 公开社区加入即生效，私有社区等待审核
func (s *CommunityService) JoinCommunity(userID, communityID uint64) error {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return err
	}

	member := &model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
	}
	if community.IsPublic {
		now := time.Now()
		member.ApprovedAt = &now
	}
	return s.memberRepo.Join(member)
}

func (s *CommunityService) LeaveCommunity(userID, communityID uint64) error {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return err
	}
	// owner 必须先转移所有权
	if community.IsOwnedBy(userID) {
		return ErrForbidden
	}
	return s.memberRepo.Leave(communityID, userID)
}

func (s *CommunityService) ListCommunities(page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.List(offset, size)
}
