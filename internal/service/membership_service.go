package service

import (
	"errors"
	"time"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"

	"gorm.io/gorm"
)

// MembershipService 解析用户在社区内的有效角色并维护版主指派
type MembershipService struct {
	memberRepo    *mysql.CommunityMemberRepository
	moderatorRepo *mysql.CommunityModeratorRepository
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{
		memberRepo:    &mysql.CommunityMemberRepository{DB: db},
		moderatorRepo: &mysql.CommunityModeratorRepository{DB: db},
	}
}

// RoleOf 角色解析优先级：owner_id > 活跃版主指派 > 普通成员 > 非参与者
func (s *MembershipService) RoleOf(community *model.Community, userID uint64) (model.Role, error) {
	if community.IsOwnedBy(userID) {
		return model.RoleOwner, nil
	}

	m, err := s.moderatorRepo.FindActive(community.ID, userID)
	if err == nil {
		return m.Role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoleNone, err
	}

	ok, err := s.memberRepo.IsMember(community.ID, userID)
	if err != nil {
		return model.RoleNone, err
	}
	if ok {
		return model.RoleMember, nil
	}
	return model.RoleNone, nil
}

func (s *MembershipService) HasRoleAtLeast(community *model.Community, userID uint64, min model.Role) (bool, error) {
	role, err := s.RoleOf(community, userID)
	if err != nil {
		return false, err
	}
	if role == model.RoleNone {
		return false, nil
	}
	return role.Authority() >= min.Authority(), nil
}

// CanAssignRole 校验该角色的活跃指派数是否还有余量；不可指派的角色恒为 false
func (s *MembershipService) CanAssignRole(communityID uint64, role model.Role) (bool, error) {
	limit := model.ModeratorLimit(role)
	if limit == 0 {
		return false, nil
	}
	count, err := s.moderatorRepo.CountActiveByRole(communityID, role)
	if err != nil {
		return false, err
	}
	return count < int64(limit), nil
}

// Assign 指派版主：目标必须已是普通成员，且该角色未达上限。
// 旧行存在时重新激活并覆盖角色与指派信息
func (s *MembershipService) Assign(community *model.Community, userID uint64, role model.Role, assignedBy uint64, permissions map[string]any, notes string) error {
	if model.ModeratorLimit(role) == 0 {
		return ErrInvalidAction
	}

	ok, err := s.memberRepo.IsMember(community.ID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAMember
	}

	canAdd, err := s.CanAssignRole(community.ID, role)
	if err != nil {
		return err
	}
	if !canAdd {
		return ErrLimitExceeded
	}

	return s.moderatorRepo.Upsert(&model.CommunityModerator{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        role,
		AssignedBy:  assignedBy,
		AssignedAt:  time.Now(),
		Permissions: permissions,
		IsActive:    true,
		Notes:       notes,
	})
}

// Deactivate 软移除，幂等：行不存在或已停用也算成功
func (s *MembershipService) Deactivate(communityID, userID uint64) error {
	return s.moderatorRepo.Deactivate(communityID, userID)
}

// ChangeRole 升降级前重新校验新角色的上限
func (s *MembershipService) ChangeRole(community *model.Community, userID uint64, newRole model.Role, changedBy uint64) error {
	if model.ModeratorLimit(newRole) == 0 {
		return ErrInvalidAction
	}

	m, err := s.moderatorRepo.FindActive(community.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return err
	}
	if m.Role == newRole {
		return nil
	}

	canAdd, err := s.CanAssignRole(community.ID, newRole)
	if err != nil {
		return err
	}
	if !canAdd {
		return ErrLimitExceeded
	}

	return s.moderatorRepo.UpdateRole(community.ID, userID, newRole, changedBy)
}

func (s *MembershipService) ListModerators(communityID uint64, onlyActive bool) ([]model.CommunityModerator, error) {
	return s.moderatorRepo.ListByCommunity(communityID, onlyActive)
}
