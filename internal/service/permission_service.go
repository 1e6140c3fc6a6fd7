package service

import (
	"errors"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"

	"gorm.io/gorm"
)

// Target 操作目标，Kind 为 none 时表示无目标操作
type Target struct {
	Kind model.TargetKind
	ID   uint64
}

// PermissionService 回答"操作者能否在该社区执行该操作"，只读不落库
type PermissionService struct {
	membership  *MembershipService
	banRepo     *mysql.CommunityBanRepository
	postRepo    *mysql.PostRepository
	commentRepo *mysql.CommentRepository
	logRepo     *mysql.ModerationLogRepository
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{
		membership:  NewMembershipService(db),
		banRepo:     &mysql.CommunityBanRepository{DB: db},
		postRepo:    &mysql.PostRepository{DB: db},
		commentRepo: &mysql.CommentRepository{DB: db},
		logRepo:     &mysql.ModerationLogRepository{DB: db},
	}
}

// CanPerform 判定顺序固定：参与资格 → 全局封禁 → 社区封禁 → 角色门槛 → 目标校验。
// 返回 nil 表示放行，否则返回对应的类型化拒绝原因
func (s *PermissionService) CanPerform(actor *model.User, community *model.Community, action model.ModerationAction, target *Target) error {
	role, err := s.membership.RoleOf(community, actor.ID)
	if err != nil {
		return err
	}
	if role == model.RoleNone {
		return ErrNotAParticipant
	}

	// 封禁优先于角色：被封的管理员同样无权操作
	if actor.BannedGloballyNow() {
		return ErrForbidden
	}
	banned, err := s.banRepo.IsBanned(community.ID, actor.ID)
	if err != nil {
		return err
	}
	if banned {
		return ErrForbidden
	}

	required := action.MinimumRole()
	if role.Authority() < required.Authority() {
		return ErrForbidden
	}

	if target == nil {
		return nil
	}
	switch target.Kind {
	case model.TargetUser:
		return s.checkUserTarget(community, role, actor.ID, action, target.ID)
	case model.TargetPost:
		return s.checkPostTarget(community, role, actor.ID, action, target.ID)
	case model.TargetComment:
		return s.checkCommentTarget(community, role, actor.ID, action, target.ID)
	}
	return nil
}

func (s *PermissionService) Allowed(actor *model.User, community *model.Community, action model.ModerationAction, target *Target) bool {
	return s.CanPerform(actor, community, action, target) == nil
}

// checkUserTarget 管理类操作需要层级压制；禁止自我操作
func (s *PermissionService) checkUserTarget(community *model.Community, actorRole model.Role, actorID uint64, action model.ModerationAction, targetID uint64) error {
	if !action.IsManageAction() {
		return nil
	}
	if targetID == actorID {
		return ErrForbidden
	}

	targetRole, err := s.membership.RoleOf(community, targetID)
	if err != nil {
		return err
	}
	if targetRole == model.RoleNone {
		return ErrForbidden
	}
	if !actorRole.CanManage(targetRole) {
		return ErrForbidden
	}
	return nil
}

func (s *PermissionService) checkPostTarget(community *model.Community, actorRole model.Role, actorID uint64, action model.ModerationAction, targetID uint64) error {
	post, err := s.postRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetMismatch
		}
		return err
	}
	if post.CommunityID != community.ID {
		return ErrTargetMismatch
	}

	// 删除自己的内容不受层级限制
	if action == model.ActionRemovePost {
		if post.AuthorID == actorID {
			return nil
		}
		return s.checkAuthorManageable(community, actorRole, post.AuthorID)
	}
	return nil
}

func (s *PermissionService) checkCommentTarget(community *model.Community, actorRole model.Role, actorID uint64, action model.ModerationAction, targetID uint64) error {
	comment, err := s.commentRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetMismatch
		}
		return err
	}
	if comment.CommunityID != community.ID {
		return ErrTargetMismatch
	}

	if action == model.ActionRemoveComment {
		if comment.AuthorID == actorID {
			return nil
		}
		return s.checkAuthorManageable(community, actorRole, comment.AuthorID)
	}
	return nil
}

func (s *PermissionService) checkAuthorManageable(community *model.Community, actorRole model.Role, authorID uint64) error {
	authorRole, err := s.membership.RoleOf(community, authorID)
	if err != nil {
		return err
	}
	if authorRole == model.RoleNone {
		return ErrForbidden
	}
	if !actorRole.CanManage(authorRole) {
		return ErrForbidden
	}
	return nil
}

// CanCreateContent 发帖/评论的前置校验：全局禁言或封禁、社区封禁、社区禁言都会拦截；
// 私有社区还要求成员身份
func (s *PermissionService) CanCreateContent(actor *model.User, community *model.Community) error {
	if actor.BannedGloballyNow() || actor.MutedGloballyNow() {
		return ErrForbidden
	}

	banned, err := s.banRepo.IsBanned(community.ID, actor.ID)
	if err != nil {
		return err
	}
	if banned {
		return ErrForbidden
	}

	muted, err := s.logRepo.HasActiveMute(community.ID, actor.ID)
	if err != nil {
		return err
	}
	if muted {
		return ErrForbidden
	}

	if !community.IsPublic && !community.IsOwnedBy(actor.ID) {
		role, err := s.membership.RoleOf(community, actor.ID)
		if err != nil {
			return err
		}
		if role == model.RoleNone {
			return ErrNotAParticipant
		}
	}
	return nil
}
