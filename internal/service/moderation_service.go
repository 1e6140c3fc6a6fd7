package service

import (
	"errors"
	"time"

	"ForumHub/internal/model"
	"ForumHub/internal/pkg"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/repository/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultModActionLimit 每个 (操作者, 社区) 60 秒窗口内允许的操作数
const DefaultModActionLimit int64 = 5

// ModerationRequest 一次管理操作的入参，字段按操作类型选用
type ModerationRequest struct {
	Action      string         `json:"action"`
	TargetID    uint64         `json:"target_id"`
	Role        string         `json:"role"`
	BanType     string         `json:"ban_type"`
	Reason      string         `json:"reason"`
	Notes       string         `json:"notes"`
	Permissions map[string]any `json:"permissions"`
	Metadata    map[string]any `json:"metadata"`
	Description string         `json:"description"`
	Rules       string         `json:"rules"`
	IsPublic    *bool          `json:"is_public"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	Confirmed   bool           `json:"confirmed"`
}

// ModerationService 管理操作工作流：鉴权 → 确认 → 限流 → 事务内执行并落审计 →
// 提交后发事件和通知
type ModerationService struct {
	db            *gorm.DB
	perm          *PermissionService
	membership    *MembershipService
	userRepo      *mysql.UserRepository
	communityRepo *mysql.CommunityRepository
	banRepo       *mysql.CommunityBanRepository
	logRepo       *mysql.ModerationLogRepository
	limiter       *redis.ModActionRepository

	RateLimit int64
	Events    *ModerationEventService
	SMTP      *pkg.SMTPConfig
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{
		db:            db,
		perm:          NewPermissionService(db),
		membership:    NewMembershipService(db),
		userRepo:      &mysql.UserRepository{DB: db},
		communityRepo: &mysql.CommunityRepository{DB: db},
		banRepo:       &mysql.CommunityBanRepository{DB: db},
		logRepo:       &mysql.ModerationLogRepository{DB: db},
		limiter:       &redis.ModActionRepository{},
		RateLimit:     DefaultModActionLimit,
	}
}

// Execute 执行一次管理操作，成功返回落库的审计记录
func (s *ModerationService) Execute(actorID, communityID uint64, req *ModerationRequest) (*model.CommunityModerationLog, error) {
	action, err := model.ParseModerationAction(req.Action)
	if err != nil {
		return nil, ErrInvalidAction
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, err
	}
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		return nil, err
	}

	target, err := resolveTarget(action, community, req)
	if err != nil {
		return nil, err
	}

	if err := s.perm.CanPerform(actor, community, action, target); err != nil {
		return nil, err
	}
	if action.RequiresConfirmation() && !req.Confirmed {
		return nil, ErrConfirmationRequired
	}

	// 限流尽力而为：redis 不可用时放行，不因基础设施故障阻断管理
	if count, err := s.limiter.Incr(actorID, communityID); err != nil {
		pkg.L().Warn("moderation rate counter unavailable",
			zap.Uint64("actor_id", actorID), zap.Error(err))
	} else if count > s.RateLimit {
		return nil, ErrRateLimited
	}

	entry := &model.CommunityModerationLog{
		CommunityID: communityID,
		ModeratorID: actorID,
		Action:      action,
		Reason:      req.Reason,
		Metadata:    requestMetadata(action, req),
	}
	if target != nil {
		switch target.Kind {
		case model.TargetUser:
			id := target.ID
			entry.TargetUserID = &id
		default:
			id := target.ID
			entry.TargetID = &id
		}
	}
	// 所有权转移按目录记社区目标，同时保留目标用户
	if action == model.ActionTransferOwnership {
		id := req.TargetID
		entry.TargetUserID = &id
		cid := communityID
		entry.TargetID = &cid
		entry.TargetType = model.TargetCommunity
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		prev, expiresAt, err := s.apply(tx, actor, community, action, req)
		if err != nil {
			return err
		}
		entry.PreviousData = prev
		entry.ExpiresAt = expiresAt

		logRepo := &mysql.ModerationLogRepository{DB: tx}
		return logRepo.Record(entry)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(entry)
	s.notify(community, action, req, entry)
	return entry, nil
}

// resolveTarget 管理类操作一律按用户解析目标；其余按目录的目标类型
func resolveTarget(action model.ModerationAction, community *model.Community, req *ModerationRequest) (*Target, error) {
	kind := action.TargetKind()
	if action.IsManageAction() {
		kind = model.TargetUser
	}
	switch kind {
	case model.TargetUser, model.TargetPost, model.TargetComment:
		if req.TargetID == 0 {
			return nil, ErrInvalidAction
		}
		return &Target{Kind: kind, ID: req.TargetID}, nil
	case model.TargetCommunity:
		return &Target{Kind: kind, ID: community.ID}, nil
	}
	return nil, nil
}

func requestMetadata(action model.ModerationAction, req *ModerationRequest) map[string]any {
	meta := req.Metadata
	if action == model.ActionAssignModerator && req.Role != "" {
		if meta == nil {
			meta = map[string]any{}
		}
		meta["role"] = req.Role
	}
	return meta
}

// apply 在事务内落实操作本体，返回写审计用的前值快照与生效期限
func (s *ModerationService) apply(tx *gorm.DB, actor *model.User, community *model.Community, action model.ModerationAction, req *ModerationRequest) (map[string]any, *time.Time, error) {
	switch action {
	case model.ActionBanUser:
		return s.applyBan(tx, actor, community, req)
	case model.ActionUnbanUser:
		return s.applyUnban(tx, actor, community, req)
	case model.ActionWarnUser:
		userRepo := &mysql.UserRepository{DB: tx}
		prev, err := userRepo.IncrementWarningCount(req.TargetID)
		if err != nil {
			return nil, nil, err
		}
		return map[string]any{"warning_count": prev}, nil, nil
	case model.ActionMuteUser:
		if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
			return nil, nil, ErrInvalidExpiry
		}
		// 禁言本身只存在于审计记录里，生效性由日志条目判定
		return nil, req.ExpiresAt, nil
	case model.ActionUnmuteUser:
		logRepo := &mysql.ModerationLogRepository{DB: tx}
		n, err := logRepo.RevertActiveMutes(community.ID, req.TargetID)
		if err != nil {
			return nil, nil, err
		}
		return map[string]any{"reverted": n}, nil, nil

	case model.ActionRemovePost:
		return s.applyPostStatus(tx, req.TargetID, model.ContentStatusRemoved)
	case model.ActionRestorePost:
		return s.applyPostStatus(tx, req.TargetID, model.ContentStatusNormal)
	case model.ActionPinPost:
		return s.applyPostPinned(tx, req.TargetID, true)
	case model.ActionUnpinPost:
		return s.applyPostPinned(tx, req.TargetID, false)
	case model.ActionLockPost:
		return s.applyPostLocked(tx, req.TargetID, true)
	case model.ActionUnlockPost:
		return s.applyPostLocked(tx, req.TargetID, false)

	case model.ActionRemoveComment:
		return s.applyCommentStatus(tx, req.TargetID, model.ContentStatusRemoved)
	case model.ActionRestoreComment:
		return s.applyCommentStatus(tx, req.TargetID, model.ContentStatusNormal)

	case model.ActionAssignModerator:
		return s.applyAssign(tx, actor, community, req)
	case model.ActionRemoveModerator:
		return s.applyRemoveModerator(tx, community, req)
	case model.ActionPromoteModerator:
		return s.applyChangeRole(tx, actor, community, req, model.RoleAdmin)
	case model.ActionDemoteModerator:
		return s.applyChangeRole(tx, actor, community, req, model.RoleModerator)

	case model.ActionUpdateSettings:
		return s.applyUpdateSettings(tx, community, req)
	case model.ActionUpdateRules:
		commRepo := &mysql.CommunityRepository{DB: tx}
		prev := map[string]any{"rules": community.Rules}
		return prev, nil, commRepo.UpdateFields(community.ID, map[string]any{"rules": req.Rules})
	case model.ActionTransferOwnership:
		return s.applyTransfer(tx, community, req)

	case model.ActionApproveMember:
		memberRepo := &mysql.CommunityMemberRepository{DB: tx}
		n, err := memberRepo.Approve(community.ID, req.TargetID)
		if err != nil {
			return nil, nil, err
		}
		if n == 0 {
			return nil, nil, ErrNotAMember
		}
		return nil, nil, nil
	case model.ActionRejectMember, model.ActionRemoveMember:
		memberRepo := &mysql.CommunityMemberRepository{DB: tx}
		return nil, nil, memberRepo.Leave(community.ID, req.TargetID)
	}
	return nil, nil, ErrInvalidAction
}

func (s *ModerationService) applyBan(tx *gorm.DB, actor *model.User, community *model.Community, req *ModerationRequest) (map[string]any, *time.Time, error) {
	banType := req.BanType
	if banType == "" {
		banType = model.BanTypePermanent
		if req.ExpiresAt != nil {
			banType = model.BanTypeTemporary
		}
	}
	var expiresAt *time.Time
	switch banType {
	case model.BanTypeTemporary:
		if req.ExpiresAt == nil || !req.ExpiresAt.After(time.Now()) {
			return nil, nil, ErrInvalidExpiry
		}
		expiresAt = req.ExpiresAt
	case model.BanTypePermanent:
		// 永久封禁忽略期限
	default:
		return nil, nil, ErrInvalidAction
	}

	banRepo := &mysql.CommunityBanRepository{DB: tx}
	ban := &model.CommunityBan{
		CommunityID: community.ID,
		UserID:      req.TargetID,
		BannedBy:    actor.ID,
		Reason:      req.Reason,
		Type:        banType,
		ExpiresAt:   expiresAt,
		IsActive:    true,
		Metadata:    req.Metadata,
	}

	existing, err := banRepo.FindByPair(community.ID, req.TargetID)
	switch {
	case err == nil:
		if existing.ActiveNow() {
			return nil, nil, ErrAlreadyBanned
		}
		// 复用历史行：过期或已解封的 ban 重新生效
		if err := banRepo.Reactivate(existing.ID, ban); err != nil {
			return nil, nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := banRepo.Create(ban); err != nil {
			// 并发下撞唯一索引视为已被封禁
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, nil, ErrAlreadyBanned
			}
			return nil, nil, err
		}
	default:
		return nil, nil, err
	}
	return nil, expiresAt, nil
}

func (s *ModerationService) applyUnban(tx *gorm.DB, actor *model.User, community *model.Community, req *ModerationRequest) (map[string]any, *time.Time, error) {
	banRepo := &mysql.CommunityBanRepository{DB: tx}
	ban, err := banRepo.ActiveBan(community.ID, req.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotBanned
		}
		return nil, nil, err
	}
	prev := map[string]any{
		"ban_id": ban.ID,
		"type":   ban.Type,
		"reason": ban.Reason,
	}
	return prev, nil, banRepo.Unban(ban.ID, actor.ID, req.Reason)
}

func (s *ModerationService) applyPostStatus(tx *gorm.DB, postID uint64, status int) (map[string]any, *time.Time, error) {
	postRepo := &mysql.PostRepository{DB: tx}
	post, err := postRepo.FindByID(postID)
	if err != nil {
		return nil, nil, err
	}
	prev := map[string]any{"status": post.Status}
	return prev, nil, postRepo.SetStatus(postID, status)
}

func (s *ModerationService) applyPostPinned(tx *gorm.DB, postID uint64, pinned bool) (map[string]any, *time.Time, error) {
	postRepo := &mysql.PostRepository{DB: tx}
	post, err := postRepo.FindByID(postID)
	if err != nil {
		return nil, nil, err
	}
	prev := map[string]any{"is_pinned": post.IsPinned}
	return prev, nil, postRepo.SetPinned(postID, pinned)
}

func (s *ModerationService) applyPostLocked(tx *gorm.DB, postID uint64, locked bool) (map[string]any, *time.Time, error) {
	postRepo := &mysql.PostRepository{DB: tx}
	post, err := postRepo.FindByID(postID)
	if err != nil {
		return nil, nil, err
	}
	prev := map[string]any{"is_locked": post.IsLocked}
	return prev, nil, postRepo.SetLocked(postID, locked)
}

func (s *ModerationService) applyCommentStatus(tx *gorm.DB, commentID uint64, status int) (map[string]any, *time.Time, error) {
	commentRepo := &mysql.CommentRepository{DB: tx}
	comment, err := commentRepo.FindByID(commentID)
	if err != nil {
		return nil, nil, err
	}
	prev := map[string]any{"status": comment.Status}
	return prev, nil, commentRepo.SetStatus(commentID, status)
}

func (s *ModerationService) applyAssign(tx *gorm.DB, actor *model.User, community *model.Community, req *ModerationRequest) (map[string]any, *time.Time, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, nil, ErrInvalidAction
	}
	actorRole, err := s.membership.RoleOf(community, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	if !actorRole.CanAssign(role) {
		return nil, nil, ErrForbidden
	}
	ms := NewMembershipService(tx)
	return nil, nil, ms.Assign(community, req.TargetID, role, actor.ID, req.Permissions, req.Notes)
}

func (s *ModerationService) applyRemoveModerator(tx *gorm.DB, community *model.Community, req *ModerationRequest) (map[string]any, *time.Time, error) {
	modRepo := &mysql.CommunityModeratorRepository{DB: tx}
	var prev map[string]any
	if m, err := modRepo.FindActive(community.ID, req.TargetID); err == nil {
		prev = map[string]any{"role": string(m.Role)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	ms := NewMembershipService(tx)
	return prev, nil, ms.Deactivate(community.ID, req.TargetID)
}

func (s *ModerationService) applyChangeRole(tx *gorm.DB, actor *model.User, community *model.Community, req *ModerationRequest, newRole model.Role) (map[string]any, *time.Time, error) {
	actorRole, err := s.membership.RoleOf(community, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	if !actorRole.CanAssign(newRole) {
		return nil, nil, ErrForbidden
	}

	modRepo := &mysql.CommunityModeratorRepository{DB: tx}
	var prev map[string]any
	if m, err := modRepo.FindActive(community.ID, req.TargetID); err == nil {
		prev = map[string]any{"role": string(m.Role)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	ms := NewMembershipService(tx)
	return prev, nil, ms.ChangeRole(community, req.TargetID, newRole, actor.ID)
}

func (s *ModerationService) applyUpdateSettings(tx *gorm.DB, community *model.Community, req *ModerationRequest) (map[string]any, *time.Time, error) {
	fields := map[string]any{}
	prev := map[string]any{}
	if req.Description != "" {
		fields["description"] = req.Description
		prev["description"] = community.Description
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
		prev["is_public"] = community.IsPublic
	}
	if len(fields) == 0 {
		return nil, nil, ErrInvalidAction
	}
	commRepo := &mysql.CommunityRepository{DB: tx}
	return prev, nil, commRepo.UpdateFields(community.ID, fields)
}

// applyTransfer 所有权只能交给现任管理员；交接后新 owner 的版主行停用，
// 角色此后由 owner_id 派生
func (s *ModerationService) applyTransfer(tx *gorm.DB, community *model.Community, req *ModerationRequest) (map[string]any, *time.Time, error) {
	ms := NewMembershipService(tx)
	targetRole, err := ms.RoleOf(community, req.TargetID)
	if err != nil {
		return nil, nil, err
	}
	if targetRole != model.RoleAdmin {
		return nil, nil, ErrForbidden
	}

	commRepo := &mysql.CommunityRepository{DB: tx}
	prev := map[string]any{"owner_id": community.OwnerID}
	if err := commRepo.TransferOwner(community.ID, req.TargetID); err != nil {
		return nil, nil, err
	}
	return prev, nil, ms.Deactivate(community.ID, req.TargetID)
}

// notify 封禁与警告时给目标用户发邮件通知，失败只记日志
func (s *ModerationService) notify(community *model.Community, action model.ModerationAction, req *ModerationRequest, entry *model.CommunityModerationLog) {
	if s.SMTP == nil {
		return
	}
	if action != model.ActionBanUser && action != model.ActionWarnUser {
		return
	}
	target, err := s.userRepo.FindByID(req.TargetID)
	if err != nil || target.Email == "" {
		return
	}
	body := pkg.ModerationNoticeHTML(community.Name, string(action), req.Reason, entry.ExpiresAt)
	if err := pkg.SendEmail(*s.SMTP, target.Email, "社区管理通知", body); err != nil {
		pkg.L().Warn("send moderation notice failed",
			zap.Uint64("target_user_id", req.TargetID), zap.Error(err))
	}
}

// Logs 审计记录查询，供后台面板使用
func (s *ModerationService) Logs(communityID uint64, f mysql.LogFilter, offset, limit int) ([]model.CommunityModerationLog, error) {
	return s.logRepo.ListByCommunity(communityID, f, offset, limit)
}

func (s *ModerationService) Bans(communityID uint64, offset, limit int) ([]model.CommunityBan, error) {
	return s.banRepo.ListActive(communityID, offset, limit)
}

func (s *ModerationService) Moderators(communityID uint64) ([]model.CommunityModerator, error) {
	return s.membership.ListModerators(communityID, true)
}
