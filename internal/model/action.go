package model

import "errors"

var ErrUnknownAction = errors.New("unknown moderation action")

// ModerationAction 管理操作目录，值与 moderation_logs.action 字段一致
type ModerationAction string

const (
	// 用户操作
	ActionBanUser    ModerationAction = "ban_user"
	ActionUnbanUser  ModerationAction = "unban_user"
	ActionWarnUser   ModerationAction = "warn_user"
	ActionMuteUser   ModerationAction = "mute_user"
	ActionUnmuteUser ModerationAction = "unmute_user"

	// 帖子操作
	ActionRemovePost  ModerationAction = "remove_post"
	ActionRestorePost ModerationAction = "restore_post"
	ActionPinPost     ModerationAction = "pin_post"
	ActionUnpinPost   ModerationAction = "unpin_post"
	ActionLockPost    ModerationAction = "lock_post"
	ActionUnlockPost  ModerationAction = "unlock_post"

	// 评论操作
	ActionRemoveComment  ModerationAction = "remove_comment"
	ActionRestoreComment ModerationAction = "restore_comment"

	// 版主管理
	ActionAssignModerator  ModerationAction = "assign_moderator"
	ActionRemoveModerator  ModerationAction = "remove_moderator"
	ActionPromoteModerator ModerationAction = "promote_moderator"
	ActionDemoteModerator  ModerationAction = "demote_moderator"

	// 社区操作
	ActionUpdateSettings    ModerationAction = "update_settings"
	ActionUpdateRules       ModerationAction = "update_rules"
	ActionTransferOwnership ModerationAction = "transfer_ownership"

	// 成员操作
	ActionApproveMember ModerationAction = "approve_member"
	ActionRejectMember  ModerationAction = "reject_member"
	ActionRemoveMember  ModerationAction = "remove_member"
)

// TargetKind 操作目标类型
type TargetKind string

const (
	TargetUser      TargetKind = "user"
	TargetPost      TargetKind = "post"
	TargetComment   TargetKind = "comment"
	TargetCommunity TargetKind = "community"
	TargetNone      TargetKind = ""
)

var allActions = map[ModerationAction]struct{}{
	ActionBanUser: {}, ActionUnbanUser: {}, ActionWarnUser: {}, ActionMuteUser: {}, ActionUnmuteUser: {},
	ActionRemovePost: {}, ActionRestorePost: {}, ActionPinPost: {}, ActionUnpinPost: {},
	ActionLockPost: {}, ActionUnlockPost: {},
	ActionRemoveComment: {}, ActionRestoreComment: {},
	ActionAssignModerator: {}, ActionRemoveModerator: {}, ActionPromoteModerator: {}, ActionDemoteModerator: {},
	ActionUpdateSettings: {}, ActionUpdateRules: {}, ActionTransferOwnership: {},
	ActionApproveMember: {}, ActionRejectMember: {}, ActionRemoveMember: {},
}

func ParseModerationAction(s string) (ModerationAction, error) {
	a := ModerationAction(s)
	if _, ok := allActions[a]; !ok {
		return "", ErrUnknownAction
	}
	return a, nil
}

// MinimumRole 执行该操作所需的最低角色
func (a ModerationAction) MinimumRole() Role {
	switch a {
	case ActionAssignModerator, ActionRemoveModerator, ActionPromoteModerator, ActionDemoteModerator,
		ActionUpdateSettings, ActionUpdateRules, ActionTransferOwnership,
		ActionPinPost, ActionUnpinPost:
		return RoleAdmin
	}
	return RoleModerator
}

func (a ModerationAction) TargetKind() TargetKind {
	switch a {
	case ActionBanUser, ActionUnbanUser, ActionWarnUser, ActionMuteUser, ActionUnmuteUser,
		ActionAssignModerator, ActionRemoveModerator, ActionPromoteModerator, ActionDemoteModerator,
		ActionApproveMember, ActionRejectMember, ActionRemoveMember:
		return TargetUser
	case ActionRemovePost, ActionRestorePost, ActionPinPost, ActionUnpinPost,
		ActionLockPost, ActionUnlockPost:
		return TargetPost
	case ActionRemoveComment, ActionRestoreComment:
		return TargetComment
	case ActionUpdateSettings, ActionUpdateRules, ActionTransferOwnership:
		return TargetCommunity
	}
	return TargetNone
}

// RequiresConfirmation 高危操作需要调用方二次确认
func (a ModerationAction) RequiresConfirmation() bool {
	switch a {
	case ActionBanUser, ActionRemoveModerator, ActionDemoteModerator,
		ActionTransferOwnership, ActionRemoveMember:
		return true
	}
	return false
}

// IsManageAction 针对其他用户的管理类操作，需要额外的 CanManage 校验
func (a ModerationAction) IsManageAction() bool {
	switch a {
	case ActionBanUser, ActionUnbanUser,
		ActionAssignModerator, ActionRemoveModerator, ActionPromoteModerator, ActionDemoteModerator,
		ActionApproveMember, ActionRejectMember, ActionRemoveMember,
		ActionTransferOwnership:
		return true
	}
	return false
}
