package service

import "errors"

// 管理子系统的错误分类，handler 按类别映射为 HTTP 状态码。
// 所有失败都以类型化错误返回，不会中断进程
var (
	ErrInvalidAction        = errors.New("invalid moderation action")
	ErrNotAParticipant      = errors.New("not a community participant")
	ErrForbidden            = errors.New("forbidden")
	ErrTargetMismatch       = errors.New("target does not belong to this community")
	ErrAlreadyBanned        = errors.New("user already banned")
	ErrNotBanned            = errors.New("user is not banned")
	ErrLimitExceeded        = errors.New("moderator limit exceeded")
	ErrConfirmationRequired = errors.New("action requires confirmation")
	ErrRateLimited          = errors.New("too many moderation actions")
	ErrNotAMember           = errors.New("target is not a member")
	ErrInvalidExpiry        = errors.New("temporary ban requires a future expiry")
)
