package model

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role 社区内角色，按权限从高到低排序
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"

	// RoleNone 表示用户不是社区参与者
	RoleNone Role = ""
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleModerator, RoleMember:
		return Role(s), nil
	}
	return RoleNone, ErrUnknownRole
}

// Authority 角色权限等级：owner=4 > admin=3 > moderator=2 > member=1
func (r Role) Authority() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

func (r Role) HasHigherAuthorityThan(other Role) bool {
	return r.Authority() > other.Authority()
}

// CanManage 是否可以管理另一角色：owner 管理所有人，admin 管理 moderator/member
func (r Role) CanManage(other Role) bool {
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin:
		return other == RoleModerator || other == RoleMember
	}
	return false
}

// AssignableRoles 当前角色可以指派的角色集合
func (r Role) AssignableRoles() []Role {
	switch r {
	case RoleOwner:
		return []Role{RoleAdmin, RoleModerator}
	case RoleAdmin:
		return []Role{RoleModerator}
	}
	return nil
}

func (r Role) CanAssign(target Role) bool {
	for _, a := range r.AssignableRoles() {
		if a == target {
			return true
		}
	}
	return false
}
