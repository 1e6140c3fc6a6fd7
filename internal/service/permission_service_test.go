package service

import (
	"testing"
	"time"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type permFixture struct {
	db        *gorm.DB
	perm      *PermissionService
	community *model.Community
	owner     *model.User
	admin     *model.User
	admin2    *model.User
	mod       *model.User
	member    *model.User
	outsider  *model.User
}

func newPermFixture(t *testing.T) *permFixture {
	db := newTestDB(t)
	f := &permFixture{
		db:       db,
		perm:     NewPermissionService(db),
		owner:    seedUser(t, db, "owner"),
		admin:    seedUser(t, db, "admin"),
		admin2:   seedUser(t, db, "admin2"),
		mod:      seedUser(t, db, "mod"),
		member:   seedUser(t, db, "member"),
		outsider: seedUser(t, db, "outsider"),
	}
	f.community = seedCommunity(t, db, f.owner, true)
	addModerator(t, db, f.community, f.admin.ID, model.RoleAdmin)
	addModerator(t, db, f.community, f.admin2.ID, model.RoleAdmin)
	addModerator(t, db, f.community, f.mod.ID, model.RoleModerator)
	addMember(t, db, f.community, f.member.ID)
	return f
}

func userTarget(u *model.User) *Target {
	return &Target{Kind: model.TargetUser, ID: u.ID}
}

func TestCanPerformParticipation(t *testing.T) {
	f := newPermFixture(t)

	err := f.perm.CanPerform(f.outsider, f.community, model.ActionWarnUser, userTarget(f.member))
	assert.ErrorIs(t, err, ErrNotAParticipant)

	// 参与资格先于封禁状态判定
	f.outsider.IsBannedGlobally = true
	err = f.perm.CanPerform(f.outsider, f.community, model.ActionWarnUser, userTarget(f.member))
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestCanPerformTierGate(t *testing.T) {
	f := newPermFixture(t)

	// member 不能执行任何管理操作
	err := f.perm.CanPerform(f.member, f.community, model.ActionWarnUser, userTarget(f.mod))
	assert.ErrorIs(t, err, ErrForbidden)

	// moderator 不能执行 admin 级操作
	err = f.perm.CanPerform(f.mod, f.community, model.ActionUpdateRules, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	err = f.perm.CanPerform(f.admin, f.community, model.ActionUpdateRules, nil)
	assert.NoError(t, err)
}

func TestCanPerformHierarchy(t *testing.T) {
	f := newPermFixture(t)
	ban := model.ActionBanUser

	// moderator 不管理任何人：过了角色门槛也会被 canManage 拦下
	assert.ErrorIs(t, f.perm.CanPerform(f.mod, f.community, ban, userTarget(f.member)), ErrForbidden)
	assert.ErrorIs(t, f.perm.CanPerform(f.mod, f.community, ban, userTarget(f.admin)), ErrForbidden)
	assert.NoError(t, f.perm.CanPerform(f.admin, f.community, ban, userTarget(f.member)))
	assert.NoError(t, f.perm.CanPerform(f.admin, f.community, ban, userTarget(f.mod)))
	assert.ErrorIs(t, f.perm.CanPerform(f.admin, f.community, ban, userTarget(f.admin2)), ErrForbidden)
	assert.ErrorIs(t, f.perm.CanPerform(f.admin, f.community, ban, userTarget(f.owner)), ErrForbidden)
	assert.NoError(t, f.perm.CanPerform(f.owner, f.community, ban, userTarget(f.admin)))

	// 自我操作一律拒绝，owner 也不例外
	assert.ErrorIs(t, f.perm.CanPerform(f.owner, f.community, ban, userTarget(f.owner)), ErrForbidden)

	// 目标不是参与者时无从管理
	assert.ErrorIs(t, f.perm.CanPerform(f.owner, f.community, ban, userTarget(f.outsider)), ErrForbidden)
}

func TestCanPerformBannedActor(t *testing.T) {
	f := newPermFixture(t)

	// 全局封禁覆盖角色：admin 也被拦截
	f.admin.IsBannedGlobally = true
	err := f.perm.CanPerform(f.admin, f.community, model.ActionWarnUser, userTarget(f.member))
	assert.ErrorIs(t, err, ErrForbidden)

	// 全局封禁过期后恢复
	past := time.Now().Add(-time.Hour)
	f.admin.BannedUntil = &past
	assert.NoError(t, f.perm.CanPerform(f.admin, f.community, model.ActionWarnUser, userTarget(f.member)))

	// 社区封禁同样覆盖角色
	banRepo := &mysql.CommunityBanRepository{DB: f.db}
	require.NoError(t, banRepo.Create(&model.CommunityBan{
		CommunityID: f.community.ID, UserID: f.admin2.ID, BannedBy: f.owner.ID,
		Type: model.BanTypePermanent, IsActive: true,
	}))
	err = f.perm.CanPerform(f.admin2, f.community, model.ActionWarnUser, userTarget(f.member))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCanPerformPostTarget(t *testing.T) {
	f := newPermFixture(t)
	postRepo := &mysql.PostRepository{DB: f.db}

	memberPost := &model.Post{CommunityID: f.community.ID, AuthorID: f.member.ID, Title: "a"}
	require.NoError(t, postRepo.Create(memberPost))
	adminPost := &model.Post{CommunityID: f.community.ID, AuthorID: f.admin.ID, Title: "b"}
	require.NoError(t, postRepo.Create(adminPost))
	modPost := &model.Post{CommunityID: f.community.ID, AuthorID: f.mod.ID, Title: "c"}
	require.NoError(t, postRepo.Create(modPost))
	stray := &model.Post{CommunityID: f.community.ID + 100, AuthorID: f.member.ID, Title: "d"}
	require.NoError(t, postRepo.Create(stray))

	remove := model.ActionRemovePost
	postTarget := func(p *model.Post) *Target { return &Target{Kind: model.TargetPost, ID: p.ID} }

	// 层级约束作用于帖子作者：moderator 不管理任何人，删他人帖子要 admin 以上
	assert.ErrorIs(t, f.perm.CanPerform(f.mod, f.community, remove, postTarget(memberPost)), ErrForbidden)
	assert.NoError(t, f.perm.CanPerform(f.admin, f.community, remove, postTarget(memberPost)))
	assert.ErrorIs(t, f.perm.CanPerform(f.mod, f.community, remove, postTarget(adminPost)), ErrForbidden)

	// 作者可以处理自己的内容，不受层级限制
	assert.NoError(t, f.perm.CanPerform(f.mod, f.community, remove, postTarget(modPost)))

	// 跨社区目标
	assert.ErrorIs(t, f.perm.CanPerform(f.mod, f.community, remove, postTarget(stray)), ErrTargetMismatch)
	assert.ErrorIs(t, f.perm.CanPerform(f.mod, f.community, remove, &Target{Kind: model.TargetPost, ID: 9999}), ErrTargetMismatch)

	// 锁定不看作者层级
	assert.NoError(t, f.perm.CanPerform(f.mod, f.community, model.ActionLockPost, postTarget(adminPost)))
}

func TestCanCreateContent(t *testing.T) {
	f := newPermFixture(t)

	assert.NoError(t, f.perm.CanCreateContent(f.member, f.community))

	// 全局禁言只拦内容创建
	f.member.IsMutedGlobally = true
	assert.ErrorIs(t, f.perm.CanCreateContent(f.member, f.community), ErrForbidden)
	f.member.IsMutedGlobally = false

	// 社区封禁
	banRepo := &mysql.CommunityBanRepository{DB: f.db}
	require.NoError(t, banRepo.Create(&model.CommunityBan{
		CommunityID: f.community.ID, UserID: f.member.ID, BannedBy: f.owner.ID,
		Type: model.BanTypePermanent, IsActive: true,
	}))
	assert.ErrorIs(t, f.perm.CanCreateContent(f.member, f.community), ErrForbidden)
}

func TestCanCreateContentPrivateCommunity(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	outsider := seedUser(t, db, "outsider")
	c := seedCommunity(t, db, owner, false)
	addMember(t, db, c, member.ID)

	perm := NewPermissionService(db)
	assert.NoError(t, perm.CanCreateContent(owner, c))
	assert.NoError(t, perm.CanCreateContent(member, c))
	assert.ErrorIs(t, perm.CanCreateContent(outsider, c), ErrNotAParticipant)
}
