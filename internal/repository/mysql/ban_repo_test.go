package mysql

import (
	"testing"
	"time"

	"ForumHub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBanRepoPermanent(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityBanRepository{DB: db}

	require.NoError(t, repo.Create(&model.CommunityBan{
		CommunityID: 1, UserID: 2, BannedBy: 3,
		Type: model.BanTypePermanent, IsActive: true,
	}))

	banned, err := repo.IsBanned(1, 2)
	require.NoError(t, err)
	assert.True(t, banned)

	// 其他用户不受影响
	banned, err = repo.IsBanned(1, 9)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBanRepoLazyExpiry(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityBanRepository{DB: db}

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(&model.CommunityBan{
		CommunityID: 1, UserID: 2, BannedBy: 3,
		Type: model.BanTypeTemporary, ExpiresAt: &past, IsActive: true,
	}))

	// 行仍然 is_active，但已过期，查询层不把它算作生效
	banned, err := repo.IsBanned(1, 2)
	require.NoError(t, err)
	assert.False(t, banned)

	_, err = repo.ActiveBan(1, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 过期行仍可按 pair 找到，供重新封禁复用
	row, err := repo.FindByPair(1, 2)
	require.NoError(t, err)
	assert.True(t, row.IsActive)
	assert.True(t, row.Expired())
}

func TestBanRepoUnbanKeepsRow(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityBanRepository{DB: db}

	require.NoError(t, repo.Create(&model.CommunityBan{
		CommunityID: 1, UserID: 2, BannedBy: 3,
		Type: model.BanTypePermanent, IsActive: true, Reason: "spam",
	}))

	ban, err := repo.ActiveBan(1, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Unban(ban.ID, 3, "appeal accepted"))

	banned, err := repo.IsBanned(1, 2)
	require.NoError(t, err)
	assert.False(t, banned)

	row, err := repo.FindByPair(1, 2)
	require.NoError(t, err)
	assert.False(t, row.IsActive)
	require.NotNil(t, row.UnbannedBy)
	assert.Equal(t, uint64(3), *row.UnbannedBy)
	assert.NotNil(t, row.UnbannedAt)
	assert.Equal(t, "appeal accepted", row.UnbanReason)
}

func TestBanRepoReactivate(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityBanRepository{DB: db}

	require.NoError(t, repo.Create(&model.CommunityBan{
		CommunityID: 1, UserID: 2, BannedBy: 3,
		Type: model.BanTypePermanent, IsActive: true,
	}))
	row, err := repo.FindByPair(1, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Unban(row.ID, 3, ""))

	// 重新封禁复用同一行，解封审计字段被清空
	future := time.Now().Add(time.Hour)
	require.NoError(t, repo.Reactivate(row.ID, &model.CommunityBan{
		BannedBy: 4, Reason: "again", Type: model.BanTypeTemporary, ExpiresAt: &future,
	}))

	row, err = repo.FindByPair(1, 2)
	require.NoError(t, err)
	assert.True(t, row.IsActive)
	assert.Equal(t, uint64(4), row.BannedBy)
	assert.Equal(t, model.BanTypeTemporary, row.Type)
	assert.Nil(t, row.UnbannedBy)
	assert.Nil(t, row.UnbannedAt)
	assert.Empty(t, row.UnbanReason)

	banned, err := repo.IsBanned(1, 2)
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestBanRepoDuplicatePair(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityBanRepository{DB: db}

	require.NoError(t, repo.Create(&model.CommunityBan{
		CommunityID: 1, UserID: 2, BannedBy: 3,
		Type: model.BanTypePermanent, IsActive: true,
	}))

	// 唯一索引保证每个 (community, user) 只有一行
	err := repo.Create(&model.CommunityBan{
		CommunityID: 1, UserID: 2, BannedBy: 4,
		Type: model.BanTypePermanent, IsActive: true,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
