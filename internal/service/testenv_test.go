package service

import (
	"testing"
	"time"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"
	redisrepo "ForumHub/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB 独立内存库加 miniredis，限流计数走真实的 redis 命令路径
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityModerator{},
		&model.CommunityBan{},
		&model.CommunityModerationLog{},
		&model.Post{},
		&model.Comment{},
	))

	mr := miniredis.RunT(t)
	redisrepo.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "x", Email: username + "@test.local"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCommunity(t *testing.T, db *gorm.DB, owner *model.User, isPublic bool) *model.Community {
	t.Helper()
	repo := &mysql.CommunityRepository{DB: db}
	c := &model.Community{Name: t.Name(), OwnerID: owner.ID, IsPublic: isPublic}
	_, err := repo.Create(c)
	require.NoError(t, err)
	return c
}

func addMember(t *testing.T, db *gorm.DB, c *model.Community, userID uint64) {
	t.Helper()
	now := time.Now()
	repo := &mysql.CommunityMemberRepository{DB: db}
	require.NoError(t, repo.Join(&model.CommunityMember{
		CommunityID: c.ID, UserID: userID, ApprovedAt: &now,
	}))
}

func addModerator(t *testing.T, db *gorm.DB, c *model.Community, userID uint64, role model.Role) {
	t.Helper()
	addMember(t, db, c, userID)
	repo := &mysql.CommunityModeratorRepository{DB: db}
	require.NoError(t, repo.Upsert(&model.CommunityModerator{
		CommunityID: c.ID, UserID: userID, Role: role,
		AssignedBy: c.OwnerID, AssignedAt: time.Now(), IsActive: true,
	}))
}
