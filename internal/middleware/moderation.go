package middleware

import (
	"net/http"
	"strconv"

	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextCommunityKey = "community"

// RequireRole 社区管理接口的前置守卫：解析 :id 社区、拒绝被封禁用户、
// 校验最低角色。细粒度的操作级鉴权仍由服务层完成
func RequireRole(min model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDAny, ok := c.Get(ContextUserIDKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		userID := userIDAny.(uint64)

		communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || communityID == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
			return
		}

		commRepo := &mysql.CommunityRepository{DB: mysql.DB}
		community, err := commRepo.FindByID(communityID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"msg": "community not found"})
			return
		}

		userRepo := &mysql.UserRepository{DB: mysql.DB}
		user, err := userRepo.FindByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		if user.BannedGloballyNow() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
			return
		}

		banRepo := &mysql.CommunityBanRepository{DB: mysql.DB}
		banned, err := banRepo.IsBanned(communityID, userID)
		if err != nil || banned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
			return
		}

		ms := service.NewMembershipService(mysql.DB)
		ok, err = ms.HasRoleAtLeast(community, userID, min)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
			return
		}

		c.Set(ContextCommunityKey, community)
		c.Next()
	}
}
