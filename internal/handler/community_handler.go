package handler

import (
	"net/http"
	"strconv"

	"ForumHub/internal/middleware"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{
		svc: service.NewCommunityService(mysql.DB),
	}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	// 默认公开
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	community, err := h.svc.CreateCommunity(userID, req.Name, req.Description, isPublic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
	})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	community, err := h.svc.GetCommunity(communityID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "community not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
		"rules":       community.Rules,
		"is_public":   community.IsPublic,
		"owner_id":    community.OwnerID,
	})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	if err := h.svc.JoinCommunity(userID, communityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	if err := h.svc.LeaveCommunity(userID, communityID); err != nil {
		if err == service.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"msg": "owner must transfer ownership first"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCommunities(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}
