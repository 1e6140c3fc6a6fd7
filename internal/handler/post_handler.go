package handler

import (
	"net/http"
	"strconv"

	"ForumHub/internal/middleware"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	CommunityID uint64 `json:"community_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

type CreateCommentReq struct {
	Content string `json:"content"`
}

func NewPostHandler() *PostHandler {
	return &PostHandler{
		svc: service.NewPostService(mysql.DB),
	}
}

// CreatePost 创建帖子接口
func (h *PostHandler) CreatePost(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	var req CreatePostReq

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(userID, req.CommunityID, req.Title, req.Content)
	if err != nil {
		switch err {
		case service.ErrForbidden:
			c.JSON(http.StatusForbidden, gin.H{"msg": "posting not allowed"})
		case service.ErrNotAParticipant:
			c.JSON(http.StatusForbidden, gin.H{"msg": "join the community first"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

// ListByCommunity 获取帖子列表接口
func (h *PostHandler) ListByCommunity(c *gin.Context) {
	idStr := c.Param("id")
	communityID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByCommunity(communityID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list": list,
		"page": page,
		"size": size,
	})
}

// DeletePost 作者删除自己的帖子
func (h *PostHandler) DeletePost(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	idStr := c.Param("id")
	postID, _ := strconv.ParseUint(idStr, 10, 64)

	if err := h.svc.DeletePost(userID, postID); err != nil {
		if err == service.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"msg": "not the author"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	idStr := c.Param("id")
	postID, _ := strconv.ParseUint(idStr, 10, 64)

	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	comment, err := h.svc.CreateComment(userID, postID, req.Content)
	if err != nil {
		switch err {
		case service.ErrForbidden:
			c.JSON(http.StatusForbidden, gin.H{"msg": "commenting not allowed"})
		case service.ErrNotAParticipant:
			c.JSON(http.StatusForbidden, gin.H{"msg": "join the community first"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": comment.ID})
}

func (h *PostHandler) ListComments(c *gin.Context) {
	idStr := c.Param("id")
	postID, _ := strconv.ParseUint(idStr, 10, 64)

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListComments(postID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
