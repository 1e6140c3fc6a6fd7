package handler

import (
	"errors"
	"net/http"
	"strconv"

	"ForumHub/internal/middleware"
	"ForumHub/internal/model"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// Execute 执行管理操作，POST /api/community/:id/mod
func (h *ModerationHandler) Execute(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	actorID := userIDAny.(uint64)

	idStr := c.Param("id")
	communityID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req service.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	entry, err := h.svc.Execute(actorID, communityID, &req)
	if err != nil {
		status, msg := moderationErrStatus(err)
		c.JSON(status, gin.H{"msg": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"log_id": entry.ID,
		"action": entry.Action,
		"status": entry.Status,
	})
}

// moderationErrStatus 错误到状态码的映射：权限类 403、确认缺失 422、限流 429
func moderationErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidExpiry),
		errors.Is(err, service.ErrTargetMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotAParticipant),
		errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrConfirmationRequired),
		errors.Is(err, service.ErrLimitExceeded):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, service.ErrAlreadyBanned):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNotBanned),
		errors.Is(err, service.ErrNotAMember):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	}
	return http.StatusInternalServerError, "internal error"
}

// Logs 审计记录列表，支持按操作者/目标用户/操作过滤
func (h *ModerationHandler) Logs(c *gin.Context) {
	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	var f mysql.LogFilter
	if v, err := strconv.ParseUint(c.Query("moderator_id"), 10, 64); err == nil {
		f.ModeratorID = v
	}
	if v, err := strconv.ParseUint(c.Query("target_user_id"), 10, 64); err == nil {
		f.TargetUserID = v
	}
	if a := c.Query("action"); a != "" {
		f.Action = model.ModerationAction(a)
	}

	list, err := h.svc.Logs(communityID, f, (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "page": page, "size": size})
}

func (h *ModerationHandler) Bans(c *gin.Context) {
	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	list, err := h.svc.Bans(communityID, (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ModerationHandler) Moderators(c *gin.Context) {
	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	list, err := h.svc.Moderators(communityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
