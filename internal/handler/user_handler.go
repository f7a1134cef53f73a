package handler

import (
	"net/http"
	"newsjam-server/internal/common/httpx"
	"newsjam-server/internal/dto"
	"newsjam-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	user, err := h.userService.GetProfile(uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取用户信息失败")
		return
	}

	c.JSON(http.StatusOK, dto.NewUserRead(user))
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	var req struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := h.userService.UpdatePassword(uid, req.NewPassword); err != nil {
		httpx.WriteServiceError(c, err, "密码更新失败，请稍后重试")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser 删除账号，只允许本人操作。
func (h *UserHandler) DeleteUser(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(uid, id); err != nil {
		httpx.WriteServiceError(c, err, "账号删除失败，请稍后重试")
		return
	}

	c.Status(http.StatusNoContent)
}
