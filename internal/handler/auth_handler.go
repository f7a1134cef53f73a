package handler

import (
	"net/http"
	"newsjam-server/internal/common/httpx"
	"newsjam-server/internal/config"
	"newsjam-server/internal/dto"
	"newsjam-server/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username      string `json:"username" binding:"required"`
		Email         string `json:"email" binding:"required"`
		Password      string `json:"password" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数格式错误"})
		return
	}

	if verified, msg := verifyCaptchaChallenge(req.CaptchaID, req.CaptchaAnswer); !verified {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	user, err := h.authService.RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "注册失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "注册成功",
		"user":    dto.NewUserRead(user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required"`
		Password      string `json:"password" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if verified, msg := verifyCaptchaChallenge(req.CaptchaID, req.CaptchaAnswer); !verified {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	token, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "登录失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "登录成功",
	})
}

// GetCaptchaImage 生成图片验证码。
func (h *AuthHandler) GetCaptchaImage(c *gin.Context) {
	if !config.Get().Captcha.Enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "验证码未启用"})
		return
	}

	id, b64s, _, err := utils.MakeCaptcha()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "验证码生成失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"captcha_id": id,
		"image":      b64s,
	})
}

// verifyCaptchaChallenge 在启用验证码时校验挑战，未启用时直接放行。
func verifyCaptchaChallenge(id, answer string) (bool, string) {
	if !config.Get().Captcha.Enabled {
		return true, ""
	}
	if id == "" || answer == "" {
		return false, "请完成验证码"
	}
	if !utils.VerifyCaptcha(id, answer) {
		return false, "验证码错误"
	}
	return true, ""
}
