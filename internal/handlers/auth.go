package handlers

import (
	"net/http"
	"strings"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"
	"senlin/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService    *services.MailService
	captchaService *services.CaptchaService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService:    services.NewMailService(),
		captchaService: services.NewCaptchaService(),
	}
}

// Captcha 下发算术验证码 GET /api/captcha
func (h *AuthHandler) Captcha(c *gin.Context) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	c.JSON(http.StatusOK, gin.H{"captcha": question})
}

// createMember 创建新会员的通用函数
func (h *AuthHandler) createMember(nickname, email, password string) (*models.Member, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	member := models.Member{
		Nickname: nickname,
		Email:    email,
		Password: hash,
		Avatar:   utils.GetRandomEmoji(), // 随机 emoji 头像
		Status:   models.MemberStatusUnverified,
	}

	if err := db.DB.Create(&member).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

// Register 注册 POST /api/signup
func (h *AuthHandler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	captchaInput := c.PostForm("captcha")

	// Validate Captcha
	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(captchaInput) != expectedAnswer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "验证码错误"})
		return
	}
	// Clear captcha after use
	session.Delete("captcha_answer")
	session.Save()

	// Extract nickname from email
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邮箱格式不正确"})
		return
	}
	nickname := parts[0]

	if len(password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "密码至少6位"})
		return
	}

	member, err := h.createMember(nickname, email, password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "邮箱已注册"})
		return
	}

	// Send Activation Email
	code := utils.GenerateRandomCode(6)
	member.VerifyCode = code
	db.DB.Save(member)
	h.mailService.SendActivationEmail(email, code)

	c.JSON(http.StatusOK, gin.H{"message": "注册成功，激活码已发送至您的邮箱"})
}

// Activate 激活账号 POST /api/activate
func (h *AuthHandler) Activate(c *gin.Context) {
	email := c.PostForm("email")
	code := c.PostForm("code")

	var member models.Member
	if err := db.DB.Where("email = ?", email).First(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邮箱未注册"})
		return
	}
	if member.Status != models.MemberStatusUnverified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "账号无需激活"})
		return
	}
	if code == "" || member.VerifyCode != code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "激活码错误"})
		return
	}

	db.DB.Model(&member).Updates(map[string]interface{}{
		"status":      models.MemberStatusNormal,
		"verify_code": "",
	})

	c.JSON(http.StatusOK, gin.H{"message": "激活成功"})
}

// Login 登录 POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	var member models.Member
	if err := db.DB.Where("email = ?", email).First(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邮箱或密码错误"})
		return
	}
	if !utils.CheckPasswordHash(password, member.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邮箱或密码错误"})
		return
	}
	if member.IsSuspended() {
		c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁"})
		return
	}

	session := sessions.Default(c)
	session.Set("member_id", member.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// Logout 退出登录 POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete("member_id")
	session.Save()
	c.Status(http.StatusOK)
}

// ForgotPassword 发送重置密码验证码 POST /api/password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := c.PostForm("email")

	var member models.Member
	if err := db.DB.Where("email = ?", email).First(&member).Error; err != nil {
		// 不暴露邮箱是否注册
		c.JSON(http.StatusOK, gin.H{"message": "如果该邮箱已注册，验证码已发送"})
		return
	}

	code := utils.GenerateRandomCode(6)
	db.DB.Model(&member).Update("verify_code", code)
	h.mailService.SendResetEmail(email, code)

	c.JSON(http.StatusOK, gin.H{"message": "如果该邮箱已注册，验证码已发送"})
}

// ResetPassword 用验证码重置密码 POST /api/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	email := c.PostForm("email")
	code := c.PostForm("code")
	password := c.PostForm("password")

	if len(password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "密码至少6位"})
		return
	}

	var member models.Member
	if err := db.DB.Where("email = ?", email).First(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "验证码错误"})
		return
	}
	if code == "" || member.VerifyCode != code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "验证码错误"})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
		return
	}
	db.DB.Model(&member).Updates(map[string]interface{}{
		"password":    hash,
		"verify_code": "",
	})

	c.JSON(http.StatusOK, gin.H{"message": "密码已重置，请重新登录"})
}
