package handlers

import (
	"senlin/internal/middleware"
	"senlin/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentMember 从上下文取当前登录会员, 未登录返回 nil
func CurrentMember(c *gin.Context) *models.Member {
	if member, exists := c.Get(middleware.CheckMemberKey); exists {
		return member.(*models.Member)
	}
	return nil
}

// UnreadCount 当前会员未读通知数
func UnreadCount(c *gin.Context) int64 {
	if count, ok := c.Get(middleware.UnreadCountKey); ok {
		return count.(int64)
	}
	return 0
}
