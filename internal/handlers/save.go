package handlers

import (
	"errors"
	"net/http"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"

	"github.com/gin-gonic/gin"
)

type SaveHandler struct{}

func NewSaveHandler() *SaveHandler {
	return &SaveHandler{}
}

// Toggle 切换收藏状态 POST /api/save/:pid
func (h *SaveHandler) Toggle(c *gin.Context) {
	member := CurrentMember(c)
	if member.IsSuspended() {
		c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁，无法操作"})
		return
	}

	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Preload("Topics").Where("pid = ?", pid).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	active, err := services.ToggleSave(member, &post)
	if err != nil {
		if errors.Is(err, services.ErrTargetDeleted) {
			c.JSON(http.StatusForbidden, gin.H{"error": "内容已删除"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	// 异步刷新帖子热度分
	services.GetRankingService().ScheduleUpdate(post.ID)

	if active {
		c.String(http.StatusOK, "Save success")
	} else {
		c.String(http.StatusOK, "Undo Save success")
	}
}
