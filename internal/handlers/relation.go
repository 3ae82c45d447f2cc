package handlers

import (
	"errors"
	"net/http"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type RelationHandler struct{}

func NewRelationHandler() *RelationHandler {
	return &RelationHandler{}
}

// toggle 关注/拉黑共用的切换流程
func (h *RelationHandler) toggle(c *gin.Context, category string, onLabel, offLabel string) {
	member := CurrentMember(c)
	if member.IsSuspended() {
		c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁，无法操作"})
		return
	}

	targetID := utils.StringToUint(c.Param("id"))
	if targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的会员ID"})
		return
	}

	var target models.Member
	if err := db.DB.First(&target, targetID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的会员ID"})
		return
	}

	active, err := services.ToggleRelation(category, member, &target)
	if err != nil {
		if errors.Is(err, services.ErrSelfRelation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "不能对自己操作"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	if active {
		c.String(http.StatusOK, onLabel)
	} else {
		c.String(http.StatusOK, offLabel)
	}
}

// Follow 关注/取消关注 POST /api/follow/:id
func (h *RelationHandler) Follow(c *gin.Context) {
	h.toggle(c, models.RelationFollow, "Follow success", "Undo Follow success")
}

// Block 拉黑/取消拉黑 POST /api/block/:id
func (h *RelationHandler) Block(c *gin.Context) {
	h.toggle(c, models.RelationBlock, "Block success", "Undo Block success")
}
