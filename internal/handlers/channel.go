package handlers

import (
	"net/http"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct{}

func NewChannelHandler() *ChannelHandler {
	return &ChannelHandler{}
}

// ListChannels 所有频道列表 GET /api/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	// 频道几乎不变, 走本地缓存
	if cached := utils.GetCache().Get("channels:all"); cached != nil {
		c.JSON(http.StatusOK, gin.H{"channels": cached})
		return
	}

	var channels []models.Channel
	db.DB.Order("id ASC").Find(&channels)
	utils.GetCache().Set("channels:all", channels, 10*time.Minute)

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}
