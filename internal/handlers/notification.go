package handlers

import (
	"net/http"

	"senlin/internal/db"
	"senlin/internal/models"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List 通知列表 GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	member := CurrentMember(c)

	var notifications []models.Notification
	db.DB.Where("recipient_id = ?", member.ID).
		Order("updated_at DESC").
		Limit(50).
		Find(&notifications)

	// 各类别累计计数(尽力而为口径, 允许与列表有出入)
	var stats models.NotificationStatistics
	db.DB.Where("member_id = ?", member.ID).First(&stats)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"statistics":    stats,
		"unread":        UnreadCount(c),
	})
}

// Read 标记单条已读 POST /api/notifications/:id/read
func (h *NotificationHandler) Read(c *gin.Context) {
	member := CurrentMember(c)
	id := c.Param("id")

	var notification models.Notification
	if err := db.DB.Where("id = ? AND recipient_id = ?", id, member.ID).First(&notification).Error; err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	notification.IsRead = true
	db.DB.Save(&notification)

	c.Status(http.StatusOK)
}

// Delete 删除单条通知 DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	member := CurrentMember(c)
	id := c.Param("id")

	var notification models.Notification
	if err := db.DB.Where("id = ? AND recipient_id = ?", id, member.ID).First(&notification).Error; err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	db.DB.Delete(&notification)

	c.Status(http.StatusOK)
}

// ReadAll 全部标记已读 POST /api/notifications/read-all
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	member := CurrentMember(c)

	db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", member.ID, false).
		Update("is_read", true)

	c.Status(http.StatusOK)
}
