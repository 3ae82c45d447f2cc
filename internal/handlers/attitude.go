package handlers

import (
	"errors"
	"net/http"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"

	"github.com/gin-gonic/gin"
)

type AttitudeHandler struct{}

func NewAttitudeHandler() *AttitudeHandler {
	return &AttitudeHandler{}
}

// Change 处理表态请求 POST /api/attitude/:type/:id
// type: "post" 或 "comment", id: pid 或 cid, 表单字段 attitude: -1|0|1
func (h *AttitudeHandler) Change(c *gin.Context) {
	member := CurrentMember(c)
	if member.IsSuspended() {
		c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁，无法操作"})
		return
	}

	want := 0
	switch c.PostForm("attitude") {
	case "1":
		want = models.AttitudeLiked
	case "-1":
		want = models.AttitudeDisliked
	case "0", "":
		want = models.AttitudeNone
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的态度值"})
		return
	}

	itemType := c.Param("type") // "post" or "comment"
	id := c.Param("id")

	var target services.AttitudeTarget
	switch itemType {
	case "post":
		var post models.Post
		if err := db.DB.Preload("Topics").Where("pid = ?", id).First(&post).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
			return
		}
		target = services.AttitudeTarget{Post: &post}
	case "comment":
		var comment models.Comment
		if err := db.DB.Where("cid = ?", id).First(&comment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "评论不存在"})
			return
		}
		var post models.Post
		if err := db.DB.Preload("Topics").First(&post, comment.PostID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
			return
		}
		target = services.AttitudeTarget{Post: &post, Comment: &comment}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的目标类型"})
		return
	}

	prev, err := services.ChangeAttitude(member, target, want)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAttitude):
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的态度值"})
		case errors.Is(err, services.ErrTargetDeleted):
			c.JSON(http.StatusForbidden, gin.H{"error": "内容已删除"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		}
		return
	}

	// 异步刷新帖子热度分
	services.GetRankingService().ScheduleUpdate(target.Post.ID)

	c.JSON(http.StatusOK, gin.H{"attitude": want, "previous": prev})
}
