package handlers

import (
	"net/http"
	"strings"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// Create 举报帖子或评论 POST /api/report/:type/:id
// type: post(按 pid) / comment(按 cid)
func (h *ReportHandler) Create(c *gin.Context) {
	member := CurrentMember(c)
	if member.IsSuspended() {
		c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁"})
		return
	}

	reason := strings.TrimSpace(c.PostForm("reason"))
	if reason == "" || len(reason) > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请填写举报理由(200字以内)"})
		return
	}

	report := models.Report{
		MemberID: member.ID,
		Reason:   reason,
	}
	refs := services.NotifyRefs{}

	switch c.Param("type") {
	case "post":
		var post models.Post
		if err := db.DB.Where("pid = ?", c.Param("id")).First(&post).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
			return
		}
		report.ItemType = "post"
		report.ItemID = post.ID
		report.ItemPid = post.Pid
		refs.PostPid = post.Pid
		refs.Brief = "帖子被举报: " + post.Title
	case "comment":
		var comment models.Comment
		if err := db.DB.Preload("Post").Where("cid = ?", c.Param("id")).First(&comment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "评论不存在"})
			return
		}
		report.ItemType = "comment"
		report.ItemID = comment.ID
		report.ItemPid = comment.Cid
		refs.PostPid = comment.Post.Pid
		refs.CommentCid = comment.Cid
		refs.Brief = "评论被举报"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知举报类型"})
		return
	}

	// 同一会员对同一内容的重复举报只记一次
	var existing models.Report
	err := db.DB.Where("member_id = ? AND item_type = ? AND item_id = ? AND handled = ?",
		member.ID, report.ItemType, report.ItemID, false).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "已收到您的举报，请耐心等待处理"})
		return
	}

	if err := db.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "举报失败"})
		return
	}

	// 通知所有管理员; 同一内容的多次举报经 event_id 合并为一条
	go func() {
		var admins []models.Member
		if err := db.DB.Where("role = ?", "admin").Find(&admins).Error; err != nil {
			return
		}
		for _, admin := range admins {
			_ = services.Emit(admin.ID, models.NotificationReport, member.ID, member.Nickname, refs)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "已收到您的举报，请耐心等待处理"})
}
