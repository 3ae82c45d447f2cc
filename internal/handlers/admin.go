package handlers

import (
	"net/http"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// PunishMember 惩罚会员 POST /api/admin/member/:id/punish
// action: suspend(封禁) / mute_post(禁发帖) / mute_comment(禁评论)
// days: 惩罚天数, 0 表示永久
func (h *AdminHandler) PunishMember(c *gin.Context) {
	var member models.Member
	if err := db.DB.First(&member, utils.StringToUint(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会员不存在"})
		return
	}
	if member.Role == "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "不能惩罚管理员"})
		return
	}

	updates := map[string]interface{}{}
	switch c.PostForm("action") {
	case "suspend":
		updates["status"] = models.MemberStatusSuspended
	case "mute_post":
		updates["allow_posting"] = false
	case "mute_comment":
		updates["allow_commenting"] = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知操作"})
		return
	}

	if days := utils.StringToInt(c.PostForm("days")); days > 0 {
		expires := time.Now().AddDate(0, 0, days)
		updates["punish_expires"] = &expires
	} else {
		updates["punish_expires"] = nil
	}

	if err := db.DB.Model(&member).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	_ = services.Emit(member.ID, models.NotificationSystem, 0, "系统",
		services.NotifyRefs{Brief: "您的账号因违规受到处罚，如有疑问请联系管理员"})

	c.JSON(http.StatusOK, gin.H{"message": "处罚已生效"})
}

// RestoreMember 解除惩罚 POST /api/admin/member/:id/restore
func (h *AdminHandler) RestoreMember(c *gin.Context) {
	var member models.Member
	if err := db.DB.First(&member, utils.StringToUint(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会员不存在"})
		return
	}

	updates := map[string]interface{}{
		"allow_posting":    true,
		"allow_commenting": true,
		"punish_expires":   nil,
	}
	if member.Status == models.MemberStatusSuspended {
		updates["status"] = models.MemberStatusNormal
	}
	if err := db.DB.Model(&member).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已恢复"})
}

// RemovePost 管理员下架帖子 POST /api/admin/post/:pid/remove
func (h *AdminHandler) RemovePost(c *gin.Context) {
	var post models.Post
	if err := db.DB.Preload("Topics").Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}
	if post.Status < 0 {
		c.JSON(http.StatusOK, gin.H{"message": "帖子已下架"})
		return
	}

	if err := db.DB.Model(&post).Update("status", models.ContentStatusRemoved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	go func() {
		services.ApplyPostRemoved(&post)
		_ = services.Emit(post.MemberID, models.NotificationSystem, 0, "系统",
			services.NotifyRefs{PostPid: post.Pid, Brief: "您的帖子因违规被下架: " + post.Title})
	}()

	c.JSON(http.StatusOK, gin.H{"message": "帖子已下架"})
}

// RemoveComment 管理员删除评论 POST /api/admin/comment/:cid/remove
func (h *AdminHandler) RemoveComment(c *gin.Context) {
	var comment models.Comment
	if err := db.DB.Where("cid = ?", c.Param("cid")).First(&comment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "评论不存在"})
		return
	}
	if comment.Status < 0 {
		c.JSON(http.StatusOK, gin.H{"message": "评论已删除"})
		return
	}
	var post models.Post
	if err := db.DB.Preload("Topics").First(&post, comment.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	if err := db.DB.Model(&comment).Update("status", models.ContentStatusRemoved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	go func() {
		services.ApplyCommentRemoved(&post, &comment)
		_ = services.Emit(comment.MemberID, models.NotificationSystem, 0, "系统",
			services.NotifyRefs{PostPid: post.Pid, CommentCid: comment.Cid, Brief: "您的评论因违规被删除"})
	}()

	c.JSON(http.StatusOK, gin.H{"message": "评论已删除"})
}

// PinPost 置顶/取消置顶 POST /api/admin/post/:pid/pin
func (h *AdminHandler) PinPost(c *gin.Context) {
	admin := CurrentMember(c)

	var post models.Post
	if err := db.DB.Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}
	if post.Status < 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "帖子已删除"})
		return
	}

	pinned := !post.IsPinned
	if err := db.DB.Model(&post).Update("is_pinned", pinned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}

	// 置顶状态变化后立即刷新热度分, 列表排序马上一致
	services.UpdatePostScoreSync(post.ID)

	// 置顶是荣誉性事件, 通知作者; 取消置顶不打扰
	if pinned && post.MemberID != admin.ID {
		go func() {
			_ = services.Emit(post.MemberID, models.NotificationPin, admin.ID, admin.Nickname,
				services.NotifyRefs{PostPid: post.Pid, Brief: post.Title})
		}()
	}

	c.JSON(http.StatusOK, gin.H{"pinned": pinned})
}

// ListReports 待处理举报列表 GET /api/admin/reports
func (h *AdminHandler) ListReports(c *gin.Context) {
	var reports []models.Report
	query := db.DB.Preload("Member").Order("created_at DESC").Limit(100)
	if c.Query("all") == "" {
		query = query.Where("handled = ?", false)
	}
	if err := query.Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// HandleReport 标记举报已处理 POST /api/admin/report/:id/handle
func (h *AdminHandler) HandleReport(c *gin.Context) {
	var report models.Report
	if err := db.DB.First(&report, utils.StringToUint(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "举报不存在"})
		return
	}
	if err := db.DB.Model(&report).Update("handled", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已处理"})
}
