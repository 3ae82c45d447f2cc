package handlers

import (
	"net/http"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct{}

func NewMemberHandler() *MemberHandler {
	return &MemberHandler{}
}

// Profile 会员主页 GET /api/member/:id
func (h *MemberHandler) Profile(c *gin.Context) {
	var member models.Member
	if err := db.DB.First(&member, "id = ?", utils.StringToUint(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会员不存在"})
		return
	}
	if member.IsSuspended() {
		c.JSON(http.StatusNotFound, gin.H{"error": "会员不存在"})
		return
	}

	var stats models.MemberStatistics
	db.DB.Where("member_id = ?", member.ID).First(&stats)

	daysSince := utils.GetDaysSinceJoined(member.CreatedAt)

	// 获取 tab 参数，默认为 posts
	tab := c.DefaultQuery("tab", "posts")

	var posts []models.Post
	var comments []models.Comment

	if tab == "posts" {
		db.DB.Preload("Channel").Preload("Topics").
			Where("member_id = ? AND status >= ?", member.ID, models.ContentStatusActive).
			Order("created_at DESC").
			Limit(50).
			Find(&posts)
	} else if tab == "comments" {
		db.DB.Preload("Post").
			Where("member_id = ? AND status >= ?", member.ID, models.ContentStatusActive).
			Order("created_at DESC").
			Limit(50).
			Find(&comments)
	}

	c.JSON(http.StatusOK, gin.H{
		"member":     member,
		"statistics": stats,
		"days_since": daysSince,
		"posts":      posts,
		"comments":   comments,
		"tab":        tab,
	})
}

// relationMembers 按关系边类别列出对端会员
func relationMembers(ownerID uint, category string, limit int) []models.Member {
	var edges []models.Relation
	db.DB.Where("category = ? AND member_id = ? AND is_active = ?", category, ownerID, true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&edges)

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.TargetID)
	}

	var members []models.Member
	if len(ids) > 0 {
		db.DB.Where("id IN ? AND status >= ?", ids, models.MemberStatusNormal).Find(&members)
	}
	return members
}

// Following 关注列表 GET /api/member/:id/following
func (h *MemberHandler) Following(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"members": relationMembers(id, models.RelationFollow, 100)})
}

// Followers 粉丝列表(通过镜像反向边查询) GET /api/member/:id/followers
func (h *MemberHandler) Followers(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"members": relationMembers(id, models.RelationFollowedBy, 100)})
}

// Blocked 我拉黑的会员 GET /api/me/blocked
func (h *MemberHandler) Blocked(c *gin.Context) {
	member := CurrentMember(c)
	c.JSON(http.StatusOK, gin.H{"members": relationMembers(member.ID, models.RelationBlock, 100)})
}

// Saved 我收藏的帖子 GET /api/me/saved
func (h *MemberHandler) Saved(c *gin.Context) {
	member := CurrentMember(c)

	var saves []models.Save
	db.DB.Preload("Post").Preload("Post.Member").Preload("Post.Channel").
		Where("member_id = ? AND is_active = ?", member.ID, true).
		Order("updated_at DESC").
		Limit(50).
		Find(&saves)

	posts := make([]models.Post, 0, len(saves))
	for _, s := range saves {
		if s.Post.Status >= models.ContentStatusActive {
			posts = append(posts, s.Post)
		}
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// UpdateSettings 更新个人设置 POST /api/me/settings
func (h *MemberHandler) UpdateSettings(c *gin.Context) {
	member := CurrentMember(c)

	updates := map[string]interface{}{}
	if nickname := c.PostForm("nickname"); nickname != "" {
		updates["nickname"] = nickname
	}
	if bio, ok := c.GetPostForm("bio"); ok {
		updates["bio"] = bio
	}
	if avatar := c.PostForm("avatar"); avatar != "" {
		updates["avatar"] = avatar
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有需要更新的字段"})
		return
	}

	if err := db.DB.Model(member).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新失败"})
		return
	}

	c.Status(http.StatusOK)
}
