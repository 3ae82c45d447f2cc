package handlers

import (
	"net/http"
	"strings"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/services"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// parseCues 解析表单中的提及列表(逗号分隔的会员ID)
func parseCues(raw string) []uint {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		if id := utils.StringToUint(strings.TrimSpace(p)); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// resolveTopics 按名称解析话题, 不存在则惰性创建
func resolveTopics(raw string) []models.Topic {
	if raw == "" {
		return nil
	}
	var topics []models.Topic
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var topic models.Topic
		if err := db.DB.Where("name = ?", name).FirstOrCreate(&topic, models.Topic{Name: name}).Error; err != nil {
			continue
		}
		topics = append(topics, topic)
	}
	return topics
}

// commentBrief 评论摘要: 去除标记后截断, 用于通知展示
func commentBrief(content string) string {
	text := strings.TrimSpace(utils.SanitizeText(content))
	runes := []rune(text)
	if len(runes) > 80 {
		return string(runes[:80]) + "…"
	}
	return text
}

// checkPublisher 校验发布身份: 封禁 / 禁言期 / 发帖权限
func checkPublisher(c *gin.Context, member *models.Member, needPosting bool) bool {
	if member.IsSuspended() {
		c.JSON(http.StatusForbidden, gin.H{"error": "账号已被封禁，无法发布内容"})
		return false
	}
	if member.PunishExpires != nil {
		if time.Now().After(*member.PunishExpires) {
			// 惩罚已过期，恢复权限
			db.DB.Model(member).Updates(map[string]interface{}{
				"allow_posting":    true,
				"allow_commenting": true,
				"punish_expires":   nil,
			})
			member.AllowPosting = true
			member.AllowCommenting = true
		}
	}
	if needPosting && !member.AllowPosting {
		c.JSON(http.StatusForbidden, gin.H{"error": "您处于禁言状态，暂时无法发布内容"})
		return false
	}
	if !needPosting && !member.AllowCommenting {
		c.JSON(http.StatusForbidden, gin.H{"error": "您处于禁言状态，暂时无法发布评论"})
		return false
	}
	return true
}

// ListHot 热门帖子 GET /api/posts
func (h *PostHandler) ListHot(c *gin.Context) {
	var posts []models.Post
	db.DB.Preload("Member").Preload("Channel").Preload("Topics").
		Where("status >= ?", models.ContentStatusActive).
		Order("is_pinned DESC, score DESC, created_at DESC").
		Limit(50).
		Find(&posts)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ListNew 最新帖子 GET /api/posts/new
func (h *PostHandler) ListNew(c *gin.Context) {
	var posts []models.Post
	db.DB.Preload("Member").Preload("Channel").Preload("Topics").
		Where("status >= ?", models.ContentStatusActive).
		Order("created_at DESC").
		Limit(50).
		Find(&posts)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ListByChannel 频道下的帖子 GET /api/channel/:name/posts
func (h *PostHandler) ListByChannel(c *gin.Context) {
	var channel models.Channel
	if err := db.DB.Where("name = ?", c.Param("name")).First(&channel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "频道不存在"})
		return
	}

	var posts []models.Post
	db.DB.Preload("Member").Preload("Topics").
		Where("channel_id = ? AND status >= ?", channel.ID, models.ContentStatusActive).
		Order("is_pinned DESC, score DESC, created_at DESC").
		Limit(50).
		Find(&posts)

	var stats models.ChannelStatistics
	db.DB.Where("channel_id = ?", channel.ID).First(&stats)

	c.JSON(http.StatusOK, gin.H{"channel": channel, "statistics": stats, "posts": posts})
}

// ListByTopic 话题下的帖子 GET /api/topic/:name/posts
func (h *PostHandler) ListByTopic(c *gin.Context) {
	var topic models.Topic
	if err := db.DB.Where("name = ?", c.Param("name")).First(&topic).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "话题不存在"})
		return
	}

	var posts []models.Post
	db.DB.Preload("Member").Preload("Channel").
		Joins("JOIN post_topics ON post_topics.post_id = posts.id AND post_topics.topic_id = ?", topic.ID).
		Where("status >= ?", models.ContentStatusActive).
		Order("created_at DESC").
		Limit(50).
		Find(&posts)

	var stats models.TopicStatistics
	db.DB.Where("topic_id = ?", topic.ID).First(&stats)

	c.JSON(http.StatusOK, gin.H{"topic": topic, "statistics": stats, "posts": posts})
}

// Detail 帖子详情 GET /api/post/:pid
func (h *PostHandler) Detail(c *gin.Context) {
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Preload("Member").Preload("Channel").Preload("Topics").
		Where("pid = ?", pid).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}
	if post.Status < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}

	var comments []models.Comment
	db.DB.Preload("Member").
		Where("post_id = ? AND status >= ?", post.ID, models.ContentStatusActive).
		Order("created_at ASC").
		Find(&comments)

	// 当前会员对这篇帖子的互动记录(用于前端高亮)
	var attitude *models.Attitude
	var saved bool
	if member := CurrentMember(c); member != nil {
		var record models.Attitude
		if err := db.DB.Where("member_id = ? AND post_id = ?", member.ID, post.ID).First(&record).Error; err == nil {
			attitude = &record
		}
		var save models.Save
		if err := db.DB.Where("member_id = ? AND post_id = ? AND is_active = ?", member.ID, post.ID, true).First(&save).Error; err == nil {
			saved = true
		}
	}

	// 浏览计数与热度分, 响应后旁路更新
	go func(p models.Post) {
		services.ApplyPostViewed(&p)
		services.GetRankingService().ScheduleUpdate(p.ID)
	}(post)

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"content_html": utils.RenderMarkdown(post.Content),
		"comments":     comments,
		"attitude":     attitude,
		"saved":        saved,
	})
}

// Create 发布帖子 POST /api/post
func (h *PostHandler) Create(c *gin.Context) {
	member := CurrentMember(c)
	if !checkPublisher(c, member, true) {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "标题不能为空"})
		return
	}

	// 解析频道ID, 默认为1(技术)
	channelID := uint(1)
	if id := utils.StringToUint(c.PostForm("channel_id")); id != 0 {
		channelID = id
	}
	var channel models.Channel
	if err := db.DB.First(&channel, channelID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "频道不存在"})
		return
	}

	post := models.Post{
		Pid:       utils.RandStringBytesMaskImpr(8),
		MemberID:  member.ID,
		ChannelID: channelID,
		Title:     title,
		Content:   content,
		Status:    models.ContentStatusActive,
		Topics:    resolveTopics(c.PostForm("topics")),
	}

	if err := db.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "发布失败"})
		return
	}

	// 发布后的旁路更新: 统计 + @提及扇出
	cues := parseCues(c.PostForm("cues"))
	go func(p models.Post, actor models.Member, cued []uint) {
		services.ApplyPostCreated(&actor, &p)
		services.CueFanOut(&actor, cued, services.NotifyRefs{PostPid: p.Pid, Brief: p.Title})
	}(post, *member, cues)

	c.JSON(http.StatusOK, gin.H{"pid": post.Pid})
}

// Update 编辑帖子 POST /api/post/:pid/edit
func (h *PostHandler) Update(c *gin.Context) {
	member := CurrentMember(c)
	if !checkPublisher(c, member, true) {
		return
	}

	var post models.Post
	if err := db.DB.Preload("Topics").Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}
	if post.MemberID != member.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "只能编辑自己的帖子"})
		return
	}
	if post.Status < 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "帖子已删除"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "标题不能为空"})
		return
	}

	updates := map[string]interface{}{
		"title":   title,
		"content": c.PostForm("content"),
		"status":  models.ContentStatusEdited,
	}
	if err := db.DB.Model(&post).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新失败"})
		return
	}

	// 编辑同样触发 @提及扇出(相同事件ID会合并, 不会重复通知)
	cues := parseCues(c.PostForm("cues"))
	go func(p models.Post, actor models.Member, cued []uint) {
		services.CueFanOut(&actor, cued, services.NotifyRefs{PostPid: p.Pid, Brief: title})
	}(post, *member, cues)

	c.JSON(http.StatusOK, gin.H{"pid": post.Pid})
}

// Delete 删除帖子(软删除: 状态置负) DELETE /api/post/:pid
func (h *PostHandler) Delete(c *gin.Context) {
	member := CurrentMember(c)

	var post models.Post
	if err := db.DB.Preload("Topics").Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}
	if post.MemberID != member.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "只能删除自己的帖子"})
		return
	}
	if post.Status < 0 {
		c.Status(http.StatusOK)
		return
	}

	if err := db.DB.Model(&post).Update("status", models.ContentStatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除失败"})
		return
	}

	go services.ApplyPostRemoved(&post)

	c.Status(http.StatusOK)
}

// CreateComment 发表评论 POST /api/post/:pid/comment
func (h *PostHandler) CreateComment(c *gin.Context) {
	member := CurrentMember(c)
	if !checkPublisher(c, member, false) {
		return
	}

	var post models.Post
	if err := db.DB.Preload("Topics").Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "帖子不存在"})
		return
	}
	if post.Status < 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "帖子已删除"})
		return
	}

	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "评论内容不能为空"})
		return
	}

	// 回复评论时校验父评论归属
	var parent *models.Comment
	if parentCid := c.PostForm("parent_cid"); parentCid != "" {
		var parentComment models.Comment
		if err := db.DB.Where("cid = ? AND post_id = ?", parentCid, post.ID).First(&parentComment).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "被回复的评论不存在"})
			return
		}
		if parentComment.Status < 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "被回复的评论已删除"})
			return
		}
		parent = &parentComment
	}

	comment := models.Comment{
		Cid:      utils.RandStringBytesMaskImpr(8),
		PostID:   post.ID,
		MemberID: member.ID,
		Content:  content,
		Status:   models.ContentStatusActive,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "评论失败"})
		return
	}

	// 异步刷新帖子热度分
	services.GetRankingService().ScheduleUpdate(post.ID)

	// 评论统计 + reply 通知 + @提及扇出, 提及摘要用评论片段(去除标记)
	cues := parseCues(c.PostForm("cues"))
	brief := commentBrief(content)
	go func(p models.Post, cm models.Comment, actor models.Member, parentCopy *models.Comment, cued []uint) {
		services.ApplyCommentCreated(&actor, &p, &cm, parentCopy)
		services.CueFanOut(&actor, cued, services.NotifyRefs{PostPid: p.Pid, CommentCid: cm.Cid, Brief: brief})
	}(post, comment, *member, parent, cues)

	c.JSON(http.StatusOK, gin.H{"cid": comment.Cid})
}

// DeleteComment 删除评论(软删除: 状态置负) DELETE /api/comment/:cid
func (h *PostHandler) DeleteComment(c *gin.Context) {
	member := CurrentMember(c)

	var comment models.Comment
	if err := db.DB.Where("cid = ?", c.Param("cid")).First(&comment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "评论不存在"})
		return
	}

	// 只允许删除自己的评论
	if comment.MemberID != member.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "只能删除自己的评论"})
		return
	}
	if comment.Status < 0 {
		c.Status(http.StatusOK)
		return
	}

	if err := db.DB.Model(&comment).Update("status", models.ContentStatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除失败"})
		return
	}

	var post models.Post
	if err := db.DB.Preload("Topics").First(&post, comment.PostID).Error; err == nil {
		go services.ApplyCommentRemoved(&post, &comment)
	}

	c.Status(http.StatusOK)
}
