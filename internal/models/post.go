package models

import (
	"time"
)

// 内容状态码: 负数=已删除, 200=正常, 201=编辑后正常
const (
	ContentStatusRemoved = -2 // 管理员删除
	ContentStatusDeleted = -1 // 作者删除
	ContentStatusActive  = 200
	ContentStatusEdited  = 201
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Pid       string    `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	MemberID  uint      `gorm:"not null;index" json:"member_id"`
	Member    Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"member"`
	ChannelID uint      `gorm:"not null;index;default:1" json:"channel_id"`
	Channel   Channel   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"channel"`
	Topics    []Topic   `gorm:"many2many:post_topics;" json:"topics"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Status    int       `gorm:"default:200;index" json:"status"`
	IsPinned  bool      `gorm:"default:false" json:"is_pinned"`
	Score     int       `gorm:"default:0" json:"score"` // 热度分(0-100), 由 ranking 服务异步更新

	// 统计计数对: 净值 = total - totalUndo, 读取时计算, 永不原地递减
	TotalHitCount          int `gorm:"default:0" json:"total_hit_count"`
	TotalLikedCount        int `gorm:"default:0" json:"total_liked_count"`
	TotalUndoLikedCount    int `gorm:"default:0" json:"total_undo_liked_count"`
	TotalDislikedCount     int `gorm:"default:0" json:"total_disliked_count"`
	TotalUndoDislikedCount int `gorm:"default:0" json:"total_undo_disliked_count"`
	TotalCommentCount      int `gorm:"default:0" json:"total_comment_count"`
	TotalUndoCommentCount  int `gorm:"default:0" json:"total_undo_comment_count"`
	TotalSavedCount        int `gorm:"default:0" json:"total_saved_count"`
	TotalUndoSavedCount    int `gorm:"default:0" json:"total_undo_saved_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NetLikedCount 点赞净值
func (p *Post) NetLikedCount() int {
	return p.TotalLikedCount - p.TotalUndoLikedCount
}

// NetDislikedCount 点踩净值
func (p *Post) NetDislikedCount() int {
	return p.TotalDislikedCount - p.TotalUndoDislikedCount
}

// NetCommentCount 评论净值
func (p *Post) NetCommentCount() int {
	return p.TotalCommentCount - p.TotalUndoCommentCount
}

// NetSavedCount 收藏净值
func (p *Post) NetSavedCount() int {
	return p.TotalSavedCount - p.TotalUndoSavedCount
}
