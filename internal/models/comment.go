package models

import (
	"time"
)

type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Cid      string   `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	Post     Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	MemberID uint     `gorm:"not null;index" json:"member_id"`
	Member   Member   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"member"`
	ParentID *uint    `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent   *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"parent"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Status   int      `gorm:"default:200;index" json:"status"`

	// 与 Post 相同的计数对方案
	TotalLikedCount        int `gorm:"default:0" json:"total_liked_count"`
	TotalUndoLikedCount    int `gorm:"default:0" json:"total_undo_liked_count"`
	TotalDislikedCount     int `gorm:"default:0" json:"total_disliked_count"`
	TotalUndoDislikedCount int `gorm:"default:0" json:"total_undo_disliked_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NetLikedCount 点赞净值
func (c *Comment) NetLikedCount() int {
	return c.TotalLikedCount - c.TotalUndoLikedCount
}

// NetDislikedCount 点踩净值
func (c *Comment) NetDislikedCount() int {
	return c.TotalDislikedCount - c.TotalUndoDislikedCount
}
