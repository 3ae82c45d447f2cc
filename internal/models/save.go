package models

import (
	"time"
)

// Save 收藏记录 - 会员收藏帖子, 切换时翻转 IsActive 而非删除
type Save struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"not null;index;uniqueIndex:idx_member_post_save" json:"member_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_member_post_save" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
