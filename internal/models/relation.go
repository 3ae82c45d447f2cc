package models

import (
	"time"
)

// 关系边类别: 正向边与镜像反向边成对维护, 便于反查("谁关注了我"/"谁拉黑了我")
const (
	RelationFollow     = "follow"
	RelationFollowedBy = "followed_by"
	RelationBlock      = "block"
	RelationBlockedBy  = "blocked_by"
)

// Relation 有向关系边(关注/拉黑)。切换通过翻转 IsActive 实现, 不删除边。
type Relation struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"` // uuid
	Category string `gorm:"size:20;not null;uniqueIndex:idx_relation_edge" json:"category"`
	MemberID uint   `gorm:"not null;uniqueIndex:idx_relation_edge;index" json:"member_id"` // 边的所有者
	TargetID uint   `gorm:"not null;uniqueIndex:idx_relation_edge" json:"target_id"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MirrorCategory 返回镜像边的类别
func MirrorCategory(category string) string {
	switch category {
	case RelationFollow:
		return RelationFollowedBy
	case RelationFollowedBy:
		return RelationFollow
	case RelationBlock:
		return RelationBlockedBy
	case RelationBlockedBy:
		return RelationBlock
	}
	return category
}
