package models

import (
	"time"
)

// 聚合统计: 每个实体一行, 各字段独立非事务递增, 尽力而为(允许近似)。
// 行在首次递增前通过 ON CONFLICT DO NOTHING 惰性创建。

type MemberStatistics struct {
	MemberID uint `gorm:"primaryKey" json:"member_id"`

	TotalCreationCount         int `gorm:"default:0" json:"total_creation_count"`          // 发帖数
	TotalCommentCount          int `gorm:"default:0" json:"total_comment_count"`           // 评论数
	TotalCreationHitCount      int `gorm:"default:0" json:"total_creation_hit_count"`      // 作品被浏览
	TotalCreationLikedCount    int `gorm:"default:0" json:"total_creation_liked_count"`    // 作品获赞
	TotalCreationDislikedCount int `gorm:"default:0" json:"total_creation_disliked_count"` // 作品被踩
	TotalCreationSavedCount    int `gorm:"default:0" json:"total_creation_saved_count"`    // 作品被收藏
	TotalLikeCount             int `gorm:"default:0" json:"total_like_count"`              // 点出的赞
	TotalDislikeCount          int `gorm:"default:0" json:"total_dislike_count"`           // 点出的踩
	TotalSaveCount             int `gorm:"default:0" json:"total_save_count"`              // 收藏数
	TotalFollowingCount        int `gorm:"default:0" json:"total_following_count"`         // 关注数
	TotalFollowedByCount       int `gorm:"default:0" json:"total_followed_by_count"`       // 粉丝数
	TotalBlockingCount         int `gorm:"default:0" json:"total_blocking_count"`          // 拉黑数
	TotalBlockedByCount        int `gorm:"default:0" json:"total_blocked_by_count"`        // 被拉黑数

	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationStatistics 每个会员各类通知的累计计数, 每次成功 emit 累加一次,
// 已读/删除都不回减; 未读数另由中间件按 is_read 实时统计
type NotificationStatistics struct {
	MemberID uint `gorm:"primaryKey" json:"member_id"`

	Cue    int `gorm:"default:0" json:"cue"`
	Reply  int `gorm:"default:0" json:"reply"`
	Like   int `gorm:"default:0" json:"like"`
	Pin    int `gorm:"default:0" json:"pin"`
	Save   int `gorm:"default:0" json:"save"`
	Follow int `gorm:"default:0" json:"follow"`
	Report int `gorm:"default:0" json:"report"`
	System int `gorm:"default:0" json:"system"`

	UpdatedAt time.Time `json:"updated_at"`
}

type ChannelStatistics struct {
	ChannelID uint `gorm:"primaryKey" json:"channel_id"`

	TotalPostCount     int `gorm:"default:0" json:"total_post_count"`
	TotalHitCount      int `gorm:"default:0" json:"total_hit_count"`
	TotalLikedCount    int `gorm:"default:0" json:"total_liked_count"`
	TotalDislikedCount int `gorm:"default:0" json:"total_disliked_count"`
	TotalCommentCount  int `gorm:"default:0" json:"total_comment_count"`
	TotalSavedCount    int `gorm:"default:0" json:"total_saved_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

type TopicStatistics struct {
	TopicID uint `gorm:"primaryKey" json:"topic_id"`

	TotalPostCount     int `gorm:"default:0" json:"total_post_count"`
	TotalHitCount      int `gorm:"default:0" json:"total_hit_count"`
	TotalLikedCount    int `gorm:"default:0" json:"total_liked_count"`
	TotalDislikedCount int `gorm:"default:0" json:"total_disliked_count"`
	TotalCommentCount  int `gorm:"default:0" json:"total_comment_count"`
	TotalSavedCount    int `gorm:"default:0" json:"total_saved_count"`

	UpdatedAt time.Time `json:"updated_at"`
}
