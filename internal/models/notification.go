package models

import (
	"time"
)

type NotificationCategory string

const (
	NotificationCue    NotificationCategory = "cue"    // @提及
	NotificationReply  NotificationCategory = "reply"  // 评论/回复
	NotificationLike   NotificationCategory = "like"   // 点赞
	NotificationPin    NotificationCategory = "pin"    // 置顶
	NotificationSave   NotificationCategory = "save"   // 收藏
	NotificationFollow NotificationCategory = "follow" // 关注
	NotificationReport NotificationCategory = "report" // 举报通知(管理员)
	NotificationSystem NotificationCategory = "system"
)

// Notification 站内通知。(recipient_id, event_id) 唯一, 相同事件重复触发时
// merge-upsert 合并为一条而不是重复插入。
type Notification struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	RecipientID uint                 `gorm:"not null;index;uniqueIndex:idx_recipient_event" json:"recipient_id"`
	Recipient   Member               `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	EventID     string               `gorm:"size:100;not null;uniqueIndex:idx_recipient_event" json:"event_id"`
	Category    NotificationCategory `gorm:"type:varchar(20);not null" json:"category"`

	InitiatorID       uint   `gorm:"index" json:"initiator_id"`
	InitiatorNickname string `gorm:"size:100" json:"initiator_nickname"`
	PostPid           string `gorm:"size:8" json:"post_pid"`    // 可选引用
	CommentCid        string `gorm:"size:8" json:"comment_cid"` // 可选引用
	Brief             string `gorm:"size:200" json:"brief"`     // 摘要(帖子标题/评论片段)

	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
