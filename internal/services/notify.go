package services

import (
	"fmt"
	"log"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"

	"gorm.io/gorm/clause"
)

// NotifyRefs 通知携带的内容引用, 均为可选
type NotifyRefs struct {
	PostPid    string
	CommentCid string
	Brief      string // 摘要(帖子标题/评论片段), 纯文本
}

// EventID 由 (类别, 发起者, 引用) 组合出确定性事件ID,
// 相同事件重复触发(如反复点赞)时 upsert 合并为一条通知而不是重复插入。
func EventID(category models.NotificationCategory, initiatorID uint, refs NotifyRefs) string {
	id := fmt.Sprintf("%s-%d", category, initiatorID)
	if refs.PostPid != "" {
		id += "-" + refs.PostPid
	}
	if refs.CommentCid != "" {
		id += "-" + refs.CommentCid
	}
	return id
}

// Emit 向接收者 merge-upsert 一条通知, 成功后累加其对应类别的通知计数。
// 黑名单检查由调用方在调用前完成(IsBlocked(recipientID, initiatorID))。
// 调用点通常在响应已发出之后, 失败只记日志不上抛。
func Emit(recipientID uint, category models.NotificationCategory, initiatorID uint, initiatorNickname string, refs NotifyRefs) error {
	notification := models.Notification{
		RecipientID:       recipientID,
		EventID:           EventID(category, initiatorID, refs),
		Category:          category,
		InitiatorID:       initiatorID,
		InitiatorNickname: initiatorNickname,
		PostPid:           refs.PostPid,
		CommentCid:        refs.CommentCid,
		Brief:             refs.Brief,
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recipient_id"}, {Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"initiator_nickname": initiatorNickname,
			"brief":              refs.Brief,
			"is_read":            false,
			"updated_at":         time.Now(),
		}),
	}).Create(&notification).Error
	if err != nil {
		log.Printf("notification emit failed: recipient=%d category=%s initiator=%d: %v",
			recipientID, category, initiatorID, err)
		return err
	}

	IncrementNotificationStat(recipientID, category, 1)
	return nil
}
