package services

import (
	"log"
	"senlin/internal/db"
	"senlin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 计数器累加器: 对单条记录的单个数值字段做存储端原子自增(非读改写)。
// 这些计数是统计口径而非账本, 每次调用独立尽力而为:
// 失败只记日志, 不重试, 不回滚, 也不影响已发出的主响应。

// Increment 按主键 id 对一个数值字段累加 delta(可为负)
func Increment(model interface{}, id uint, field string, delta int) {
	IncrementBy(model, "id", id, field, delta)
}

// incrementExpr 自增表达式。列名经 clause.Column 引用,
// 像 like 这种撞上保留字的列在 Postgres 下才能通过
func incrementExpr(field string, delta int) clause.Expr {
	return gorm.Expr("? + ?", clause.Column{Name: field}, delta)
}

// IncrementBy 按指定键列对一个数值字段累加 delta
func IncrementBy(model interface{}, keyColumn string, key uint, field string, delta int) {
	if delta == 0 {
		return
	}
	if err := db.DB.Model(model).
		Where(keyColumn+" = ?", key).
		UpdateColumn(field, incrementExpr(field, delta)).
		Error; err != nil {
		log.Printf("counter increment failed: %T[%s=%d] %s %+d: %v", model, keyColumn, key, field, delta, err)
	}
}

// IncrementAsync 在 goroutine 中执行累加(响应已发出后的旁路更新)
func IncrementAsync(model interface{}, id uint, field string, delta int) {
	go Increment(model, id, field, delta)
}

// ensureRow 惰性创建统计行, 已存在则忽略
func ensureRow(row interface{}) {
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		log.Printf("counter row ensure failed: %T: %v", row, err)
	}
}

// IncrementMemberStat 累加会员统计字段
func IncrementMemberStat(memberID uint, field string, delta int) {
	ensureRow(&models.MemberStatistics{MemberID: memberID})
	IncrementBy(&models.MemberStatistics{}, "member_id", memberID, field, delta)
}

// IncrementChannelStat 累加频道统计字段
func IncrementChannelStat(channelID uint, field string, delta int) {
	ensureRow(&models.ChannelStatistics{ChannelID: channelID})
	IncrementBy(&models.ChannelStatistics{}, "channel_id", channelID, field, delta)
}

// IncrementTopicStat 累加话题统计字段
func IncrementTopicStat(topicID uint, field string, delta int) {
	ensureRow(&models.TopicStatistics{TopicID: topicID})
	IncrementBy(&models.TopicStatistics{}, "topic_id", topicID, field, delta)
}

// IncrementNotificationStat 累加会员某类通知的计数, 列名与类别同名
func IncrementNotificationStat(memberID uint, category models.NotificationCategory, delta int) {
	ensureRow(&models.NotificationStatistics{MemberID: memberID})
	IncrementBy(&models.NotificationStatistics{}, "member_id", memberID, string(category), delta)
}
