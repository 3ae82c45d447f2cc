package services

import (
	"testing"

	"senlin/internal/db"
	"senlin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventID(t *testing.T) {
	assert.Equal(t, "follow-7", EventID(models.NotificationFollow, 7, NotifyRefs{}))
	assert.Equal(t, "like-7-abc123de",
		EventID(models.NotificationLike, 7, NotifyRefs{PostPid: "abc123de"}))
	assert.Equal(t, "like-7-abc123de-xyz98765",
		EventID(models.NotificationLike, 7, NotifyRefs{PostPid: "abc123de", CommentCid: "xyz98765"}))
	// 摘要不参与事件ID
	assert.Equal(t, "cue-7-abc123de",
		EventID(models.NotificationCue, 7, NotifyRefs{PostPid: "abc123de", Brief: "whatever"}))
}

func TestEmitMergesSameEvent(t *testing.T) {
	setupTestDB(t)
	recipient := makeMember(t, "recipient")
	initiator := makeMember(t, "initiator")
	refs := NotifyRefs{PostPid: "abc123de", Brief: "第一版标题"}

	require.NoError(t, Emit(recipient.ID, models.NotificationLike, initiator.ID, initiator.Nickname, refs))

	// 已读后同一事件再次触发: 合并为同一条并重新置为未读
	var notification models.Notification
	require.NoError(t, db.DB.Where("recipient_id = ?", recipient.ID).First(&notification).Error)
	require.NoError(t, db.DB.Model(&notification).Update("is_read", true).Error)

	refs.Brief = "编辑后的标题"
	require.NoError(t, Emit(recipient.ID, models.NotificationLike, initiator.ID, initiator.Nickname, refs))

	assert.Equal(t, int64(1), notificationCount(t, recipient.ID))
	require.NoError(t, db.DB.Where("recipient_id = ?", recipient.ID).First(&notification).Error)
	assert.False(t, notification.IsRead)
	assert.Equal(t, "编辑后的标题", notification.Brief)
}

func TestEmitDistinctInitiatorsDistinctRows(t *testing.T) {
	setupTestDB(t)
	recipient := makeMember(t, "recipient")
	first := makeMember(t, "first")
	second := makeMember(t, "second")
	refs := NotifyRefs{PostPid: "abc123de"}

	require.NoError(t, Emit(recipient.ID, models.NotificationLike, first.ID, first.Nickname, refs))
	require.NoError(t, Emit(recipient.ID, models.NotificationLike, second.ID, second.Nickname, refs))

	assert.Equal(t, int64(2), notificationCount(t, recipient.ID))
}

func TestEmitIncrementsCategoryCounter(t *testing.T) {
	setupTestDB(t)
	recipient := makeMember(t, "recipient")
	initiator := makeMember(t, "initiator")

	require.NoError(t, Emit(recipient.ID, models.NotificationFollow, initiator.ID, initiator.Nickname, NotifyRefs{}))
	require.NoError(t, Emit(recipient.ID, models.NotificationCue, initiator.ID, initiator.Nickname,
		NotifyRefs{PostPid: "abc123de"}))

	var stats models.NotificationStatistics
	require.NoError(t, db.DB.Where("member_id = ?", recipient.ID).First(&stats).Error)
	assert.Equal(t, 1, stats.Follow)
	assert.Equal(t, 1, stats.Cue)
	assert.Equal(t, 0, stats.Like)
}

func TestIsBlockedCachesLookup(t *testing.T) {
	setupTestDB(t)
	blocker := makeMember(t, "blocker")
	blocked := makeMember(t, "blocked")

	assert.False(t, IsBlocked(blocker.ID, blocked.ID))

	_, err := ToggleRelation(models.RelationBlock, blocker, blocked)
	require.NoError(t, err)
	assert.True(t, IsBlocked(blocker.ID, blocked.ID))

	// 方向性: 被拉黑者没有反向拉黑
	assert.False(t, IsBlocked(blocked.ID, blocker.ID))
}
