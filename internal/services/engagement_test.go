package services

import (
	"fmt"
	"testing"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	db.DB = gdb
	// 黑名单缓存是进程级单例, 测试之间必须清空
	utils.GetCache().Purge()
}

func makeMember(t *testing.T, nickname string) *models.Member {
	m := &models.Member{
		Nickname: nickname,
		Email:    nickname + "@test.local",
		Password: "x",
		Status:   models.MemberStatusNormal,
	}
	require.NoError(t, db.DB.Create(m).Error)
	return m
}

func makePost(t *testing.T, author *models.Member, topics ...string) *models.Post {
	channel := &models.Channel{Name: "频道-" + t.Name()}
	require.NoError(t, db.DB.FirstOrCreate(channel, models.Channel{Name: channel.Name}).Error)

	post := &models.Post{
		Pid:       utils.RandStringBytesMaskImpr(8),
		MemberID:  author.ID,
		ChannelID: channel.ID,
		Title:     "测试帖子",
		Content:   "内容",
		Status:    models.ContentStatusActive,
	}
	for _, name := range topics {
		topic := models.Topic{Name: name}
		require.NoError(t, db.DB.FirstOrCreate(&topic, models.Topic{Name: name}).Error)
		post.Topics = append(post.Topics, topic)
	}
	require.NoError(t, db.DB.Create(post).Error)
	return post
}

func makeComment(t *testing.T, author *models.Member, post *models.Post) *models.Comment {
	comment := &models.Comment{
		Cid:      utils.RandStringBytesMaskImpr(8),
		PostID:   post.ID,
		MemberID: author.ID,
		Content:  "评论内容",
		Status:   models.ContentStatusActive,
	}
	require.NoError(t, db.DB.Create(comment).Error)
	return comment
}

func reloadPost(t *testing.T, id uint) models.Post {
	var post models.Post
	require.NoError(t, db.DB.First(&post, id).Error)
	return post
}

func memberStats(t *testing.T, memberID uint) models.MemberStatistics {
	var stats models.MemberStatistics
	require.NoError(t, db.DB.Where("member_id = ?", memberID).First(&stats).Error)
	return stats
}

func notificationCount(t *testing.T, recipientID uint) int64 {
	var count int64
	require.NoError(t, db.DB.Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).Count(&count).Error)
	return count
}

func TestChangeAttitudeLikePost(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author, "golang")

	prev, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)
	assert.Equal(t, models.AttitudeNone, prev)

	fresh := reloadPost(t, post.ID)
	assert.Equal(t, 1, fresh.TotalLikedCount)
	assert.Equal(t, 0, fresh.TotalUndoLikedCount)
	assert.Equal(t, 1, fresh.NetLikedCount())

	assert.Equal(t, 1, memberStats(t, author.ID).TotalCreationLikedCount)
	assert.Equal(t, 1, memberStats(t, actor.ID).TotalLikeCount)

	var channelStats models.ChannelStatistics
	require.NoError(t, db.DB.Where("channel_id = ?", post.ChannelID).First(&channelStats).Error)
	assert.Equal(t, 1, channelStats.TotalLikedCount)

	var topicStats models.TopicStatistics
	require.NoError(t, db.DB.Where("topic_id = ?", post.Topics[0].ID).First(&topicStats).Error)
	assert.Equal(t, 1, topicStats.TotalLikedCount)

	// 作者收到一条 like 通知
	var notification models.Notification
	require.NoError(t, db.DB.Where("recipient_id = ?", author.ID).First(&notification).Error)
	assert.Equal(t, models.NotificationLike, notification.Category)
	assert.Equal(t, actor.ID, notification.InitiatorID)
	assert.Equal(t, post.Pid, notification.PostPid)
}

func TestChangeAttitudeRepeatIsNoop(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)

	_, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)

	prev, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)
	assert.Equal(t, models.AttitudeLiked, prev)

	// 重复点赞不产生任何增量, 通知经 event_id 合并仍是一条
	fresh := reloadPost(t, post.ID)
	assert.Equal(t, 1, fresh.TotalLikedCount)
	assert.Equal(t, 1, memberStats(t, actor.ID).TotalLikeCount)
	assert.Equal(t, int64(1), notificationCount(t, author.ID))
}

func TestChangeAttitudeLikedToDisliked(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)

	_, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)
	prev, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeDisliked)
	require.NoError(t, err)
	assert.Equal(t, models.AttitudeLiked, prev)

	// 离开 LIKED 记 undo, 进入 DISLIKED 记正向, 净值对调
	fresh := reloadPost(t, post.ID)
	assert.Equal(t, 1, fresh.TotalLikedCount)
	assert.Equal(t, 1, fresh.TotalUndoLikedCount)
	assert.Equal(t, 0, fresh.NetLikedCount())
	assert.Equal(t, 1, fresh.TotalDislikedCount)
	assert.Equal(t, 1, fresh.NetDislikedCount())

	stats := memberStats(t, actor.ID)
	assert.Equal(t, 0, stats.TotalLikeCount)
	assert.Equal(t, 1, stats.TotalDislikeCount)
	assert.Equal(t, 0, memberStats(t, author.ID).TotalCreationLikedCount)
	assert.Equal(t, 1, memberStats(t, author.ID).TotalCreationDislikedCount)

	// 点踩不通知, like 通知仍是之前那一条
	assert.Equal(t, int64(1), notificationCount(t, author.ID))
}

func TestChangeAttitudeUndoToNone(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)

	_, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)
	prev, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeNone)
	require.NoError(t, err)
	assert.Equal(t, models.AttitudeLiked, prev)

	fresh := reloadPost(t, post.ID)
	assert.Equal(t, 1, fresh.TotalLikedCount)
	assert.Equal(t, 1, fresh.TotalUndoLikedCount)
	assert.Equal(t, 0, fresh.NetLikedCount())
	assert.Equal(t, 0, memberStats(t, actor.ID).TotalLikeCount)
}

func TestChangeAttitudeOnComment(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)
	comment := makeComment(t, author, post)

	prev, err := ChangeAttitude(actor, AttitudeTarget{Post: post, Comment: comment}, models.AttitudeLiked)
	require.NoError(t, err)
	assert.Equal(t, models.AttitudeNone, prev)

	var fresh models.Comment
	require.NoError(t, db.DB.First(&fresh, comment.ID).Error)
	assert.Equal(t, 1, fresh.TotalLikedCount)
	// 帖子根的计数不受评论表态影响
	assert.Equal(t, 0, reloadPost(t, post.ID).TotalLikedCount)

	// 帖子根态度与评论态度共存于同一条互动记录
	_, err = ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeDisliked)
	require.NoError(t, err)

	var record models.Attitude
	require.NoError(t, db.DB.Where("member_id = ? AND post_id = ?", actor.ID, post.ID).First(&record).Error)
	assert.Equal(t, models.AttitudeDisliked, record.Attitude)
	assert.Equal(t, models.AttitudeLiked, record.CommentAttitudes[commentKey(comment.ID)])
}

func TestChangeAttitudeInvalidValue(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)

	_, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, 2)
	assert.ErrorIs(t, err, ErrInvalidAttitude)
}

func TestChangeAttitudeDeletedTarget(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)
	require.NoError(t, db.DB.Model(post).Update("status", models.ContentStatusDeleted).Error)
	post.Status = models.ContentStatusDeleted

	_, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	assert.ErrorIs(t, err, ErrTargetDeleted)
}

func TestLikeByBlockedMemberMutatesButDoesNotNotify(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)

	// 作者拉黑了操作者
	_, err := ToggleRelation(models.RelationBlock, author, actor)
	require.NoError(t, err)

	prev, err := ChangeAttitude(actor, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)
	assert.Equal(t, models.AttitudeNone, prev)

	// 状态与计数照常变化, 只有通知被短路
	assert.Equal(t, 1, reloadPost(t, post.ID).TotalLikedCount)
	var likeCount int64
	require.NoError(t, db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND category = ?", author.ID, models.NotificationLike).
		Count(&likeCount).Error)
	assert.Equal(t, int64(0), likeCount)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	post := makePost(t, author)

	_, err := ChangeAttitude(author, AttitudeTarget{Post: post}, models.AttitudeLiked)
	require.NoError(t, err)
	assert.Equal(t, 1, reloadPost(t, post.ID).TotalLikedCount)
	assert.Equal(t, int64(0), notificationCount(t, author.ID))
}

func TestToggleRelationFollowCycle(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")
	target := makeMember(t, "target")

	active, err := ToggleRelation(models.RelationFollow, actor, target)
	require.NoError(t, err)
	assert.True(t, active)

	// 正向边 + 镜像边, 各一条
	var edges []models.Relation
	require.NoError(t, db.DB.Find(&edges).Error)
	require.Len(t, edges, 2)
	byCategory := map[string]models.Relation{}
	for _, e := range edges {
		byCategory[e.Category] = e
	}
	forward := byCategory[models.RelationFollow]
	mirror := byCategory[models.RelationFollowedBy]
	assert.Equal(t, actor.ID, forward.MemberID)
	assert.Equal(t, target.ID, forward.TargetID)
	assert.Equal(t, target.ID, mirror.MemberID)
	assert.Equal(t, actor.ID, mirror.TargetID)
	assert.True(t, forward.IsActive)
	assert.True(t, mirror.IsActive)

	assert.Equal(t, 1, memberStats(t, actor.ID).TotalFollowingCount)
	assert.Equal(t, 1, memberStats(t, target.ID).TotalFollowedByCount)
	assert.Equal(t, int64(1), notificationCount(t, target.ID))

	// 取消关注: 翻转同样两条边, 不新增行, 不再通知
	active, err = ToggleRelation(models.RelationFollow, actor, target)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, db.DB.Find(&edges).Error)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.False(t, e.IsActive)
	}
	assert.Equal(t, 0, memberStats(t, actor.ID).TotalFollowingCount)
	assert.Equal(t, 0, memberStats(t, target.ID).TotalFollowedByCount)

	// 再次关注: 仍是两条边
	active, err = ToggleRelation(models.RelationFollow, actor, target)
	require.NoError(t, err)
	assert.True(t, active)
	require.NoError(t, db.DB.Find(&edges).Error)
	assert.Len(t, edges, 2)
	assert.Equal(t, 1, memberStats(t, actor.ID).TotalFollowingCount)
}

func TestToggleRelationSelf(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")

	_, err := ToggleRelation(models.RelationFollow, actor, actor)
	assert.ErrorIs(t, err, ErrSelfRelation)
}

func TestToggleRelationBlock(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")
	target := makeMember(t, "target")

	active, err := ToggleRelation(models.RelationBlock, actor, target)
	require.NoError(t, err)
	assert.True(t, active)

	// 拉黑从不通知
	assert.Equal(t, int64(0), notificationCount(t, target.ID))
	assert.Equal(t, 1, memberStats(t, actor.ID).TotalBlockingCount)
	assert.Equal(t, 1, memberStats(t, target.ID).TotalBlockedByCount)
	assert.True(t, IsBlocked(actor.ID, target.ID))

	// 取消拉黑后缓存同步失效
	active, err = ToggleRelation(models.RelationBlock, actor, target)
	require.NoError(t, err)
	assert.False(t, active)
	assert.False(t, IsBlocked(actor.ID, target.ID))
}

func TestToggleSaveCycle(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)

	active, err := ToggleSave(actor, post)
	require.NoError(t, err)
	assert.True(t, active)

	fresh := reloadPost(t, post.ID)
	assert.Equal(t, 1, fresh.TotalSavedCount)
	assert.Equal(t, 1, fresh.NetSavedCount())
	assert.Equal(t, 1, memberStats(t, actor.ID).TotalSaveCount)
	assert.Equal(t, 1, memberStats(t, author.ID).TotalCreationSavedCount)
	assert.Equal(t, int64(1), notificationCount(t, author.ID))

	active, err = ToggleSave(actor, post)
	require.NoError(t, err)
	assert.False(t, active)

	fresh = reloadPost(t, post.ID)
	assert.Equal(t, 1, fresh.TotalSavedCount)
	assert.Equal(t, 1, fresh.TotalUndoSavedCount)
	assert.Equal(t, 0, fresh.NetSavedCount())
	assert.Equal(t, 0, memberStats(t, actor.ID).TotalSaveCount)

	// 收藏记录只有一条, 翻转 is_active
	var saves []models.Save
	require.NoError(t, db.DB.Find(&saves).Error)
	require.Len(t, saves, 1)
	assert.False(t, saves[0].IsActive)
}

func TestCueFanOutCapAndSkips(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")

	// 12 个提及: 上限裁到前 9 个, 之后再跳过自己/封禁/拉黑
	var cued []uint
	var members []*models.Member
	for i := 0; i < 12; i++ {
		m := makeMember(t, fmt.Sprintf("cued%02d", i))
		members = append(members, m)
		cued = append(cued, m.ID)
	}
	cued[1] = actor.ID // 自己
	require.NoError(t, db.DB.Model(members[2]).Update("status", models.MemberStatusSuspended).Error)
	_, err := ToggleRelation(models.RelationBlock, members[3], actor) // 第4个拉黑了操作者
	require.NoError(t, err)

	CueFanOut(actor, cued, NotifyRefs{Brief: "test"})

	// 前 9 个里去掉自己/封禁/拉黑, 剩 6 个收到通知
	var total int64
	require.NoError(t, db.DB.Model(&models.Notification{}).
		Where("category = ?", models.NotificationCue).Count(&total).Error)
	assert.Equal(t, int64(6), total)

	// 超出上限的第 10-12 个一定没有通知
	for _, m := range members[9:] {
		assert.Equal(t, int64(0), notificationCount(t, m.ID))
	}
}

func TestCueFanOutDedupes(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")
	cued := makeMember(t, "cued")

	CueFanOut(actor, []uint{cued.ID, cued.ID, cued.ID}, NotifyRefs{Brief: "test"})
	assert.Equal(t, int64(1), notificationCount(t, cued.ID))
}

func TestApplyCommentCreatedNotifiesParentAuthor(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	parentAuthor := makeMember(t, "parent")
	actor := makeMember(t, "actor")
	post := makePost(t, author)
	parent := makeComment(t, parentAuthor, post)
	reply := makeComment(t, actor, post)

	ApplyCommentCreated(actor, post, reply, parent)

	// 回复楼中楼时通知被回复者而非帖子作者
	assert.Equal(t, int64(1), notificationCount(t, parentAuthor.ID))
	assert.Equal(t, int64(0), notificationCount(t, author.ID))
	assert.Equal(t, 1, reloadPost(t, post.ID).TotalCommentCount)
	assert.Equal(t, 1, memberStats(t, actor.ID).TotalCommentCount)
}
