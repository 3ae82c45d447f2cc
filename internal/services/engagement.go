package services

import (
	"errors"
	"strconv"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 互动动作编排: 表态(赞/踩)、关系切换(关注/拉黑)、收藏切换、@提及扇出。
// 统一模式: 先校验并完成主状态写入, 再逐项派发计数增量,
// 仅在"进入"转移上做黑名单检查并发通知。主写入之后的一切
// 旁路更新都是尽力而为, 单点失败只记日志。

var (
	ErrSelfRelation    = errors.New("cannot follow or block yourself")
	ErrTargetDeleted   = errors.New("target content deleted")
	ErrInvalidAttitude = errors.New("invalid attitude value")
)

// MaxCuesPerAction 单次发布/编辑最多生效的提及数
const MaxCuesPerAction = 9

// AttitudeTarget 表态目标: Comment 为 nil 时表示对帖子根表态。
// Post 必填且需预加载 Topics(话题计数依赖)。
type AttitudeTarget struct {
	Post    *models.Post
	Comment *models.Comment
}

func (t AttitudeTarget) authorID() uint {
	if t.Comment != nil {
		return t.Comment.MemberID
	}
	return t.Post.MemberID
}

func (t AttitudeTarget) deleted() bool {
	if t.Comment != nil && t.Comment.Status < 0 {
		return true
	}
	return t.Post.Status < 0
}

func (t AttitudeTarget) refs() NotifyRefs {
	refs := NotifyRefs{PostPid: t.Post.Pid, Brief: t.Post.Title}
	if t.Comment != nil {
		refs.CommentCid = t.Comment.Cid
	}
	return refs
}

func commentKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ChangeAttitude 执行表态状态机:
// NONE→LIKED, NONE→DISLIKED, LIKED↔DISLIKED, LIKED→NONE, DISLIKED→NONE。
// 与请求态度相同时为无操作。返回先前的态度值。
// like 通知只在进入 LIKED 的转移上发出, 且作者未拉黑操作者。
func ChangeAttitude(actor *models.Member, target AttitudeTarget, want int) (prev int, err error) {
	if want < models.AttitudeDisliked || want > models.AttitudeLiked {
		return 0, ErrInvalidAttitude
	}
	if target.deleted() {
		return 0, ErrTargetDeleted
	}

	// 互动记录按 (会员, 帖子根) 惰性创建
	var record models.Attitude
	created := false
	err = db.DB.Where("member_id = ? AND post_id = ?", actor.ID, target.Post.ID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.Attitude{
			MemberID:         actor.ID,
			PostID:           target.Post.ID,
			CommentAttitudes: models.CommentAttitudeMap{},
		}
		created = true
	} else if err != nil {
		return 0, err
	}

	if target.Comment != nil {
		prev = record.CommentAttitudes[commentKey(target.Comment.ID)]
	} else {
		prev = record.Attitude
	}
	if prev == want {
		// 重复请求: 无操作, 不产生任何计数增量
		return prev, nil
	}

	// 主状态写入
	if target.Comment != nil {
		if record.CommentAttitudes == nil {
			record.CommentAttitudes = models.CommentAttitudeMap{}
		}
		record.CommentAttitudes[commentKey(target.Comment.ID)] = want
	} else {
		record.Attitude = want
	}
	if created {
		if err := db.DB.Create(&record).Error; err != nil {
			return prev, err
		}
	} else {
		var updateErr error
		if target.Comment != nil {
			updateErr = db.DB.Model(&record).Update("comment_attitudes", record.CommentAttitudes).Error
		} else {
			updateErr = db.DB.Model(&record).Update("attitude", want).Error
		}
		if updateErr != nil {
			return prev, updateErr
		}
	}

	// 计数增量: 离开旧状态 + 进入新状态, 每项独立派发
	switch prev {
	case models.AttitudeLiked:
		dispatchAttitudeDeltas(actor, target, "liked", -1)
	case models.AttitudeDisliked:
		dispatchAttitudeDeltas(actor, target, "disliked", -1)
	}
	switch want {
	case models.AttitudeLiked:
		dispatchAttitudeDeltas(actor, target, "liked", 1)
	case models.AttitudeDisliked:
		dispatchAttitudeDeltas(actor, target, "disliked", 1)
	}

	// 仅在进入 LIKED 的转移上通知作者
	if want == models.AttitudeLiked {
		authorID := target.authorID()
		if authorID != actor.ID && !IsBlocked(authorID, actor.ID) {
			_ = Emit(authorID, models.NotificationLike, actor.ID, actor.Nickname, target.refs())
		}
	}

	return prev, nil
}

// dispatchAttitudeDeltas 派发一组表态计数: which 为 "liked" 或 "disliked",
// dir 为 +1(进入)或 -1(离开)。内容条目的计数永不原地递减:
// 离开状态累加对应的 undo 计数, 净值在读取时计算。
func dispatchAttitudeDeltas(actor *models.Member, target AttitudeTarget, which string, dir int) {
	contentField := "total_" + which + "_count"
	if dir < 0 {
		contentField = "total_undo_" + which + "_count"
	}
	if target.Comment != nil {
		Increment(&models.Comment{}, target.Comment.ID, contentField, 1)
	} else {
		Increment(&models.Post{}, target.Post.ID, contentField, 1)
	}

	IncrementMemberStat(target.authorID(), "total_creation_"+which+"_count", dir)

	actorField := "total_like_count"
	if which == "disliked" {
		actorField = "total_dislike_count"
	}
	IncrementMemberStat(actor.ID, actorField, dir)

	IncrementChannelStat(target.Post.ChannelID, "total_"+which+"_count", dir)
	for _, topic := range target.Post.Topics {
		IncrementTopicStat(topic.ID, "total_"+which+"_count", dir)
	}
}

// ToggleRelation 翻转 (actor → target) 的关系边及其镜像反向边,
// 返回翻转后的激活状态。边只翻转 IsActive, 从不删除;
// 每次切换对每条边恰好一次 upsert。
// follow 通知只在激活转移上发出且未被拉黑; block 从不通知。
func ToggleRelation(category string, actor *models.Member, target *models.Member) (nowActive bool, err error) {
	if actor.ID == target.ID {
		return false, ErrSelfRelation
	}

	var edge models.Relation
	err = db.DB.Where("category = ? AND member_id = ? AND target_id = ?",
		category, actor.ID, target.ID).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		nowActive = true
	} else if err != nil {
		return false, err
	} else {
		nowActive = !edge.IsActive
	}

	// 正向边与镜像边同一事务内 upsert
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "category"}, {Name: "member_id"}, {Name: "target_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_active":  nowActive,
			"updated_at": time.Now(),
		}),
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		forward := models.Relation{
			ID:       uuid.New().String(),
			Category: category,
			MemberID: actor.ID,
			TargetID: target.ID,
			IsActive: nowActive,
		}
		if err := tx.Clauses(onConflict).Create(&forward).Error; err != nil {
			return err
		}
		mirror := models.Relation{
			ID:       uuid.New().String(),
			Category: models.MirrorCategory(category),
			MemberID: target.ID,
			TargetID: actor.ID,
			IsActive: nowActive,
		}
		return tx.Clauses(onConflict).Create(&mirror).Error
	})
	if err != nil {
		return false, err
	}

	dir := 1
	if !nowActive {
		dir = -1
	}
	switch category {
	case models.RelationFollow:
		IncrementMemberStat(actor.ID, "total_following_count", dir)
		IncrementMemberStat(target.ID, "total_followed_by_count", dir)
		if nowActive && !IsBlocked(target.ID, actor.ID) {
			_ = Emit(target.ID, models.NotificationFollow, actor.ID, actor.Nickname, NotifyRefs{})
		}
	case models.RelationBlock:
		IncrementMemberStat(actor.ID, "total_blocking_count", dir)
		IncrementMemberStat(target.ID, "total_blocked_by_count", dir)
		InvalidateBlockCache(actor.ID, target.ID)
	}

	return nowActive, nil
}

// ToggleSave 收藏/取消收藏, 返回切换后的状态
func ToggleSave(actor *models.Member, post *models.Post) (nowActive bool, err error) {
	if post.Status < 0 {
		return false, ErrTargetDeleted
	}

	var save models.Save
	err = db.DB.Where("member_id = ? AND post_id = ?", actor.ID, post.ID).First(&save).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		nowActive = true
		save = models.Save{MemberID: actor.ID, PostID: post.ID, IsActive: true}
		if err := db.DB.Create(&save).Error; err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	} else {
		nowActive = !save.IsActive
		if err := db.DB.Model(&save).Update("is_active", nowActive).Error; err != nil {
			return false, err
		}
	}

	dir := 1
	contentField := "total_saved_count"
	if !nowActive {
		dir = -1
		contentField = "total_undo_saved_count"
	}
	Increment(&models.Post{}, post.ID, contentField, 1)
	IncrementMemberStat(post.MemberID, "total_creation_saved_count", dir)
	IncrementMemberStat(actor.ID, "total_save_count", dir)
	IncrementChannelStat(post.ChannelID, "total_saved_count", dir)
	for _, topic := range post.Topics {
		IncrementTopicStat(topic.ID, "total_saved_count", dir)
	}

	if nowActive && post.MemberID != actor.ID && !IsBlocked(post.MemberID, actor.ID) {
		_ = Emit(post.MemberID, models.NotificationSave, actor.ID, actor.Nickname,
			NotifyRefs{PostPid: post.Pid, Brief: post.Title})
	}

	return nowActive, nil
}

// CueFanOut 处理发布/编辑时的 @提及扇出: 每个被提及者独立处理,
// 超出上限的提及静默忽略, 不产生通知也不产生计数。
func CueFanOut(actor *models.Member, cuedIDs []uint, refs NotifyRefs) {
	if len(cuedIDs) > MaxCuesPerAction {
		cuedIDs = cuedIDs[:MaxCuesPerAction]
	}

	seen := make(map[uint]bool, len(cuedIDs))
	for _, id := range cuedIDs {
		if id == actor.ID || seen[id] {
			continue
		}
		seen[id] = true

		var cued models.Member
		if err := db.DB.First(&cued, id).Error; err != nil {
			continue
		}
		if cued.IsSuspended() {
			continue
		}
		if IsBlocked(cued.ID, actor.ID) {
			continue
		}
		_ = Emit(cued.ID, models.NotificationCue, actor.ID, actor.Nickname, refs)
	}
}

// ApplyPostCreated 发帖后的统计增量
func ApplyPostCreated(actor *models.Member, post *models.Post) {
	IncrementMemberStat(actor.ID, "total_creation_count", 1)
	IncrementChannelStat(post.ChannelID, "total_post_count", 1)
	for _, topic := range post.Topics {
		IncrementTopicStat(topic.ID, "total_post_count", 1)
	}
}

// ApplyPostRemoved 删帖后的统计回退(会员/频道/话题维度)
func ApplyPostRemoved(post *models.Post) {
	IncrementMemberStat(post.MemberID, "total_creation_count", -1)
	IncrementChannelStat(post.ChannelID, "total_post_count", -1)
	for _, topic := range post.Topics {
		IncrementTopicStat(topic.ID, "total_post_count", -1)
	}
}

// ApplyPostViewed 浏览计数(帖子/作者/频道/话题)
func ApplyPostViewed(post *models.Post) {
	Increment(&models.Post{}, post.ID, "total_hit_count", 1)
	IncrementMemberStat(post.MemberID, "total_creation_hit_count", 1)
	IncrementChannelStat(post.ChannelID, "total_hit_count", 1)
	for _, topic := range post.Topics {
		IncrementTopicStat(topic.ID, "total_hit_count", 1)
	}
}

// ApplyCommentCreated 评论后的统计增量与 reply 通知。
// parent 不为 nil 时通知被回复评论的作者, 否则通知帖子作者。
func ApplyCommentCreated(actor *models.Member, post *models.Post, comment *models.Comment, parent *models.Comment) {
	Increment(&models.Post{}, post.ID, "total_comment_count", 1)
	IncrementMemberStat(actor.ID, "total_comment_count", 1)
	IncrementChannelStat(post.ChannelID, "total_comment_count", 1)
	for _, topic := range post.Topics {
		IncrementTopicStat(topic.ID, "total_comment_count", 1)
	}

	recipientID := post.MemberID
	if parent != nil {
		recipientID = parent.MemberID
	}
	if recipientID != actor.ID && !IsBlocked(recipientID, actor.ID) {
		_ = Emit(recipientID, models.NotificationReply, actor.ID, actor.Nickname,
			NotifyRefs{PostPid: post.Pid, CommentCid: comment.Cid, Brief: post.Title})
	}
}

// ApplyCommentRemoved 删除评论后的统计回退
func ApplyCommentRemoved(post *models.Post, comment *models.Comment) {
	Increment(&models.Post{}, post.ID, "total_undo_comment_count", 1)
	IncrementMemberStat(comment.MemberID, "total_comment_count", -1)
	IncrementChannelStat(post.ChannelID, "total_comment_count", -1)
	for _, topic := range post.Topics {
		IncrementTopicStat(topic.ID, "total_comment_count", -1)
	}
}
