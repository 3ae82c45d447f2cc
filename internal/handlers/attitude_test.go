package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"senlin/internal/db"
	"senlin/internal/middleware"
	"senlin/internal/models"
	"senlin/internal/utils"

	"github.com/gin-gonic/gin"
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

func makePost(t *testing.T, author *models.Member) *models.Post {
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
	require.NoError(t, db.DB.Create(post).Error)
	return post
}

// loginAs 注入已登录会员, 代替 session 中间件
func loginAs(member *models.Member) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CheckMemberKey, member)
		c.Next()
	}
}

func newTestRouter(member *models.Member) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if member != nil {
		r.Use(loginAs(member))
	}

	attitudeHandler := NewAttitudeHandler()
	relationHandler := NewRelationHandler()
	r.POST("/api/attitude/:type/:id", attitudeHandler.Change)
	r.POST("/api/follow/:id", relationHandler.Follow)
	r.POST("/api/block/:id", relationHandler.Block)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttitudeChangeEndpoint(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)
	r := newTestRouter(actor)

	w := postForm(r, "/api/attitude/post/"+post.Pid, url.Values{"attitude": {"1"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"attitude": 1, "previous": 0}`, w.Body.String())

	var fresh models.Post
	require.NoError(t, db.DB.First(&fresh, post.ID).Error)
	assert.Equal(t, 1, fresh.TotalLikedCount)

	// 切换为踩: previous 返回先前的赞
	w = postForm(r, "/api/attitude/post/"+post.Pid, url.Values{"attitude": {"-1"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"attitude": -1, "previous": 1}`, w.Body.String())
}

func TestAttitudeChangeRejectsBadInput(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)
	r := newTestRouter(actor)

	w := postForm(r, "/api/attitude/post/"+post.Pid, url.Values{"attitude": {"5"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(r, "/api/attitude/post/missing99", url.Values{"attitude": {"1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postForm(r, "/api/attitude/story/"+post.Pid, url.Values{"attitude": {"1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttitudeChangeDeletedPost(t *testing.T) {
	setupTestDB(t)
	author := makeMember(t, "author")
	actor := makeMember(t, "actor")
	post := makePost(t, author)
	require.NoError(t, db.DB.Model(post).Update("status", models.ContentStatusDeleted).Error)
	r := newTestRouter(actor)

	w := postForm(r, "/api/attitude/post/"+post.Pid, url.Values{"attitude": {"1"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFollowEndpointToggles(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")
	target := makeMember(t, "target")
	r := newTestRouter(actor)

	w := postForm(r, "/api/follow/"+utils.UintToString(target.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Follow success", w.Body.String())

	w = postForm(r, "/api/follow/"+utils.UintToString(target.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Undo Follow success", w.Body.String())
}

func TestFollowEndpointRejectsSelf(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")
	r := newTestRouter(actor)

	w := postForm(r, "/api/follow/"+utils.UintToString(actor.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlockEndpointSilent(t *testing.T) {
	setupTestDB(t)
	actor := makeMember(t, "actor")
	target := makeMember(t, "target")
	r := newTestRouter(actor)

	w := postForm(r, "/api/block/"+utils.UintToString(target.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Block success", w.Body.String())

	// 拉黑不向对方发通知
	var count int64
	require.NoError(t, db.DB.Model(&models.Notification{}).
		Where("recipient_id = ?", target.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
