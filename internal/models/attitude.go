package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 态度取值: -1 踩, 0 无, 1 赞
const (
	AttitudeDisliked = -1
	AttitudeNone     = 0
	AttitudeLiked    = 1
)

// CommentAttitudeMap 评论ID -> 态度值, 以 JSON 存储
type CommentAttitudeMap map[string]int

func (m CommentAttitudeMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *CommentAttitudeMap) Scan(value interface{}) error {
	if value == nil {
		*m = CommentAttitudeMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for CommentAttitudeMap: %T", value)
	}
	if len(data) == 0 {
		*m = CommentAttitudeMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Attitude 互动记录: 每个 (会员, 帖子根) 一条, 首次互动时惰性创建, 此后原地更新, 永不删除。
// 并发请求对同一记录为 last-write-wins, 计数器与记录状态可能出现偏差(可接受, 见 services/counters.go)。
type Attitude struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	MemberID uint `gorm:"not null;uniqueIndex:idx_member_post_attitude" json:"member_id"`
	PostID   uint `gorm:"not null;uniqueIndex:idx_member_post_attitude" json:"post_id"`

	Attitude         int                `gorm:"default:0" json:"attitude"` // 对帖子根的态度
	CommentAttitudes CommentAttitudeMap `gorm:"type:text;default:'{}'" json:"comment_attitudes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
