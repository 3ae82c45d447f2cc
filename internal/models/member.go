package models

import (
	"time"
)

// 会员状态码: 负数=封禁/注销, 0=未激活, >=200 正常等级
const (
	MemberStatusDeactivated = -2
	MemberStatusSuspended   = -1
	MemberStatusUnverified  = 0
	MemberStatusNormal      = 200
	MemberStatusTrusted     = 210
)

type Member struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Nickname        string     `gorm:"not null" json:"nickname"` // Nickname can be modified
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`                           // Hash
	Avatar          string     `gorm:"default:🌱" json:"avatar"`                     // emoji 头像
	Bio             string     `gorm:"size:200" json:"bio"`                         // 个人简介
	Role            string     `gorm:"size:20;default:'member';not null" json:"role"` // member, admin
	Status          int        `gorm:"default:0;index" json:"status"`
	AllowPosting    bool       `gorm:"default:true" json:"allow_posting"`    // 发帖权限
	AllowCommenting bool       `gorm:"default:true" json:"allow_commenting"` // 评论权限
	PunishExpires   *time.Time `json:"punish_expires"` // 惩罚到期时间
	VerifyCode      string     `gorm:"size:20" json:"-"` // 验证码(激活/重置通用)
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	// No DeletedAt: members are never hard-deleted, Status goes negative instead
}

// IsActive 会员是否处于正常状态(可登录可互动)
func (m *Member) IsActive() bool {
	return m.Status >= MemberStatusNormal
}

// IsSuspended 会员是否被封禁或注销
func (m *Member) IsSuspended() bool {
	return m.Status < 0
}
