package models

import (
	"time"
)

// Topic 话题标签, 发帖时按名称惰性创建
type Topic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex;size:50" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
