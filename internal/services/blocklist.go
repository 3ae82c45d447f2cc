package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"senlin/internal/db"
	"senlin/internal/models"
	"senlin/internal/utils"

	"gorm.io/gorm"
)

const blockCacheTTL = 5 * time.Minute

func blockCacheKey(blockerID, blockedID uint) string {
	return fmt.Sprintf("blocklist:%d:%d", blockerID, blockedID)
}

// IsBlocked 判断 blocker 是否拉黑了 blocked, 用于通知发送前的短路检查。
// 查询出错按未拉黑处理(fail-open)并记日志: 宁可给拉黑者多发一条通知,
// 也不静默吞掉正常用户的通知。
func IsBlocked(blockerID, blockedID uint) bool {
	key := blockCacheKey(blockerID, blockedID)
	if v := utils.GetCache().Get(key); v != nil {
		return v.(bool)
	}

	var edge models.Relation
	err := db.DB.Where("category = ? AND member_id = ? AND target_id = ?",
		models.RelationBlock, blockerID, blockedID).First(&edge).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// fail-open, 不缓存错误结果
			log.Printf("blocklist lookup failed (%d -> %d): %v", blockerID, blockedID, err)
			return false
		}
		utils.GetCache().Set(key, false, blockCacheTTL)
		return false
	}

	utils.GetCache().Set(key, edge.IsActive, blockCacheTTL)
	return edge.IsActive
}

// InvalidateBlockCache 拉黑/取消拉黑后主动失效缓存
func InvalidateBlockCache(blockerID, blockedID uint) {
	utils.GetCache().Delete(blockCacheKey(blockerID, blockedID))
}
