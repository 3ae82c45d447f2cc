package services

import (
	"testing"

	"senlin/internal/db"
	"senlin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 通知统计列与类别同名, "like" 在 Postgres 里是保留字:
// 自增表达式里的列名必须被引用, 否则生产库上语句直接报错
// 而计数失败只记日志, 坏掉了也看不见。
func TestIncrementExprQuotesReservedColumnOnPostgres(t *testing.T) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=senlin",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	stmt := gdb.Model(&models.NotificationStatistics{}).
		Where("member_id = ?", 1).
		UpdateColumn("like", incrementExpr("like", 1)).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `SET "like"="like" + $1`)
	assert.NotContains(t, sql, `"like"=like`)
}

func TestIncrementNotificationStatLikeCategory(t *testing.T) {
	setupTestDB(t)
	member := makeMember(t, "member")

	IncrementNotificationStat(member.ID, models.NotificationLike, 1)
	IncrementNotificationStat(member.ID, models.NotificationLike, 1)

	var stats models.NotificationStatistics
	require.NoError(t, db.DB.Where("member_id = ?", member.ID).First(&stats).Error)
	assert.Equal(t, 2, stats.Like)
}
