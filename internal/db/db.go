package db

import (
	"log"
	"os"
	"senlin/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=senlin port=5432 sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial channels
	seedChannels()
}

// Migrate 执行全部模型迁移, 测试环境也通过它建表
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Member{},
		&models.Channel{},
		&models.Topic{},
		&models.Post{},
		&models.Comment{},
		&models.Attitude{},
		&models.Relation{},
		&models.Save{},
		&models.Notification{},
		&models.Report{},
		// 聚合统计
		&models.MemberStatistics{},
		&models.NotificationStatistics{},
		&models.ChannelStatistics{},
		&models.TopicStatistics{},
	)
}

func seedChannels() {
	// 检查是否已有频道数据
	var count int64
	DB.Model(&models.Channel{}).Count(&count)
	if count > 0 {
		log.Println("Channels already seeded, skipping")
		return
	}

	// 创建预设频道
	channels := []models.Channel{
		{Name: "技术", Description: "技术相关的讨论和分享"},
		{Name: "生活", Description: "生活日常、经验分享"},
		{Name: "展示", Description: "作品展示、项目分享"},
		{Name: "闲聊", Description: "随便聊聊"},
	}

	for _, channel := range channels {
		if err := DB.Create(&channel).Error; err != nil {
			log.Printf("Failed to create channel %s: %v", channel.Name, err)
		}
	}
	log.Println("Initial channels created successfully")
}
