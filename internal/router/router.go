package router

import (
	"senlin/internal/handlers"
	"senlin/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部 API 路由
func RegisterRoutes(r *gin.Engine) {
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	channelHandler := handlers.NewChannelHandler()
	memberHandler := handlers.NewMemberHandler()
	attitudeHandler := handlers.NewAttitudeHandler()
	relationHandler := handlers.NewRelationHandler()
	saveHandler := handlers.NewSaveHandler()
	notificationHandler := handlers.NewNotificationHandler()
	reportHandler := handlers.NewReportHandler()
	adminHandler := handlers.NewAdminHandler()

	api := r.Group("/api")
	api.Use(middleware.LoadMember())

	// 公开接口
	{
		api.GET("/captcha", authHandler.Captcha)
		api.POST("/signup", authHandler.Register)
		api.POST("/activate", authHandler.Activate)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.POST("/password/forgot", authHandler.ForgotPassword)
		api.POST("/password/reset", authHandler.ResetPassword)

		api.GET("/posts", postHandler.ListHot)
		api.GET("/posts/new", postHandler.ListNew)
		api.GET("/channel/:name/posts", postHandler.ListByChannel)
		api.GET("/topic/:name/posts", postHandler.ListByTopic)
		api.GET("/post/:pid", postHandler.Detail)
		api.GET("/channels", channelHandler.ListChannels)

		api.GET("/member/:id", memberHandler.Profile)
		api.GET("/member/:id/following", memberHandler.Following)
		api.GET("/member/:id/followers", memberHandler.Followers)
	}

	// 登录后接口
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.POST("/post", postHandler.Create)
		auth.POST("/post/:pid/edit", postHandler.Update)
		auth.DELETE("/post/:pid", postHandler.Delete)
		auth.POST("/post/:pid/comment", postHandler.CreateComment)
		auth.DELETE("/comment/:cid", postHandler.DeleteComment)

		auth.POST("/attitude/:type/:id", attitudeHandler.Change)
		auth.POST("/follow/:id", relationHandler.Follow)
		auth.POST("/block/:id", relationHandler.Block)
		auth.POST("/save/:pid", saveHandler.Toggle)
		auth.POST("/report/:type/:id", reportHandler.Create)

		auth.GET("/notifications", notificationHandler.List)
		auth.POST("/notifications/:id/read", notificationHandler.Read)
		auth.DELETE("/notifications/:id", notificationHandler.Delete)
		auth.POST("/notifications/read-all", notificationHandler.ReadAll)

		auth.GET("/me/blocked", memberHandler.Blocked)
		auth.GET("/me/saved", memberHandler.Saved)
		auth.POST("/me/settings", memberHandler.UpdateSettings)
	}

	// 管理接口
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.POST("/member/:id/punish", adminHandler.PunishMember)
		admin.POST("/member/:id/restore", adminHandler.RestoreMember)
		admin.POST("/post/:pid/remove", adminHandler.RemovePost)
		admin.POST("/comment/:cid/remove", adminHandler.RemoveComment)
		admin.POST("/post/:pid/pin", adminHandler.PinPost)
		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/report/:id/handle", adminHandler.HandleReport)
	}
}
