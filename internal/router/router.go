package router

import (
	"ForumHub/internal/config"
	"ForumHub/internal/handler"
	"ForumHub/internal/middleware"
	"ForumHub/internal/model"
	"ForumHub/internal/pkg"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(cfg *config.Config, producer *pkg.KafkaProducer) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// 管理工作流：kafka 事件与邮件通知按配置挂接
	modSvc := service.NewModerationService(mysql.DB)
	if cfg.RateLimit.ModActionsPerMinute > 0 {
		modSvc.RateLimit = cfg.RateLimit.ModActionsPerMinute
	}
	if cfg.Kafka.Enabled {
		modSvc.Events = service.NewModerationEventService(producer)
	}
	if cfg.SMTP.Enabled {
		modSvc.SMTP = &pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}
	}

	user := handler.NewUserHandler()
	community := handler.NewCommunityHandler()
	post := handler.NewPostHandler()
	mod := handler.NewModerationHandler(modSvc)

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", user.Logout)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/:id", community.Get)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)
	}

	// 社区管理接口：版主及以上才可进入，操作级鉴权在服务层
	modGroup := r.Group("/api/community/:id/mod")
	modGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(model.RoleModerator))
	{
		modGroup.POST("", mod.Execute)
		modGroup.GET("/logs", mod.Logs)
		modGroup.GET("/bans", mod.Bans)
		modGroup.GET("/moderators", mod.Moderators)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.AuthMiddleware())
	{
		postGroup.POST("/create", post.CreatePost)
		postGroup.DELETE("/:id", post.DeletePost)
		postGroup.GET("/list/:id", post.ListByCommunity)
		postGroup.POST("/:id/comment", post.CreateComment)
		postGroup.GET("/:id/comments", post.ListComments)
	}

	return r
}
