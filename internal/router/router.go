package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/config"
	"github.com/vixenblog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("vixenblog_session", store))

	// 上传文件的静态服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/feed.xml", api.RSSFeed)
	r.GET("/sitemap.xml", api.Sitemap)

	// 前台公开接口
	public := r.Group("/api")
	{
		public.GET("/posts", api.ListPublishedPosts)
		public.GET("/posts/search", api.SearchPosts)
		public.GET("/posts/:slug", api.GetPublishedPost)
		public.POST("/posts/:slug/like", api.ToggleLike)
		public.GET("/posts/:slug/comments", api.ListPostComments)
		public.POST("/posts/:slug/comments", api.SubmitComment)

		public.GET("/categories", api.ListCategories)
		public.GET("/categories/:slug", api.GetCategory)
		public.GET("/tags", api.ListTags)
		public.GET("/tags/:slug", api.GetTag)
		public.GET("/series", api.ListSeries)
		public.GET("/series/:slug", api.GetSeries)

		public.GET("/settings", api.GetPublicSettings)

		// 外部 cron 触发的定时发布扫描
		public.POST("/cron/publish", api.RunPublishSweep)
	}

	// 后台管理路由
	admin := r.Group("/admin/api")
	{
		admin.POST("/login", api.Login)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/logout", api.Logout)
			auth.GET("/profile", api.GetProfile)
			auth.PUT("/profile", api.UpdateProfile)
			auth.GET("/dashboard", api.Dashboard)

			auth.GET("/posts", api.ListPosts)
			auth.GET("/posts/:id", api.GetPost)
			auth.POST("/posts", api.CreatePost)
			auth.PUT("/posts/:id", api.UpdatePost)
			auth.DELETE("/posts/:id", api.DeletePost)
			auth.PUT("/posts/:id/autosave", api.AutosaveDraft)
			auth.POST("/posts/preview", api.PreviewPost)

			auth.GET("/comments", api.ListComments)
			auth.PUT("/comments/:id/review", api.ReviewComment)
			auth.DELETE("/comments/:id", api.DeleteComment)

			auth.POST("/categories", api.CreateCategory)
			auth.PUT("/categories/:id", api.UpdateCategory)
			auth.DELETE("/categories/:id", api.DeleteCategory)

			auth.POST("/tags", api.CreateTag)
			auth.PUT("/tags/:id", api.UpdateTag)
			auth.DELETE("/tags/:id", api.DeleteTag)

			auth.POST("/series", api.CreateSeries)
			auth.PUT("/series/:id", api.UpdateSeries)
			auth.DELETE("/series/:id", api.DeleteSeries)

			auth.GET("/settings", api.GetSettings)
			auth.PUT("/settings", api.UpdateSettings)
			auth.GET("/logs", api.ListOperationLogs)

			auth.POST("/upload", api.UploadImage)
		}
	}

	return r
}
