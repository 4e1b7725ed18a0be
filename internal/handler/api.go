package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/config"
	"github.com/vixenblog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	cfg        config.AppConfig
	posts      *service.PostService
	comments   *service.CommentService
	likes      *service.LikeService
	categories *service.CategoryService
	tags       *service.TagService
	series     *service.SeriesService
	settings   *service.SettingService
	oplog      *service.OperationLogService
	mailer     *service.Mailer
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	settingService := service.NewSettingService(gdb)

	return &API{
		db:         gdb,
		cfg:        cfg,
		posts:      service.NewPostService(gdb),
		comments:   service.NewCommentService(gdb),
		likes:      service.NewLikeService(gdb),
		categories: service.NewCategoryService(gdb),
		tags:       service.NewTagService(gdb),
		series:     service.NewSeriesService(gdb),
		settings:   settingService,
		oplog:      service.NewOperationLogService(gdb),
		mailer: service.NewMailer(
			cfg.ResendAPIKey,
			cfg.EmailFrom,
			siteNameOrDefault(settingService),
			cfg.SiteBaseURL,
		),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Posts exposes the post service for scheduled jobs.
func (a *API) Posts() *service.PostService {
	return a.posts
}

func siteNameOrDefault(settings *service.SettingService) string {
	site, err := settings.Get()
	if err != nil {
		return "Vixen Blog"
	}
	return site.SiteName
}

// siteSettings 读取站点设置，失败时回落默认值并记录到 gin 错误链。
func (a *API) siteSettings(c *gin.Context) service.SiteSettings {
	settings, err := a.settings.Get()
	if err != nil {
		c.Error(err)
	}
	return settings
}
