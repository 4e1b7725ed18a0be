package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/service"
)

// GetSettings 返回站点设置。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取站点设置失败")
		return
	}
	respondData(c, http.StatusOK, settings)
}

// GetPublicSettings 返回前台需要的站点信息子集。
func (a *API) GetPublicSettings(c *gin.Context) {
	settings := a.siteSettings(c)
	respondData(c, http.StatusOK, gin.H{
		"siteName":        settings.SiteName,
		"siteDescription": settings.SiteDescription,
		"enableComments":  settings.EnableComments,
		"enableRss":       settings.EnableRSS,
	})
}

type settingsRequest struct {
	SiteName         string `json:"siteName"`
	SiteDescription  string `json:"siteDescription"`
	PostsPerPage     int    `json:"postsPerPage"`
	EnableComments   bool   `json:"enableComments"`
	EnableRSS        bool   `json:"enableRss"`
	EnableSitemap    bool   `json:"enableSitemap"`
	AdminNotifyEmail string `json:"adminNotifyEmail"`
}

// UpdateSettings 保存站点设置。
func (a *API) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	settings, err := a.settings.Update(service.SiteSettingsInput{
		SiteName:         req.SiteName,
		SiteDescription:  req.SiteDescription,
		PostsPerPage:     req.PostsPerPage,
		EnableComments:   req.EnableComments,
		EnableRSS:        req.EnableRSS,
		EnableSitemap:    req.EnableSitemap,
		AdminNotifyEmail: req.AdminNotifyEmail,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存站点设置失败")
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "update", "settings", settings.SiteName, 0))
	respondData(c, http.StatusOK, settings)
}

// Dashboard 返回后台面板的统计数据。
func (a *API) Dashboard(c *gin.Context) {
	published, draft, scheduled, err := a.posts.CountByState()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	pendingComments, err := a.comments.CountPending()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"publishedPosts":  published,
		"draftPosts":      draft,
		"scheduledPosts":  scheduled,
		"pendingComments": pendingComments,
	})
}

// ListOperationLogs 返回后台操作记录。
func (a *API) ListOperationLogs(c *gin.Context) {
	logs, total, err := a.oplog.List(
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "perPage", 20),
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取操作记录失败")
		return
	}
	respondData(c, http.StatusOK, gin.H{"logs": logs, "total": total})
}
