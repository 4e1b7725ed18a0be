package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/service"
)

// postRequest 是创建/更新文章的请求体。ScheduledAt 接受 RFC3339 时间，
// 格式不合法的请求在绑定阶段即被拒绝。
type postRequest struct {
	Title       string     `json:"title" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	Excerpt     string     `json:"excerpt"`
	Slug        string     `json:"slug"`
	CoverImage  string     `json:"coverImage"`
	Published   bool       `json:"published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	CategoryID  *uint      `json:"categoryId"`
	SeriesID    *uint      `json:"seriesId"`
	SeriesOrder *int       `json:"seriesOrder"`
	TagIDs      []uint     `json:"tagIds"`
}

func (r postRequest) toInput(authorID uint) service.PostInput {
	return service.PostInput{
		Title:       r.Title,
		Content:     r.Content,
		Excerpt:     r.Excerpt,
		Slug:        r.Slug,
		CoverImage:  r.CoverImage,
		Published:   r.Published,
		ScheduledAt: r.ScheduledAt,
		CategoryID:  r.CategoryID,
		SeriesID:    r.SeriesID,
		SeriesOrder: r.SeriesOrder,
		TagIDs:      r.TagIDs,
		AuthorID:    authorID,
	}
}

// ListPosts 返回后台文章列表，支持状态、分类、标签、系列与关键字过滤。
func (a *API) ListPosts(c *gin.Context) {
	result, err := a.posts.List(service.PostFilter{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		SeriesSlug:   c.Query("series"),
		Page:         parseIntQuery(c, "page", 1),
		PerPage:      parseIntQuery(c, "perPage", 10),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文章列表失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"posts":      result.Posts,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// GetPost 返回单篇文章（后台编辑用，不区分发布状态）。
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}
	respondData(c, http.StatusOK, post)
}

// CreatePost 创建新文章。
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "标题和内容不能为空，定时时间需为 RFC3339 格式") {
		return
	}

	userID, username := sessionUser(c)
	post, err := a.posts.Create(req.toInput(userID))
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	a.oplog.Record(operationEntry(c, userID, username, "create", "post", post.Title, post.ID))
	respondData(c, http.StatusCreated, post)
}

// UpdatePost 更新文章。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "标题和内容不能为空，定时时间需为 RFC3339 格式") {
		return
	}

	userID, username := sessionUser(c)
	post, err := a.posts.Update(id, req.toInput(userID))
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	a.oplog.Record(operationEntry(c, userID, username, "update", "post", post.Title, post.ID))
	respondData(c, http.StatusOK, post)
}

func respondPostWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "文章不存在")
	case errors.Is(err, service.ErrMissingFields):
		respondError(c, http.StatusBadRequest, "标题和内容不能为空")
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusConflict, "slug 已被其它文章占用")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusBadRequest, "包含不存在的标签")
	default:
		respondError(c, http.StatusInternalServerError, "保存文章失败")
	}
}

// DeletePost 删除文章及其关联数据。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除文章失败")
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "delete", "post", "", id))
	respondMessage(c, http.StatusOK, "文章已删除")
}

type autosaveRequest struct {
	Content string `json:"content" binding:"required"`
	Excerpt string `json:"excerpt"`
}

// AutosaveDraft 自动保存草稿内容，不影响发布状态。
func (a *API) AutosaveDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var req autosaveRequest
	if !bindJSON(c, &req, "内容不能为空") {
		return
	}

	if err := a.posts.SaveDraftContent(id, req.Content, req.Excerpt); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "草稿不存在或文章已发布")
			return
		}
		respondError(c, http.StatusInternalServerError, "自动保存失败")
		return
	}
	respondMessage(c, http.StatusOK, "草稿已保存")
}

type previewRequest struct {
	Content string `json:"content" binding:"required"`
}

// PreviewPost 渲染内容供编辑器预览，与前台详情使用同一渲染管线。
func (a *API) PreviewPost(c *gin.Context) {
	var req previewRequest
	if !bindJSON(c, &req, "内容不能为空") {
		return
	}

	rendered, err := service.RenderContent(req.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染内容失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"html":        rendered.HTML,
		"headings":    rendered.Headings,
		"readingTime": service.EstimateReadingTime(req.Content),
	})
}
