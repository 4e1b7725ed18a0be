package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/service"
)

type taxonomyRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

func respondTaxonomyWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		respondError(c, http.StatusBadRequest, "名称不能为空")
	case errors.Is(err, service.ErrNameTaken):
		respondError(c, http.StatusConflict, "名称已存在")
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusConflict, "slug 已被占用")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "分类不存在")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusNotFound, "标签不存在")
	case errors.Is(err, service.ErrSeriesNotFound):
		respondError(c, http.StatusNotFound, "系列不存在")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}

// ListCategories 返回全部分类及文章数。
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类列表失败")
		return
	}
	respondData(c, http.StatusOK, gin.H{"categories": categories})
}

// GetCategory 返回分类详情及其下已发布的文章。
func (a *API) GetCategory(c *gin.Context) {
	slug := c.Param("slug")
	category, err := a.categories.GetBySlug(slug)
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	settings := a.siteSettings(c)
	result, err := a.posts.List(service.PostFilter{
		Status:       "published",
		CategorySlug: slug,
		Page:         parseIntQuery(c, "page", 1),
		PerPage:      settings.PostsPerPage,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类文章失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"category":   category,
		"posts":      result.Posts,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
	})
}

// CreateCategory 新建分类。
func (a *API) CreateCategory(c *gin.Context) {
	var req taxonomyRequest
	if !bindJSON(c, &req, "名称不能为空") {
		return
	}

	category, err := a.categories.Create(req.Name, req.Slug)
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "create", "category", category.Name, category.ID))
	respondData(c, http.StatusCreated, category)
}

// UpdateCategory 更新分类。
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	var req taxonomyRequest
	if !bindJSON(c, &req, "名称不能为空") {
		return
	}

	category, err := a.categories.Update(id, req.Name, req.Slug)
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "update", "category", category.Name, category.ID))
	respondData(c, http.StatusOK, category)
}

// DeleteCategory 删除分类，分类下的文章改为无分类。
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "delete", "category", "", id))
	respondMessage(c, http.StatusOK, "分类已删除")
}

// ListTags 返回全部标签及文章数。
func (a *API) ListTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取标签列表失败")
		return
	}
	respondData(c, http.StatusOK, gin.H{"tags": tags})
}

// GetTag 返回标签详情及其下已发布的文章。
func (a *API) GetTag(c *gin.Context) {
	slug := c.Param("slug")
	tag, err := a.tags.GetBySlug(slug)
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	settings := a.siteSettings(c)
	result, err := a.posts.List(service.PostFilter{
		Status:  "published",
		TagSlug: slug,
		Page:    parseIntQuery(c, "page", 1),
		PerPage: settings.PostsPerPage,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取标签文章失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"tag":        tag,
		"posts":      result.Posts,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
	})
}

// CreateTag 新建标签。
func (a *API) CreateTag(c *gin.Context) {
	var req taxonomyRequest
	if !bindJSON(c, &req, "名称不能为空") {
		return
	}

	tag, err := a.tags.Create(req.Name, req.Slug)
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "create", "tag", tag.Name, tag.ID))
	respondData(c, http.StatusCreated, tag)
}

// UpdateTag 更新标签。
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	var req taxonomyRequest
	if !bindJSON(c, &req, "名称不能为空") {
		return
	}

	tag, err := a.tags.Update(id, req.Name, req.Slug)
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "update", "tag", tag.Name, tag.ID))
	respondData(c, http.StatusOK, tag)
}

// DeleteTag 删除标签并解除与文章的关联。
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "delete", "tag", "", id))
	respondMessage(c, http.StatusOK, "标签已删除")
}

type seriesRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

// ListSeries 返回全部系列及文章数。
func (a *API) ListSeries(c *gin.Context) {
	series, err := a.series.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取系列列表失败")
		return
	}
	respondData(c, http.StatusOK, gin.H{"series": series})
}

// GetSeries 返回系列详情及其按序排列的已发布文章。
func (a *API) GetSeries(c *gin.Context) {
	detail, err := a.series.GetBySlug(c.Param("slug"))
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"series": detail.Series,
		"posts":  detail.Posts,
	})
}

// CreateSeries 新建系列。
func (a *API) CreateSeries(c *gin.Context) {
	var req seriesRequest
	if !bindJSON(c, &req, "名称不能为空") {
		return
	}

	series, err := a.series.Create(service.SeriesInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "create", "series", series.Name, series.ID))
	respondData(c, http.StatusCreated, series)
}

// UpdateSeries 更新系列。
func (a *API) UpdateSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	var req seriesRequest
	if !bindJSON(c, &req, "名称不能为空") {
		return
	}

	series, err := a.series.Update(id, service.SeriesInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "update", "series", series.Name, series.ID))
	respondData(c, http.StatusOK, series)
}

// DeleteSeries 删除系列，系列下的文章摘出系列。
func (a *API) DeleteSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	if err := a.series.Delete(id); err != nil {
		respondTaxonomyWriteError(c, err)
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "delete", "series", "", id))
	respondMessage(c, http.StatusOK, "系列已删除")
}
