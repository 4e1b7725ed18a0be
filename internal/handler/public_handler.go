package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vixenblog/internal/db"
	"github.com/vixenblog/internal/service"
	"gorm.io/gorm"
)

const visitorCookieName = "visitor_id"

// visitorID 取访客标识：优先请求头，其次 Cookie；都没有时签发一个新的。
func visitorID(c *gin.Context) string {
	if id := c.GetHeader("X-Visitor-Id"); id != "" {
		return id
	}
	if id, err := c.Cookie(visitorCookieName); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()
	c.SetCookie(visitorCookieName, id, 3600*24*365, "/", "", false, true)
	return id
}

// ListPublishedPosts 返回前台文章列表，分页大小取站点设置。
func (a *API) ListPublishedPosts(c *gin.Context) {
	settings := a.siteSettings(c)

	result, err := a.posts.List(service.PostFilter{
		Status:       "published",
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		SeriesSlug:   c.Query("series"),
		Page:         parseIntQuery(c, "page", 1),
		PerPage:      settings.PostsPerPage,
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

// GetPublishedPost 返回前台文章详情：渲染后的正文、目录、阅读时长、
// 上一篇/下一篇、相关文章与所属系列的文章清单。
func (a *API) GetPublishedPost(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := a.posts.GetPublishedBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}

	rendered, err := service.RenderContent(detail.Post.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染文章失败")
		return
	}

	liked, err := a.likes.HasLiked(detail.Post.ID, visitorID(c))
	if err != nil {
		c.Error(err)
	}

	respondData(c, http.StatusOK, gin.H{
		"post":        detail.Post,
		"html":        rendered.HTML,
		"headings":    rendered.Headings,
		"readingTime": service.EstimateReadingTime(detail.Post.Content),
		"liked":       liked,
		"prev":        detail.Prev,
		"next":        detail.Next,
		"related":     detail.Related,
		"seriesPosts": detail.SeriesPosts,
	})
}

// ToggleLike 切换访客对文章的点赞状态。
func (a *API) ToggleLike(c *gin.Context) {
	result, err := a.likes.Toggle(c.Param("slug"), visitorID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrVisitorRequired):
			respondError(c, http.StatusBadRequest, "缺少访客标识")
		default:
			respondError(c, http.StatusInternalServerError, "操作失败")
		}
		return
	}
	respondData(c, http.StatusOK, result)
}

// SearchPosts 在已发布文章中搜索。
func (a *API) SearchPosts(c *gin.Context) {
	posts, err := a.posts.Search(c.Query("q"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "搜索失败")
		return
	}
	respondData(c, http.StatusOK, gin.H{"posts": posts})
}

// ListPostComments 返回文章下已审核的评论。
func (a *API) ListPostComments(c *gin.Context) {
	settings := a.siteSettings(c)
	if !settings.EnableComments {
		respondData(c, http.StatusOK, gin.H{"comments": []struct{}{}, "enabled": false})
		return
	}

	// 只取文章主键，避免走详情查询把浏览计数也加上。
	var post db.Post
	if err := a.db.Select("id").
		Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	comments, err := a.comments.ListPublic(post.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}
	respondData(c, http.StatusOK, gin.H{"comments": comments, "enabled": true})
}

type commentRequest struct {
	Author   string `json:"author" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Website  string `json:"website"`
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parentId"`
}

// SubmitComment 提交访客评论，进入待审核队列；
// 若配置了管理员通知邮箱，异步发送新评论提醒。
func (a *API) SubmitComment(c *gin.Context) {
	settings := a.siteSettings(c)
	if !settings.EnableComments {
		respondError(c, http.StatusForbidden, "评论功能已关闭")
		return
	}

	var req commentRequest
	if !bindJSON(c, &req, "昵称、邮箱和内容不能为空") {
		return
	}

	comment, post, err := a.comments.Submit(service.CommentInput{
		Slug:     c.Param("slug"),
		Author:   req.Author,
		Email:    req.Email,
		Website:  req.Website,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrCommentFieldsMissing):
			respondError(c, http.StatusBadRequest, "昵称、邮箱和内容不能为空")
		case errors.Is(err, service.ErrParentCommentInvalid):
			respondError(c, http.StatusBadRequest, "回复的评论无效")
		default:
			respondError(c, http.StatusInternalServerError, "提交评论失败")
		}
		return
	}

	// 通知是尽力而为的：发送失败只记日志，不影响评论提交结果。
	if notifyEmail := settings.AdminNotifyEmail; notifyEmail != "" {
		notification := service.NewCommentNotification{
			To:             notifyEmail,
			PostTitle:      post.Title,
			PostSlug:       post.Slug,
			CommenterName:  comment.Author,
			CommenterEmail: comment.Email,
			CommentContent: comment.Content,
		}
		go func() {
			if err := a.mailer.SendNewCommentNotification(notification); err != nil {
				log.Printf("send new comment notification: %v", err)
			}
		}()
	}

	respondData(c, http.StatusCreated, gin.H{
		"id":       comment.ID,
		"approved": comment.Approved,
		"message":  "评论已提交，审核通过后展示",
	})
}
