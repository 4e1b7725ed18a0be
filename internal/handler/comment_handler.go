package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/service"
)

// ListComments 返回后台评论列表，支持按审核状态与文章过滤。
func (a *API) ListComments(c *gin.Context) {
	postID := uint(parseIntQuery(c, "postId", 0))
	result, err := a.comments.ListAdmin(service.CommentFilter{
		Approved: parseBoolQuery(c, "approved"),
		PostID:   postID,
		Page:     parseIntQuery(c, "page", 1),
		PerPage:  parseIntQuery(c, "perPage", 20),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论列表失败")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"comments":   result.Comments,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

type reviewRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ReviewComment 审核评论。审核通过一条回复时，异步通知被回复的评论者。
func (a *API) ReviewComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	var req reviewRequest
	if !bindJSON(c, &req, "缺少审核结果") {
		return
	}

	comment, target, err := a.comments.SetApproved(id, *req.Approved)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "更新评论状态失败")
		return
	}

	if target != nil {
		notification := service.ReplyNotification{
			To:            target.ParentEmail,
			PostTitle:     target.PostTitle,
			PostSlug:      target.PostSlug,
			ParentAuthor:  target.ParentAuthor,
			ParentContent: target.ParentContent,
			ReplyAuthor:   target.ReplyAuthor,
			ReplyContent:  target.ReplyContent,
		}
		go func() {
			if err := a.mailer.SendCommentReplyNotification(notification); err != nil {
				log.Printf("send reply notification: %v", err)
			}
		}()
	}

	userID, username := sessionUser(c)
	action := "approve"
	if !comment.Approved {
		action = "reject"
	}
	a.oplog.Record(operationEntry(c, userID, username, action, "comment", comment.Author, comment.ID))

	respondData(c, http.StatusOK, comment)
}

// DeleteComment 删除评论及其回复。
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除评论失败")
		return
	}

	userID, username := sessionUser(c)
	a.oplog.Record(operationEntry(c, userID, username, "delete", "comment", "", id))
	respondMessage(c, http.StatusOK, "评论已删除")
}
