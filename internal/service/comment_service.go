package service

import (
	"errors"
	"strings"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound      = errors.New("comment not found")
	ErrCommentFieldsMissing = errors.New("author, email and content are required")
	ErrParentCommentInvalid = errors.New("parent comment is invalid")
)

// CommentService 处理评论的提交、公开读取与后台审核。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// CommentInput 是访客提交评论的字段。PostID 与 Slug 二选一定位文章。
type CommentInput struct {
	PostID   uint
	Slug     string
	Author   string
	Email    string
	Website  string
	Content  string
	ParentID *uint
}

// CommentFilter 是后台评论列表的筛选条件。
type CommentFilter struct {
	Approved *bool
	PostID   uint
	Page     int
	PerPage  int
}

// CommentListResult aggregates paginated comment data.
type CommentListResult struct {
	Comments   []db.Comment
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// Submit 创建一条待审核评论并返回所属文章（用于后续通知）。
// 回复只允许挂在顶层评论下，保持单层嵌套。
func (s *CommentService) Submit(input CommentInput) (*db.Comment, *db.Post, error) {
	if strings.TrimSpace(input.Author) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Content) == "" {
		return nil, nil, ErrCommentFieldsMissing
	}

	var post db.Post
	query := s.db.Select("id, title, slug")
	if input.PostID != 0 {
		query = query.Where("id = ?", input.PostID)
	} else {
		query = query.Where("slug = ?", strings.TrimSpace(input.Slug))
	}
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrParentCommentInvalid
			}
			return nil, nil, err
		}
		if parent.PostID != post.ID || parent.ParentID != nil {
			return nil, nil, ErrParentCommentInvalid
		}
	}

	comment := db.Comment{
		Author:   strings.TrimSpace(input.Author),
		Email:    strings.TrimSpace(input.Email),
		Website:  strings.TrimSpace(input.Website),
		Content:  strings.TrimSpace(input.Content),
		Approved: false,
		PostID:   post.ID,
		ParentID: input.ParentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, nil, err
	}
	return &comment, &post, nil
}

// ListPublic 返回文章下已审核的顶层评论（新在前），并带上已审核的回复（旧在前）。
func (s *CommentService) ListPublic(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Where("post_id = ? AND approved = ? AND parent_id IS NULL", postID, true).
		Order("created_at desc").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("approved = ?", true).Order("created_at asc")
		}).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListAdmin 返回后台评论列表，支持按审核状态与文章过滤。
func (s *CommentService) ListAdmin(filter CommentFilter) (*CommentListResult, error) {
	result := &CommentListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.Comment{})
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}
	if filter.PostID != 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.Preload("Post", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id, title, slug")
	}).Order("created_at desc").
		Limit(result.PerPage).Offset(offset).
		Find(&result.Comments).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// ReplyNotificationTarget 聚合回复审核通过后通知原评论者所需的数据。
type ReplyNotificationTarget struct {
	ParentAuthor  string
	ParentEmail   string
	ParentContent string
	ReplyAuthor   string
	ReplyContent  string
	PostTitle     string
	PostSlug      string
}

// SetApproved 更新评论审核状态。若审核通过的是一条回复，且其父评论留有邮箱，
// 返回通知载荷由调用方以尽力而为的方式投递；通知失败不影响审核结果。
func (s *CommentService) SetApproved(id uint, approved bool) (*db.Comment, *ReplyNotificationTarget, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, err
	}

	if err := s.db.Model(&comment).Update("approved", approved).Error; err != nil {
		return nil, nil, err
	}
	comment.Approved = approved

	if !approved || comment.ParentID == nil {
		return &comment, nil, nil
	}

	var parent db.Comment
	if err := s.db.Preload("Post", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id, title, slug")
	}).First(&parent, *comment.ParentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &comment, nil, nil
		}
		return nil, nil, err
	}
	if strings.TrimSpace(parent.Email) == "" {
		return &comment, nil, nil
	}

	return &comment, &ReplyNotificationTarget{
		ParentAuthor:  parent.Author,
		ParentEmail:   parent.Email,
		ParentContent: parent.Content,
		ReplyAuthor:   comment.Author,
		ReplyContent:  comment.Content,
		PostTitle:     parent.Post.Title,
		PostSlug:      parent.Post.Slug,
	}, nil
}

// Delete 删除评论及其全部回复。
func (s *CommentService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment db.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if err := tx.Where("parent_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// CountPending 返回待审核评论数，用于后台面板。
func (s *CommentService) CountPending() (int64, error) {
	var count int64
	err := s.db.Model(&db.Comment{}).Where("approved = ?", false).Count(&count).Error
	return count, err
}
