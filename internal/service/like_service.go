package service

import (
	"errors"
	"strings"

	"github.com/vixenblog/internal/db"
	"gorm.io/gorm"
)

// ErrVisitorRequired 表示点赞请求缺少访客标识。
var ErrVisitorRequired = errors.New("visitor id is required")

// LikeService 维护访客点赞台账与文章点赞计数。
type LikeService struct {
	db *gorm.DB
}

// NewLikeService creates a LikeService instance.
func NewLikeService(gdb *gorm.DB) *LikeService {
	return &LikeService{db: gdb}
}

// LikeResult 是一次点赞切换后的最新状态。
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// Toggle 切换访客对文章的点赞状态：已点赞则取消并减一（不低于零），
// 未点赞则记录并加一。存在性检查与增删在同一事务内完成，
// 计数使用数据库端原子表达式；并发重复插入命中唯一索引时按“已点赞”收敛。
func (s *LikeService) Toggle(slug, visitorID string) (*LikeResult, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return nil, ErrVisitorRequired
	}

	var post db.Post
	if err := s.db.Select("id").
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.PostLike
		err := tx.Where("visitor_id = ? AND post_id = ?", visitorID, post.ID).
			First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&db.Post{}).Where("id = ?", post.ID).
				UpdateColumn("like_count",
					gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).
				Error; err != nil {
				return err
			}
			liked = false
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&db.PostLike{VisitorID: visitorID, PostID: post.ID}).Error; err != nil {
				if isUniqueViolation(err) {
					// 同一访客并发重复提交，唯一索引兜底：视为已点赞，不再累加。
					liked = true
					return nil
				}
				return err
			}
			if err := tx.Model(&db.Post{}).Where("id = ?", post.ID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			liked = true
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	var count int
	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).
		Pluck("like_count", &count).Error; err != nil {
		return nil, err
	}

	return &LikeResult{Liked: liked, LikeCount: count}, nil
}

// HasLiked 查询访客是否已点赞，服务端记录是唯一事实来源。
func (s *LikeService) HasLiked(postID uint, visitorID string) (bool, error) {
	var count int64
	if err := s.db.Model(&db.PostLike{}).
		Where("visitor_id = ? AND post_id = ?", visitorID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
