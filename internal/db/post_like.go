package db

import "time"

// PostLike 记录访客对文章的点赞。(VisitorID, PostID) 上的唯一索引
// 保证同一访客对同一文章至多存在一条点赞记录，是“是否已点赞”的唯一事实来源；
// Post.LikeCount 只是随本表增删同步维护的冗余计数。
// 不使用软删除：取消点赞必须真正移除记录，否则唯一索引会挡住再次点赞。
type PostLike struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	VisitorID string `gorm:"size:100;uniqueIndex:idx_post_likes_visitor_post;not null"`
	PostID    uint   `gorm:"uniqueIndex:idx_post_likes_visitor_post;not null"`
}
