package model

import (
	baseModel "penned/pkg/model"
)

// Post 文章模型
// Upvotes 计数器只能通过点赞事务变更，保证与各用户 upvoted_posts 集合一致
type Post struct {
	baseModel.OwnedModel
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"` // 富文本
	ImageURL string `json:"imageUrl,omitempty"`
	Upvotes  int    `gorm:"default:0" json:"upvotes"`
}

// Blog 博客模型，与 Post 同形但独立集合
type Blog struct {
	baseModel.OwnedModel
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Comment 评论模型
type Comment struct {
	baseModel.OwnedModel
	PostID     string `gorm:"type:uuid;index;not null" json:"postId"`
	AuthorName string `json:"authorName"`
	Text       string `gorm:"type:text;not null" json:"text"`
}
