package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"penned/internal/domain/post/model"
	"penned/internal/domain/post/repository"
	userRepo "penned/internal/domain/user/repository"
	"penned/internal/pkg/uploader"
	"penned/internal/pkg/worker"
	"penned/pkg/cache"
	"penned/pkg/logger"
	"penned/pkg/metrics"
	"penned/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrBlogNotFound    = errors.New("blog not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUpvoterNotFound = errors.New("upvoting user not found")
	ErrNotOwner        = errors.New("only the owner or an admin can modify this")
)

const (
	// 点赞事务冲突时的有界重试
	maxToggleRetries  = 3
	toggleBackoffBase = 50 * time.Millisecond

	feedCacheKey = "feed:first"
	feedCacheTTL = time.Minute
)

// UpvoteResult 点赞切换结果
type UpvoteResult struct {
	Added   bool `json:"added"`
	Upvotes int  `json:"upvotes"`
}

// PostService 文章服务接口
type PostService interface {
	CreatePost(userID, title, content, imageURL string) (*model.Post, error)
	GetPost(id string) (*model.Post, error)
	GetFeed(cursor string, limit int) (*utils.CursorResult, error)
	UpdatePost(userID string, isAdmin bool, id, title, content, imageURL string) (*model.Post, error)
	DeletePost(userID string, isAdmin bool, id string) error
	ToggleUpvote(userID, postID string) (*UpvoteResult, error)

	CreateBlog(userID, title, content, imageURL string) (*model.Blog, error)
	GetBlog(id string) (*model.Blog, error)
	GetBlogs(page, limit int) ([]model.Blog, int64, error)
	UpdateBlog(userID string, isAdmin bool, id, title, content, imageURL string) (*model.Blog, error)
	DeleteBlog(userID string, isAdmin bool, id string) error

	AddComment(userID, postID, text string) (*model.Comment, error)
	GetComments(postID string, page, limit int) ([]model.Comment, int64, error)
	DeleteComment(userID string, isAdmin bool, id string) error
}

type postService struct {
	repo    repository.PostRepository
	users   userRepo.UserRepository
	cache   cache.CacheService
	janitor *worker.Janitor
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, users userRepo.UserRepository, c cache.CacheService, janitor *worker.Janitor) PostService {
	return &postService{
		repo:    repo,
		users:   users,
		cache:   c,
		janitor: janitor,
	}
}

// feedPage 首页缓存载体
type feedPage struct {
	List       []model.Post `json:"list"`
	NextCursor string       `json:"nextCursor"`
}

// CreatePost 创建文章
func (s *postService) CreatePost(userID, title, content, imageURL string) (*model.Post, error) {
	post := &model.Post{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	}
	post.CreatedBy = userID

	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}
	s.invalidateFeed()
	return post, nil
}

// GetPost 获取单篇文章
func (s *postService) GetPost(id string) (*model.Post, error) {
	post, err := s.repo.GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetFeed 信息流，游标分页
// 只缓存无游标的第一页，短 TTL 吸收热点读
func (s *postService) GetFeed(cursor string, limit int) (*utils.CursorResult, error) {
	if cursor == "" {
		var page feedPage
		if err := s.cache.Get(context.Background(), s.feedKey(limit), &page); err == nil {
			return &utils.CursorResult{List: page.List, NextCursor: page.NextCursor, Limit: limit}, nil
		}
	}

	var after *repository.FeedCursor
	if cursor != "" {
		createdAt, id, err := utils.DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		after = &repository.FeedCursor{CreatedAt: createdAt, ID: id}
	}

	posts, err := s.repo.ListPosts(after, limit)
	if err != nil {
		return nil, err
	}

	next := ""
	if len(posts) == limit {
		last := posts[len(posts)-1]
		next = utils.EncodeCursor(last.CreatedAt, last.ID)
	}

	if cursor == "" {
		if err := s.cache.Set(context.Background(), s.feedKey(limit), feedPage{List: posts, NextCursor: next}, feedCacheTTL); err != nil {
			logger.Log.Warn("Failed to cache feed page", zap.Error(err))
		}
	}

	return &utils.CursorResult{List: posts, NextCursor: next, Limit: limit}, nil
}

// UpdatePost 更新文章（作者或管理员）
// 换图时旧对象交给 janitor 异步清理
func (s *postService) UpdatePost(userID string, isAdmin bool, id, title, content, imageURL string) (*model.Post, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if !post.IsOwner(userID) && !isAdmin {
		return nil, ErrNotOwner
	}

	oldImage := post.ImageURL
	post.Title = title
	post.Content = content
	post.ImageURL = imageURL

	if err := s.repo.UpdatePost(post); err != nil {
		return nil, err
	}

	if oldImage != "" && oldImage != imageURL {
		s.enqueueCleanup(oldImage)
	}
	s.invalidateFeed()
	return post, nil
}

// DeletePost 删除文章（作者或管理员），附带清理存储对象
func (s *postService) DeletePost(userID string, isAdmin bool, id string) error {
	post, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if !post.IsOwner(userID) && !isAdmin {
		return ErrNotOwner
	}

	if err := s.repo.DeletePost(id, post.CreatedBy); err != nil {
		return err
	}

	s.enqueueCleanup(post.ImageURL)
	s.invalidateFeed()
	return nil
}

// ToggleUpvote 点赞开关，提交冲突时指数退避重试
// 重试耗尽后把冲突报告给调用方，而不是静默丢弃
func (s *postService) ToggleUpvote(userID, postID string) (*UpvoteResult, error) {
	collector := metrics.GetGlobalCollector()

	for attempt := 0; ; attempt++ {
		added, upvotes, err := s.repo.ToggleUpvote(userID, postID)
		if err == nil {
			if added {
				collector.RecordUpvoteToggle("added")
			} else {
				collector.RecordUpvoteToggle("removed")
			}
			return &UpvoteResult{Added: added, Upvotes: upvotes}, nil
		}

		if errors.Is(err, repository.ErrUpvoterNotFound) {
			collector.RecordUpvoteToggle("error")
			return nil, ErrUpvoterNotFound
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			collector.RecordUpvoteToggle("error")
			return nil, ErrPostNotFound
		}

		if !isSerializationFailure(err) {
			collector.RecordUpvoteToggle("error")
			return nil, err
		}

		if attempt >= maxToggleRetries {
			collector.RecordUpvoteToggle("conflict")
			logger.Log.Warn("Upvote toggle gave up after retries",
				zap.String("user", userID), zap.String("post", postID), zap.Error(err))
			return nil, err
		}

		collector.RecordUpvoteRetry()
		time.Sleep(toggleBackoffBase << uint(attempt))
	}
}

// isSerializationFailure 判断是否是可重试的提交冲突 (40001/40P01)
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}

// CreateBlog 创建博客
func (s *postService) CreateBlog(userID, title, content, imageURL string) (*model.Blog, error) {
	blog := &model.Blog{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	}
	blog.CreatedBy = userID

	if err := s.repo.CreateBlog(blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// GetBlog 获取单篇博客
func (s *postService) GetBlog(id string) (*model.Blog, error) {
	blog, err := s.repo.GetBlogByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

// GetBlogs 博客列表（分页）
func (s *postService) GetBlogs(page, limit int) ([]model.Blog, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetBlogList(offset, limit)
}

// UpdateBlog 更新博客（作者或管理员）
func (s *postService) UpdateBlog(userID string, isAdmin bool, id, title, content, imageURL string) (*model.Blog, error) {
	blog, err := s.GetBlog(id)
	if err != nil {
		return nil, err
	}
	if !blog.IsOwner(userID) && !isAdmin {
		return nil, ErrNotOwner
	}

	oldImage := blog.ImageURL
	blog.Title = title
	blog.Content = content
	blog.ImageURL = imageURL

	if err := s.repo.UpdateBlog(blog); err != nil {
		return nil, err
	}
	if oldImage != "" && oldImage != imageURL {
		s.enqueueCleanup(oldImage)
	}
	return blog, nil
}

// DeleteBlog 删除博客（作者或管理员）
func (s *postService) DeleteBlog(userID string, isAdmin bool, id string) error {
	blog, err := s.GetBlog(id)
	if err != nil {
		return err
	}
	if !blog.IsOwner(userID) && !isAdmin {
		return ErrNotOwner
	}

	if err := s.repo.DeleteBlog(id); err != nil {
		return err
	}
	s.enqueueCleanup(blog.ImageURL)
	return nil
}

// AddComment 发表评论，作者名冗余写入避免列表联查
func (s *postService) AddComment(userID, postID, text string) (*model.Comment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}

	authorName := ""
	if user, err := s.users.GetByID(userID); err == nil {
		authorName = user.DisplayName
	}

	comment := &model.Comment{
		PostID:     postID,
		AuthorName: authorName,
		Text:       text,
	}
	comment.CreatedBy = userID

	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComments 文章评论列表
func (s *postService) GetComments(postID string, page, limit int) ([]model.Comment, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetCommentsByPost(postID, offset, limit)
}

// DeleteComment 删除评论（评论作者或管理员）
func (s *postService) DeleteComment(userID string, isAdmin bool, id string) error {
	comment, err := s.repo.GetCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if !comment.IsOwner(userID) && !isAdmin {
		return ErrNotOwner
	}
	return s.repo.DeleteComment(id)
}

func (s *postService) feedKey(limit int) string {
	return fmt.Sprintf("%s:%d", feedCacheKey, limit)
}

func (s *postService) invalidateFeed() {
	if err := s.cache.InvalidatePattern(context.Background(), feedCacheKey+":*"); err != nil {
		logger.Log.Warn("Failed to invalidate feed cache", zap.Error(err))
	}
}

func (s *postService) enqueueCleanup(url string) {
	if url == "" || s.janitor == nil || uploader.GlobalUploader == nil {
		return
	}
	s.janitor.Enqueue(uploader.GlobalUploader.ObjectKeyFromURL(url))
}
