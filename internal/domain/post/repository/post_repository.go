package repository

import (
	"errors"
	"time"

	"penned/internal/domain/post/model"
	userModel "penned/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUpvoterNotFound 点赞方用户行不存在，与文章缺失区分开
var ErrUpvoterNotFound = errors.New("upvoting user not found")

// PostRepository 文章/博客/评论仓库
type PostRepository interface {
	// Post
	CreatePost(post *model.Post) error
	GetPostByID(id string) (*model.Post, error)
	ListPosts(after *FeedCursor, limit int) ([]model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id, ownerID string) error
	ToggleUpvote(userID, postID string) (added bool, upvotes int, err error)
	SearchPosts(keyword string, limit int) ([]model.Post, error)

	// Blog
	CreateBlog(blog *model.Blog) error
	GetBlogByID(id string) (*model.Blog, error)
	GetBlogList(offset, limit int) ([]model.Blog, int64, error)
	UpdateBlog(blog *model.Blog) error
	DeleteBlog(id string) error
	SearchBlogs(keyword string, limit int) ([]model.Blog, error)

	// Comment
	CreateComment(comment *model.Comment) error
	GetCommentByID(id string) (*model.Comment, error)
	GetCommentsByPost(postID string, offset, limit int) ([]model.Comment, int64, error)
	DeleteComment(id string) error
}

// FeedCursor 信息流游标，按 (created_at, id) 键集翻页
type FeedCursor struct {
	CreatedAt time.Time
	ID        string
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建仓库实例
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreatePost 创建文章，同事务维护作者的 posts 集合
func (r *postRepository) CreatePost(post *model.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		var owner userModel.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", post.CreatedBy).First(&owner).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.User{}).Where("id = ?", owner.ID).
			Update("posts", owner.Posts.Add(post.ID)).Error
	})
}

// GetPostByID 根据ID获取文章
func (r *postRepository) GetPostByID(id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts 信息流查询：创建时间倒序，游标之后取 limit 条
// 游标落在末尾之后时自然返回空列表
func (r *postRepository) ListPosts(after *FeedCursor, limit int) ([]model.Post, error) {
	var posts []model.Post
	query := r.db.Model(&model.Post{}).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if after != nil {
		query = query.Where("(created_at, id) < (?, ?)", after.CreatedAt, after.ID)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost 更新文章
func (r *postRepository) UpdatePost(post *model.Post) error {
	return r.db.Save(post).Error
}

// DeletePost 删除文章，同事务清理作者集合与评论
func (r *postRepository) DeletePost(id, ownerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		var owner userModel.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ownerID).First(&owner).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.User{}).Where("id = ?", owner.ID).
			Update("posts", owner.Posts.Remove(id)).Error
	})
}

// ToggleUpvote 点赞开关
// 单事务完成：固定加锁顺序（先 user 后 post）防死锁，
// 集合翻转与计数增减必须一起提交，计数器不在事务外变更
func (r *postRepository) ToggleUpvote(userID, postID string) (bool, int, error) {
	var added bool
	var upvotes int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user userModel.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUpvoterNotFound
			}
			return err
		}

		var post model.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}

		if user.UpvotedPosts.Has(postID) {
			user.UpvotedPosts = user.UpvotedPosts.Remove(postID)
			post.Upvotes--
			added = false
		} else {
			user.UpvotedPosts = user.UpvotedPosts.Add(postID)
			post.Upvotes++
			added = true
		}

		if err := tx.Model(&userModel.User{}).Where("id = ?", userID).
			Update("upvoted_posts", user.UpvotedPosts).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).
			Update("upvotes", post.Upvotes).Error; err != nil {
			return err
		}

		upvotes = post.Upvotes
		return nil
	})
	return added, upvotes, err
}

// SearchPosts 管理后台标题模糊搜索
func (r *postRepository) SearchPosts(keyword string, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("title ILIKE ?", "%"+keyword+"%").
		Limit(limit).Find(&posts).Error
	return posts, err
}

// CreateBlog 创建博客
func (r *postRepository) CreateBlog(blog *model.Blog) error {
	return r.db.Create(blog).Error
}

// GetBlogByID 根据ID获取博客
func (r *postRepository) GetBlogByID(id string) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// GetBlogList 博客列表（分页）
func (r *postRepository) GetBlogList(offset, limit int) ([]model.Blog, int64, error) {
	var blogs []model.Blog
	var total int64

	if err := r.db.Model(&model.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Order("created_at desc").Offset(offset).Limit(limit).Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// UpdateBlog 更新博客
func (r *postRepository) UpdateBlog(blog *model.Blog) error {
	return r.db.Save(blog).Error
}

// DeleteBlog 删除博客
func (r *postRepository) DeleteBlog(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Blog{}).Error
}

// SearchBlogs 管理后台标题模糊搜索
func (r *postRepository) SearchBlogs(keyword string, limit int) ([]model.Blog, error) {
	var blogs []model.Blog
	err := r.db.Where("title ILIKE ?", "%"+keyword+"%").
		Limit(limit).Find(&blogs).Error
	return blogs, err
}

// CreateComment 创建评论
func (r *postRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID 根据ID获取评论
func (r *postRepository) GetCommentByID(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPost 文章评论列表（时间正序分页）
func (r *postRepository) GetCommentsByPost(postID string, offset, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	if err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Where("post_id = ?", postID).
		Order("created_at asc").Offset(offset).Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// DeleteComment 删除评论
func (r *postRepository) DeleteComment(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Comment{}).Error
}
