package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"penned/internal/domain/post/model"
	"penned/internal/domain/post/repository"
	userModel "penned/internal/domain/user/model"
	"penned/pkg/cache"
	"penned/pkg/logger"
	"penned/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init("debug", true)
	os.Exit(m.Run())
}

// MockPostRepository is a mock of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(id string) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListPosts(after *repository.FeedCursor, limit int) ([]model.Post, error) {
	args := m.Called(after, limit)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) UpdatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) DeletePost(id, ownerID string) error {
	args := m.Called(id, ownerID)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleUpvote(userID, postID string) (bool, int, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) SearchPosts(keyword string, limit int) ([]model.Post, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) CreateBlog(blog *model.Blog) error {
	args := m.Called(blog)
	return args.Error(0)
}

func (m *MockPostRepository) GetBlogByID(id string) (*model.Blog, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockPostRepository) GetBlogList(offset, limit int) ([]model.Blog, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) UpdateBlog(blog *model.Blog) error {
	args := m.Called(blog)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteBlog(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) SearchBlogs(keyword string, limit int) ([]model.Blog, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]model.Blog), args.Error(1)
}

func (m *MockPostRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockPostRepository) GetCommentByID(id string) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPostRepository) GetCommentsByPost(postID string, offset, limit int) ([]model.Comment, int64, error) {
	args := m.Called(postID, offset, limit)
	return args.Get(0).([]model.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) DeleteComment(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockUserRepo 只为评论作者名解析
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *userModel.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*userModel.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepo) GetList(offset, limit int) ([]userModel.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]userModel.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) Update(user *userModel.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateFields(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *MockUserRepo) SearchByEmail(keyword string, limit int) ([]userModel.User, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]userModel.User), args.Error(1)
}

// MockCache is a mock of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) InvalidatePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func newTestService() (*MockPostRepository, *MockUserRepo, *MockCache, PostService) {
	mockRepo := new(MockPostRepository)
	mockUsers := new(MockUserRepo)
	mockCache := new(MockCache)
	service := NewPostService(mockRepo, mockUsers, mockCache, nil)
	return mockRepo, mockUsers, mockCache, service
}

func createTestPost(id, owner string, upvotes int) *model.Post {
	post := &model.Post{Title: "T", Content: "C", Upvotes: upvotes}
	post.ID = id
	post.CreatedBy = owner
	post.CreatedAt = time.Now()
	return post
}

func TestToggleUpvote(t *testing.T) {
	t.Run("Adds upvote", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		mockRepo.On("ToggleUpvote", "u1", "p1").Return(true, 5, nil).Once()

		result, err := service.ToggleUpvote("u1", "p1")

		assert.NoError(t, err)
		assert.True(t, result.Added)
		assert.Equal(t, 5, result.Upvotes)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Second toggle removes", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		mockRepo.On("ToggleUpvote", "u1", "p1").Return(false, 4, nil).Once()

		result, err := service.ToggleUpvote("u1", "p1")

		assert.NoError(t, err)
		assert.False(t, result.Added)
		assert.Equal(t, 4, result.Upvotes)
	})

	t.Run("Retries serialization conflict then succeeds", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		conflict := errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")
		mockRepo.On("ToggleUpvote", "u1", "p1").Return(false, 0, conflict).Times(2)
		mockRepo.On("ToggleUpvote", "u1", "p1").Return(true, 1, nil).Once()

		result, err := service.ToggleUpvote("u1", "p1")

		assert.NoError(t, err)
		assert.True(t, result.Added)
		mockRepo.AssertNumberOfCalls(t, "ToggleUpvote", 3)
	})

	t.Run("Gives up after bounded retries", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		conflict := errors.New("deadlock detected")
		mockRepo.On("ToggleUpvote", "u1", "p1").Return(false, 0, conflict)

		_, err := service.ToggleUpvote("u1", "p1")

		assert.Error(t, err)
		// 首次尝试 + 3 次重试
		mockRepo.AssertNumberOfCalls(t, "ToggleUpvote", 4)
	})

	t.Run("Missing post is not retried", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		mockRepo.On("ToggleUpvote", "u1", "missing").Return(false, 0, gorm.ErrRecordNotFound).Once()

		_, err := service.ToggleUpvote("u1", "missing")

		assert.ErrorIs(t, err, ErrPostNotFound)
		mockRepo.AssertNumberOfCalls(t, "ToggleUpvote", 1)
	})

	t.Run("Missing user surfaces its own error", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		mockRepo.On("ToggleUpvote", "ghost", "p1").Return(false, 0, repository.ErrUpvoterNotFound).Once()

		_, err := service.ToggleUpvote("ghost", "p1")

		assert.ErrorIs(t, err, ErrUpvoterNotFound)
		assert.NotErrorIs(t, err, ErrPostNotFound)
		mockRepo.AssertNumberOfCalls(t, "ToggleUpvote", 1)
	})
}

func TestGetFeed(t *testing.T) {
	t.Run("Full page returns next cursor", func(t *testing.T) {
		mockRepo, _, mockCache, service := newTestService()

		posts := []model.Post{*createTestPost("p1", "u1", 0), *createTestPost("p2", "u1", 0)}
		mockCache.On("Get", mock.Anything, "feed:first:2", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("ListPosts", (*repository.FeedCursor)(nil), 2).Return(posts, nil)
		mockCache.On("Set", mock.Anything, "feed:first:2", mock.Anything, mock.Anything).Return(nil)

		result, err := service.GetFeed("", 2)

		assert.NoError(t, err)
		assert.NotEmpty(t, result.NextCursor)
	})

	t.Run("Short page ends pagination", func(t *testing.T) {
		mockRepo, _, mockCache, service := newTestService()

		posts := []model.Post{*createTestPost("p1", "u1", 0)}
		mockCache.On("Get", mock.Anything, "feed:first:5", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("ListPosts", (*repository.FeedCursor)(nil), 5).Return(posts, nil)
		mockCache.On("Set", mock.Anything, "feed:first:5", mock.Anything, mock.Anything).Return(nil)

		result, err := service.GetFeed("", 5)

		assert.NoError(t, err)
		assert.Empty(t, result.NextCursor)
	})

	t.Run("Cursor beyond end yields empty list", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		cursor := utils.EncodeCursor(time.Now().Add(-time.Hour), "p-last")
		mockRepo.On("ListPosts", mock.AnythingOfType("*repository.FeedCursor"), 5).Return([]model.Post{}, nil)

		result, err := service.GetFeed(cursor, 5)

		assert.NoError(t, err)
		assert.Empty(t, result.NextCursor)
		assert.Len(t, result.List, 0)
	})

	t.Run("Invalid cursor rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		_, err := service.GetFeed("garbage!!", 5)

		assert.ErrorIs(t, err, utils.ErrInvalidCursor)
	})
}

func TestPostPermissions(t *testing.T) {
	t.Run("Stranger cannot update", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		mockRepo.On("GetPostByID", "p1").Return(createTestPost("p1", "owner", 0), nil)

		_, err := service.UpdatePost("stranger", false, "p1", "T2", "C2", "")

		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("Admin can delete any post", func(t *testing.T) {
		mockRepo, _, mockCache, service := newTestService()

		mockRepo.On("GetPostByID", "p1").Return(createTestPost("p1", "owner", 0), nil)
		mockRepo.On("DeletePost", "p1", "owner").Return(nil)
		mockCache.On("InvalidatePattern", mock.Anything, "feed:first:*").Return(nil)

		err := service.DeletePost("someadmin", true, "p1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Owner deletes own post", func(t *testing.T) {
		mockRepo, _, mockCache, service := newTestService()

		mockRepo.On("GetPostByID", "p1").Return(createTestPost("p1", "owner", 0), nil)
		mockRepo.On("DeletePost", "p1", "owner").Return(nil)
		mockCache.On("InvalidatePattern", mock.Anything, "feed:first:*").Return(nil)

		err := service.DeletePost("owner", false, "p1")

		assert.NoError(t, err)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("Author name denormalized from profile", func(t *testing.T) {
		mockRepo, mockUsers, _, service := newTestService()

		mockRepo.On("GetPostByID", "p1").Return(createTestPost("p1", "owner", 0), nil)
		author := &userModel.User{DisplayName: "Ada"}
		author.ID = "u1"
		mockUsers.On("GetByID", "u1").Return(author, nil)
		mockRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Return(nil)

		comment, err := service.AddComment("u1", "p1", "nice read")

		assert.NoError(t, err)
		assert.Equal(t, "Ada", comment.AuthorName)
		assert.Equal(t, "p1", comment.PostID)
	})

	t.Run("Comment on missing post rejected", func(t *testing.T) {
		mockRepo, _, _, service := newTestService()

		mockRepo.On("GetPostByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.AddComment("u1", "missing", "text")

		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}
