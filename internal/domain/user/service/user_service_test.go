package service

import (
	"context"
	"os"
	"testing"
	"time"

	"penned/internal/domain/user/model"
	"penned/internal/pkg/config"
	"penned/pkg/cache"
	"penned/pkg/logger"
	"penned/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init("debug", true)
	config.GlobalConfig.JWT.Secret = "test-secret-key-that-is-long-enough-123"
	config.GlobalConfig.JWT.Expire = 24
	config.GlobalConfig.App.AdminEmails = []string{"admin@penned.app"}
	os.Exit(m.Run())
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) SearchByEmail(keyword string, limit int) ([]model.User, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTokenService is a mock of verify.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueEmailToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ConsumeEmailToken(token string) (string, bool) {
	args := m.Called(token)
	return args.String(0), args.Bool(1)
}

func (m *MockTokenService) IssueResetToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ConsumeResetToken(token string) (string, bool) {
	args := m.Called(token)
	return args.String(0), args.Bool(1)
}

// MockMailer is a mock of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(to, token string) error {
	args := m.Called(to, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(to, token string) error {
	args := m.Called(to, token)
	return args.Error(0)
}

func (m *MockMailer) SendReceiptDecisionEmail(to string, approved bool) error {
	args := m.Called(to, approved)
	return args.Error(0)
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

func newTestService() (*MockUserRepository, *MockTokenService, *MockMailer, *MockCache, UserService) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenService)
	mockMail := new(MockMailer)
	mockCache := new(MockCache)
	service := NewUserService(mockRepo, mockTokens, mockMail, mockCache)
	return mockRepo, mockTokens, mockMail, mockCache, service
}

func createVerifiedUser(id, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		Email:         email,
		PasswordHash:  string(hash),
		DisplayName:   "TestUser",
		Role:          model.RoleUser,
		EmailVerified: true,
	}
	user.ID = id
	return user
}

func TestRegister(t *testing.T) {
	t.Run("New registration success", func(t *testing.T) {
		mockRepo, mockTokens, mockMail, _, service := newTestService()

		mockRepo.On("GetByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
		mockTokens.On("IssueEmailToken", mock.AnythingOfType("string")).Return("tok", nil)
		mockMail.On("SendVerificationEmail", "new@example.com", "tok").Return(nil).Maybe()

		user, err := service.Register("new@example.com", "password123", "Newbie")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.False(t, user.EmailVerified)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Admin allowlist maps role", func(t *testing.T) {
		mockRepo, mockTokens, mockMail, _, service := newTestService()

		mockRepo.On("GetByEmail", "admin@penned.app").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
		mockTokens.On("IssueEmailToken", mock.AnythingOfType("string")).Return("tok", nil)
		mockMail.On("SendVerificationEmail", "admin@penned.app", "tok").Return(nil).Maybe()

		user, err := service.Register("admin@penned.app", "password123", "Admin")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		existing := createVerifiedUser("u1", "taken@example.com", "password123")
		mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil)

		_, err := service.Register("taken@example.com", "password123", "Dup")

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success returns token and profile", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		user := createVerifiedUser("u1", "user@example.com", "password123")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		token, profile, err := service.Login("user@example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", profile.ID)
		assert.False(t, profile.Subscribed)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		user := createVerifiedUser("u1", "user@example.com", "password123")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		_, _, err := service.Login("user@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email maps to invalid credentials", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login("ghost@example.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unverified email blocked", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		user := createVerifiedUser("u1", "user@example.com", "password123")
		user.EmailVerified = false
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		_, _, err := service.Login("user@example.com", "password123")

		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("Allowlisted email promoted on login", func(t *testing.T) {
		mockRepo, _, _, mockCache, service := newTestService()

		// 注册时不在名单里的老账号，名单更新后登录应拿到管理员角色
		user := createVerifiedUser("u1", "admin@penned.app", "password123")
		mockRepo.On("GetByEmail", "admin@penned.app").Return(user, nil)
		mockRepo.On("UpdateFields", "u1", map[string]interface{}{"role": model.RoleAdmin}).Return(nil)
		mockCache.On("Delete", mock.Anything, "user:u1").Return(nil)

		token, _, err := service.Login("admin@penned.app", "password123")

		assert.NoError(t, err)
		claims, err := utils.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Admin role not re-written on every login", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		user := createVerifiedUser("u1", "admin@penned.app", "password123")
		user.Role = model.RoleAdmin
		mockRepo.On("GetByEmail", "admin@penned.app").Return(user, nil)

		_, _, err := service.Login("admin@penned.app", "password123")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
	})

	t.Run("Subscriber profile carries derived flag", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		recent := time.Now().Add(-24 * time.Hour)
		user := createVerifiedUser("u1", "sub@example.com", "password123")
		user.SubscriptionDate = &recent
		mockRepo.On("GetByEmail", "sub@example.com").Return(user, nil)

		_, profile, err := service.Login("sub@example.com", "password123")

		assert.NoError(t, err)
		assert.True(t, profile.Subscribed)
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("Valid token marks verified", func(t *testing.T) {
		mockRepo, mockTokens, _, mockCache, service := newTestService()

		mockTokens.On("ConsumeEmailToken", "tok").Return("u1", true)
		mockRepo.On("UpdateFields", "u1", map[string]interface{}{"email_verified": true}).Return(nil)
		mockCache.On("Delete", mock.Anything, "user:u1").Return(nil)

		err := service.VerifyEmail("tok")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		_, mockTokens, _, _, service := newTestService()

		mockTokens.On("ConsumeEmailToken", "stale").Return("", false)

		err := service.VerifyEmail("stale")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Cache miss falls through to repository", func(t *testing.T) {
		mockRepo, _, _, mockCache, service := newTestService()

		user := createVerifiedUser("u1", "user@example.com", "password123")
		mockCache.On("Get", mock.Anything, "user:u1", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByID", "u1").Return(user, nil)
		mockCache.On("Set", mock.Anything, "user:u1", user, mock.Anything).Return(nil)

		result, err := service.GetUser("u1")

		assert.NoError(t, err)
		assert.Equal(t, "u1", result.ID)
		mockCache.AssertExpectations(t)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockRepo, _, _, mockCache, service := newTestService()

		mockCache.On("Get", mock.Anything, "user:missing", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetUser("missing")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGetUsers(t *testing.T) {
	t.Run("Defaults applied", func(t *testing.T) {
		mockRepo, _, _, _, service := newTestService()

		users := []model.User{*createVerifiedUser("u1", "a@example.com", "p12345678")}
		mockRepo.On("GetList", 0, 10).Return(users, int64(1), nil)

		result, total, err := service.GetUsers(0, 0)

		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, int64(1), total)
		mockRepo.AssertExpectations(t)
	})
}
