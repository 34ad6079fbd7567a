package service

import (
	"context"
	"errors"
	"time"

	"penned/internal/domain/user/model"
	"penned/internal/domain/user/repository"
	"penned/internal/pkg/config"
	"penned/internal/pkg/mailer"
	"penned/internal/pkg/verify"
	"penned/pkg/cache"
	"penned/pkg/logger"
	"penned/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	userCacheKeyPrefix = "user:"
	userCacheTTL       = time.Hour * 2
)

// UserService 用户服务接口
type UserService interface {
	Register(email, password, displayName string) (*model.User, error)
	Login(email, password string) (string, *model.ProfileView, error)
	VerifyEmail(token string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	GetUser(id string) (*model.User, error)
	GetProfile(id string) (*model.ProfileView, error)
	UpdateProfile(id, displayName, bio, avatarURL string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
}

// userService 实现
type userService struct {
	repo   repository.UserRepository
	tokens verify.TokenService
	mail   mailer.Mailer
	cache  cache.CacheService
	now    func() time.Time
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, tokens verify.TokenService, mail mailer.Mailer, c cache.CacheService) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		cache:  c,
		now:    time.Now,
	}
}

// Register 注册：写入用户并发送验证邮件，验证前不能登录
func (s *userService) Register(email, password, displayName string) (*model.User, error) {
	// 1. 邮箱查重
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 散列密码
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 3. 角色来自白名单，登录时还会再复核一次
	role := model.RoleUser
	if config.GlobalConfig.IsAdminEmail(email) {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		UpvotedPosts: model.IDSet{},
		Posts:        model.IDSet{},
		Series:       model.IDSet{},
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	// 4. 发送验证邮件，失败不影响注册结果
	token, err := s.tokens.IssueEmailToken(user.ID)
	if err != nil {
		logger.Log.Error("Failed to issue verification token", zap.String("user", user.ID), zap.Error(err))
		return user, nil
	}
	go func() {
		if err := s.mail.SendVerificationEmail(user.Email, token); err != nil {
			logger.Log.Error("Failed to send verification email", zap.String("user", user.ID), zap.Error(err))
		}
	}()

	return user, nil
}

// Login 登录，要求邮箱已验证
func (s *userService) Login(email, password string) (string, *model.ProfileView, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return "", nil, ErrEmailNotVerified
	}

	// 白名单在登录时复核，名单变更后老账号下次登录即生效
	if user.Role != model.RoleAdmin && config.GlobalConfig.IsAdminEmail(user.Email) {
		if err := s.repo.UpdateFields(user.ID, map[string]interface{}{"role": model.RoleAdmin}); err != nil {
			return "", nil, err
		}
		user.Role = model.RoleAdmin
		s.invalidate(user.ID)
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, model.NewProfileView(user, s.now()), nil
}

// VerifyEmail 消费验证令牌并标记邮箱已验证
func (s *userService) VerifyEmail(token string) error {
	userID, ok := s.tokens.ConsumeEmailToken(token)
	if !ok {
		return ErrInvalidToken
	}
	if err := s.repo.UpdateFields(userID, map[string]interface{}{"email_verified": true}); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// RequestPasswordReset 发送重置邮件
// 对不存在的邮箱也返回成功，避免暴露注册状态
func (s *userService) RequestPasswordReset(email string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := s.tokens.IssueResetToken(user.ID)
	if err != nil {
		return err
	}
	go func() {
		if err := s.mail.SendPasswordResetEmail(user.Email, token); err != nil {
			logger.Log.Error("Failed to send reset email", zap.String("user", user.ID), zap.Error(err))
		}
	}()
	return nil
}

// ResetPassword 消费重置令牌并更新密码
func (s *userService) ResetPassword(token, newPassword string) error {
	userID, ok := s.tokens.ConsumeResetToken(token)
	if !ok {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(userID, map[string]interface{}{"password_hash": string(hash)})
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	var cached model.User
	if err := s.cache.Get(context.Background(), userCacheKeyPrefix+id, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(context.Background(), userCacheKeyPrefix+id, user, userCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache user", zap.String("user", id), zap.Error(err))
	}
	return user, nil
}

// GetProfile 获取带派生订阅状态的用户视图
func (s *userService) GetProfile(id string) (*model.ProfileView, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	return model.NewProfileView(user, s.now()), nil
}

// UpdateProfile 更新资料
func (s *userService) UpdateProfile(id, displayName, bio, avatarURL string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.DisplayName = displayName
	user.Bio = bio
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return user, nil
}

// GetUsers 获取用户列表（分页，管理员）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

func (s *userService) invalidate(id string) {
	if err := s.cache.Delete(context.Background(), userCacheKeyPrefix+id); err != nil {
		logger.Log.Warn("Failed to invalidate user cache", zap.String("user", id), zap.Error(err))
	}
}
