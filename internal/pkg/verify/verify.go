package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenService 邮箱验证和密码重置令牌
// 令牌存 Redis，带 TTL，验证成功后立即删除防止重放
type TokenService interface {
	IssueEmailToken(userID string) (string, error)
	ConsumeEmailToken(token string) (string, bool)
	IssueResetToken(userID string) (string, error)
	ConsumeResetToken(token string) (string, bool)
}

const (
	emailTokenTTL = 24 * time.Hour
	resetTokenTTL = time.Hour
)

type tokenService struct {
	rdb *redis.Client
}

func NewTokenService(rdb *redis.Client) TokenService {
	return &tokenService{rdb: rdb}
}

func (s *tokenService) issue(kind, userID string, ttl time.Duration) (string, error) {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	key := fmt.Sprintf("%s:%s", kind, token)
	if err := s.rdb.Set(context.Background(), key, userID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *tokenService) consume(kind, token string) (string, bool) {
	key := fmt.Sprintf("%s:%s", kind, token)
	userID, err := s.rdb.Get(context.Background(), key).Result()
	if err != nil {
		return "", false
	}
	s.rdb.Del(context.Background(), key)
	return userID, true
}

// IssueEmailToken 生成邮箱验证令牌 (24小时有效)
func (s *tokenService) IssueEmailToken(userID string) (string, error) {
	return s.issue("verify", userID, emailTokenTTL)
}

// ConsumeEmailToken 校验并销毁邮箱验证令牌，返回对应的用户 ID
func (s *tokenService) ConsumeEmailToken(token string) (string, bool) {
	return s.consume("verify", token)
}

// IssueResetToken 生成密码重置令牌 (1小时有效)
func (s *tokenService) IssueResetToken(userID string) (string, error) {
	return s.issue("reset", userID, resetTokenTTL)
}

// ConsumeResetToken 校验并销毁密码重置令牌
func (s *tokenService) ConsumeResetToken(token string) (string, bool) {
	return s.consume("reset", token)
}
