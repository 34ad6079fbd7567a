package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	baseModel "penned/pkg/model"
)

// 角色
const (
	RoleUser  = 1
	RoleAdmin = 2
)

// SubscriptionWindow 订阅有效期：管理员批准收据后 30 天
const SubscriptionWindow = 30 * 24 * time.Hour

// User 用户模型
type User struct {
	baseModel.BaseModel
	Email         string `gorm:"unique;not null" json:"email"`
	PasswordHash  string `json:"-"` // 密码散列不返回给前端
	DisplayName   string `json:"displayName"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatarUrl"`
	Role          int    `gorm:"default:1" json:"role"`
	EmailVerified bool   `gorm:"default:false" json:"emailVerified"`

	// 订阅状态：subscribed 永远是派生值，不落库
	SubscriptionDate  *time.Time `json:"subscriptionDate,omitempty"`
	PendingReceiptURL string     `json:"pendingReceiptUrl,omitempty"`

	// 文档引用集合，存储为 jsonb 数组，域内按集合语义操作
	UpvotedPosts IDSet `gorm:"type:jsonb;default:'[]'" json:"upvotedPosts"`
	Posts        IDSet `gorm:"type:jsonb;default:'[]'" json:"posts"`
	Series       IDSet `gorm:"type:jsonb;default:'[]'" json:"series"`
}

// SubscriptionActive 订阅状态派生：subscriptionDate 存在且距 now 不超过 30 天
// now 由调用方注入，便于测试
func SubscriptionActive(subscriptionDate *time.Time, now time.Time) bool {
	if subscriptionDate == nil {
		return false
	}
	return now.Sub(*subscriptionDate) <= SubscriptionWindow
}

// Subscribed 当前时刻的订阅状态
func (u *User) Subscribed(now time.Time) bool {
	return SubscriptionActive(u.SubscriptionDate, now)
}

// IsAdmin 管理员判断的唯一入口
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IDSet 文档 ID 集合
// 存储层序列化为 JSON 数组，域内保证无重复
type IDSet []string

// Has 判断成员资格
func (s IDSet) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add 并集添加，已存在时为 no-op
func (s IDSet) Add(id string) IDSet {
	if s.Has(id) {
		return s
	}
	return append(s, id)
}

// Remove 移除成员，不存在时为 no-op
func (s IDSet) Remove(id string) IDSet {
	for i, v := range s {
		if v == id {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

// Value 实现 driver.Valuer，序列化为 jsonb
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (s *IDSet) Scan(src interface{}) error {
	if src == nil {
		*s = IDSet{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for IDSet")
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = IDSet(out)
	return nil
}

// ProfileView 返回给前端的用户视图，带派生的订阅状态
type ProfileView struct {
	User
	Subscribed bool `json:"subscribed"`
}

// NewProfileView 构造用户视图
func NewProfileView(u *User, now time.Time) *ProfileView {
	return &ProfileView{User: *u, Subscribed: u.Subscribed(now)}
}
