package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 基础模型，使用 UUID 作为主键
type BaseModel struct {
	ID        string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// BeforeCreate 钩子：生成 UUID
func (b *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

// OwnedModel 带归属的基础模型：所有用户创建的文档都记录 createdBy
type OwnedModel struct {
	BaseModel
	CreatedBy string `gorm:"type:uuid;index" json:"createdBy"`
}

// IsOwner 判断操作者是否为文档创建者
func (o *OwnedModel) IsOwner(userID string) bool {
	return o.CreatedBy != "" && o.CreatedBy == userID
}
