package model

import (
	"time"

	baseModel "penned/pkg/model"
)

// SubscriptionRecord 审批历史，只追加不修改
type SubscriptionRecord struct {
	baseModel.BaseModel
	UserID     string `gorm:"type:uuid;index;not null" json:"userId"`
	ReceiptURL string `gorm:"not null" json:"receiptUrl"`
	Approved   bool   `gorm:"not null" json:"approved"`
	DecidedBy  string `gorm:"type:uuid;not null" json:"decidedBy"`
	Note       string `json:"note,omitempty"`
}

// StatusView 当前用户的订阅状态视图
type StatusView struct {
	Subscribed       bool       `json:"subscribed"`
	SubscriptionDate *time.Time `json:"subscriptionDate,omitempty"`
	ReceiptPending   bool       `json:"receiptPending"`
}

// PendingReceipt 管理员审批队列中的一项
type PendingReceipt struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	ReceiptURL  string    `json:"receiptUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
