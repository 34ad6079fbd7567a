package repository

import (
	"errors"
	"time"

	"penned/internal/domain/subscription/model"
	userModel "penned/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoPendingReceipt 用户没有待审批的收据
var ErrNoPendingReceipt = errors.New("no pending receipt for this user")

// SubscriptionRepository 订阅仓库
type SubscriptionRepository interface {
	// SetPendingReceipt 写入待审收据，返回被替换的旧收据 URL
	SetPendingReceipt(userID, url string) (old string, err error)
	GetUser(userID string) (*userModel.User, error)
	ListPending(offset, limit int) ([]userModel.User, int64, error)
	// Decide 审批：单事务内重读并锁定用户行，写用户状态与审批记录
	Decide(userID, adminID string, approve bool, note string, now time.Time) (*userModel.User, *model.SubscriptionRecord, error)
	GetRecordsByUser(userID string, offset, limit int) ([]model.SubscriptionRecord, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建仓库实例
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// SetPendingReceipt 设置待审收据，重复上传时替换
func (r *subscriptionRepository) SetPendingReceipt(userID, url string) (string, error) {
	var old string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user userModel.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		old = user.PendingReceiptURL
		return tx.Model(&userModel.User{}).Where("id = ?", userID).
			Update("pending_receipt_url", url).Error
	})
	if err != nil {
		return "", err
	}
	return old, nil
}

// GetUser 读取用户
func (r *subscriptionRepository) GetUser(userID string) (*userModel.User, error) {
	var user userModel.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPending 待审批队列，按上传时间先到先审
func (r *subscriptionRepository) ListPending(offset, limit int) ([]userModel.User, int64, error) {
	var users []userModel.User
	var total int64

	query := r.db.Model(&userModel.User{}).Where("pending_receipt_url <> ''")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("updated_at asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Decide 审批收据
// 事务内 FOR UPDATE 重读，避免两个管理员同时审批同一收据；
// 用户状态变更与审批记录写入一起提交
func (r *subscriptionRepository) Decide(userID, adminID string, approve bool, note string, now time.Time) (*userModel.User, *model.SubscriptionRecord, error) {
	var user userModel.User
	var record *model.SubscriptionRecord

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if user.PendingReceiptURL == "" {
			return ErrNoPendingReceipt
		}

		record = &model.SubscriptionRecord{
			UserID:     userID,
			ReceiptURL: user.PendingReceiptURL,
			Approved:   approve,
			DecidedBy:  adminID,
			Note:       note,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		fields := map[string]interface{}{"pending_receipt_url": ""}
		if approve {
			fields["subscription_date"] = now
			user.SubscriptionDate = &now
		}
		user.PendingReceiptURL = ""

		return tx.Model(&userModel.User{}).Where("id = ?", userID).Updates(fields).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, record, nil
}

// GetRecordsByUser 用户的审批历史
func (r *subscriptionRepository) GetRecordsByUser(userID string, offset, limit int) ([]model.SubscriptionRecord, int64, error) {
	var records []model.SubscriptionRecord
	var total int64

	if err := r.db.Model(&model.SubscriptionRecord{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
