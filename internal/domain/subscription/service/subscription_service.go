package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"penned/internal/domain/subscription/model"
	"penned/internal/domain/subscription/repository"
	"penned/internal/pkg/mailer"
	"penned/internal/pkg/push"
	"penned/internal/pkg/uploader"
	"penned/internal/pkg/worker"
	"penned/pkg/logger"
	"penned/pkg/metrics"
	"penned/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNoPendingReceipt = errors.New("no pending receipt for this user")
)

// SubscriptionService 订阅服务接口
type SubscriptionService interface {
	UploadReceipt(userID string, file *multipart.FileHeader) (string, error)
	GetStatus(userID string) (*model.StatusView, error)
	GetHistory(userID string, page, limit int) ([]model.SubscriptionRecord, int64, error)

	ListPending(page, limit int) ([]model.PendingReceipt, int64, error)
	Approve(userID, adminID string) (*model.SubscriptionRecord, error)
	Reject(userID, adminID, note string) (*model.SubscriptionRecord, error)
}

type subscriptionService struct {
	repo    repository.SubscriptionRepository
	mail    mailer.Mailer
	janitor *worker.Janitor
	now     func() time.Time
}

// NewSubscriptionService 创建订阅服务
func NewSubscriptionService(repo repository.SubscriptionRepository, mail mailer.Mailer, janitor *worker.Janitor) SubscriptionService {
	return &subscriptionService{
		repo:    repo,
		mail:    mail,
		janitor: janitor,
		now:     time.Now,
	}
}

// UploadReceipt 上传付款收据，类型与大小在发起存储调用前校验
// 重复上传会替换旧收据，旧对象异步清理
func (s *subscriptionService) UploadReceipt(userID string, file *multipart.FileHeader) (string, error) {
	collector := metrics.GetGlobalCollector()

	if err := uploader.ValidateFile(file); err != nil {
		collector.RecordUpload("rejected")
		return "", err
	}

	url, err := uploader.GlobalUploader.UploadFile(fmt.Sprintf("receipts/%s", userID), file)
	if err != nil {
		collector.RecordUpload("error")
		return "", err
	}
	collector.RecordUpload("ok")

	old, err := s.repo.SetPendingReceipt(userID, url)
	if err != nil {
		// 用户状态写入失败，刚上传的对象立即回收，不留孤儿
		s.enqueueCleanup(url)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if old != "" && old != url {
		s.enqueueCleanup(old)
	}
	return url, nil
}

// GetStatus 当前订阅状态，subscribed 为派生值
func (s *subscriptionService) GetStatus(userID string) (*model.StatusView, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &model.StatusView{
		Subscribed:       user.Subscribed(s.now()),
		SubscriptionDate: user.SubscriptionDate,
		ReceiptPending:   user.PendingReceiptURL != "",
	}, nil
}

// GetHistory 用户审批历史
func (s *subscriptionService) GetHistory(userID string, page, limit int) ([]model.SubscriptionRecord, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetRecordsByUser(userID, offset, limit)
}

// ListPending 管理员审批队列
func (s *subscriptionService) ListPending(page, limit int) ([]model.PendingReceipt, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()

	users, total, err := s.repo.ListPending(offset, limit)
	if err != nil {
		return nil, 0, err
	}

	pending := make([]model.PendingReceipt, 0, len(users))
	for _, u := range users {
		pending = append(pending, model.PendingReceipt{
			UserID:      u.ID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			ReceiptURL:  u.PendingReceiptURL,
			UploadedAt:  u.UpdatedAt,
		})
	}
	return pending, total, nil
}

// Approve 批准收据：订阅期从批准时刻起算 30 天
func (s *subscriptionService) Approve(userID, adminID string) (*model.SubscriptionRecord, error) {
	return s.decide(userID, adminID, true, "")
}

// Reject 拒绝收据，收据对象随之清理
func (s *subscriptionService) Reject(userID, adminID, note string) (*model.SubscriptionRecord, error) {
	return s.decide(userID, adminID, false, note)
}

func (s *subscriptionService) decide(userID, adminID string, approve bool, note string) (*model.SubscriptionRecord, error) {
	user, record, err := s.repo.Decide(userID, adminID, approve, note, s.now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrNoPendingReceipt):
			return nil, ErrNoPendingReceipt
		}
		return nil, err
	}

	decision := "rejected"
	if approve {
		decision = "approved"
	}
	metrics.GetGlobalCollector().RecordReceiptDecision(decision)

	// 拒绝后收据对象不再被引用；批准的收据保留在审批记录里供追溯
	if !approve {
		s.enqueueCleanup(record.ReceiptURL)
	}

	// 通知尽力而为，失败不回滚审批
	go s.notify(user.ID, user.Email, approve)

	return record, nil
}

func (s *subscriptionService) notify(userID, email string, approved bool) {
	if err := s.mail.SendReceiptDecisionEmail(email, approved); err != nil {
		logger.Log.Error("Failed to send receipt decision email",
			zap.String("user", userID), zap.Error(err))
	}

	if push.GlobalPushService != nil {
		title := "Receipt rejected"
		body := "Your payment receipt could not be verified."
		if approved {
			title = "Subscription active"
			body = "Your receipt was approved. Enjoy 30 days of full access."
		}
		if err := push.GlobalPushService.PushToAccount(userID, title, body, nil); err != nil {
			logger.Log.Warn("Failed to push receipt decision",
				zap.String("user", userID), zap.Error(err))
		}
	}
}

func (s *subscriptionService) enqueueCleanup(url string) {
	if url == "" || s.janitor == nil || uploader.GlobalUploader == nil {
		return
	}
	s.janitor.Enqueue(uploader.GlobalUploader.ObjectKeyFromURL(url))
}
