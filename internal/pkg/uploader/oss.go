package uploader

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"penned/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// MaxFileSize 上传大小上限 (5MB)
const MaxFileSize = 5 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds 5MB limit")
	ErrUnsupportedType = errors.New("only PNG and JPEG images are allowed")
)

// 允许的图片类型，按 Content-Type 和扩展名双重校验
var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type Uploader interface {
	UploadFile(prefix string, file *multipart.FileHeader) (string, error)
	DeleteObject(key string) error
	ObjectKeyFromURL(url string) string
}

// ValidateFile 在发起任何网络调用之前校验类型和大小
func ValidateFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	if !allowedExts[strings.ToLower(filepath.Ext(file.Filename))] {
		return ErrUnsupportedType
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !allowedTypes[ct] {
		return ErrUnsupportedType
	}
	return nil
}

type AliyunOSSUploader struct {
	client *oss.Client
	bucket *oss.Bucket
	config config.StorageConfig
}

func NewAliyunOSSUploader() (*AliyunOSSUploader, error) {
	cfg := config.GlobalConfig.Storage
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadFile 上传文件，对象路径为 {prefix}/YYYYMMDD/uuid.ext
// prefix 与所属集合对应 (posts, series, jobs, courses, competitions, receipts/{uid})
func (u *AliyunOSSUploader) UploadFile(prefix string, file *multipart.FileHeader) (string, error) {
	if err := ValidateFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	key := fmt.Sprintf("%s/%s/%s%s", strings.Trim(prefix, "/"), time.Now().Format("20060102"), uuid.New().String(), ext)

	if err := u.bucket.PutObject(key, src); err != nil {
		return "", err
	}

	// 假设 bucket 为 public-read 或走 CDN，私有 bucket 需要签名 URL
	url := fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key)
	return url, nil
}

// DeleteObject 删除存储对象，由 janitor 在文档删除后调用
func (u *AliyunOSSUploader) DeleteObject(key string) error {
	if key == "" {
		return nil
	}
	return u.bucket.DeleteObject(key)
}

// ObjectKeyFromURL 从公开 URL 还原对象 key，非本 bucket 的 URL 返回空
func (u *AliyunOSSUploader) ObjectKeyFromURL(url string) string {
	base := fmt.Sprintf("https://%s.%s/", u.config.BucketName, u.config.Endpoint)
	if !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}

// GlobalUploader instance
var GlobalUploader Uploader

func InitUploader() error {
	uploader, err := NewAliyunOSSUploader()
	if err != nil {
		return err
	}
	GlobalUploader = uploader
	return nil
}
