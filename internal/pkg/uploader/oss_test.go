package uploader

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   h,
	}
}

func TestValidateFile(t *testing.T) {
	t.Run("PNG within limit accepted", func(t *testing.T) {
		err := ValidateFile(fileHeader("receipt.png", "image/png", 1024))
		assert.NoError(t, err)
	})

	t.Run("JPEG accepted", func(t *testing.T) {
		err := ValidateFile(fileHeader("photo.JPG", "image/jpeg", MaxFileSize))
		assert.NoError(t, err)
	})

	t.Run("Oversized file rejected before any network call", func(t *testing.T) {
		err := ValidateFile(fileHeader("big.png", "image/png", MaxFileSize+1))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("Unsupported extension rejected", func(t *testing.T) {
		err := ValidateFile(fileHeader("doc.pdf", "application/pdf", 1024))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("Extension and content type must agree", func(t *testing.T) {
		err := ValidateFile(fileHeader("sneaky.png", "application/octet-stream", 1024))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestObjectKeyFromURL(t *testing.T) {
	u := &AliyunOSSUploader{}
	u.config.BucketName = "penned-media"
	u.config.Endpoint = "oss-cn-hangzhou.aliyuncs.com"

	t.Run("Bucket URL maps back to key", func(t *testing.T) {
		key := u.ObjectKeyFromURL("https://penned-media.oss-cn-hangzhou.aliyuncs.com/posts/20260601/abc.png")
		assert.Equal(t, "posts/20260601/abc.png", key)
	})

	t.Run("Foreign URL yields empty key", func(t *testing.T) {
		key := u.ObjectKeyFromURL("https://example.com/posts/abc.png")
		assert.Empty(t, key)
	})
}
