package handler

import (
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"

	"penned/internal/pkg/uploader"
	"penned/pkg/metrics"
	"penned/pkg/response"

	"github.com/gin-gonic/gin"
)

// 上传目标集合与存储前缀的映射，收据走订阅模块的专用接口
var allowedPrefixes = map[string]bool{
	"posts":        true,
	"blogs":        true,
	"series":       true,
	"avatars":      true,
	"jobs":         true,
	"courses":      true,
	"competitions": true,
}

// UploadImages 上传图片 (支持批量)
// @Summary 上传图片到 OSS (支持批量)
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Param prefix query string true "目标集合 (posts/blogs/series/avatars/jobs/courses/competitions)"
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /upload [post]
func UploadImages(c *gin.Context) {
	prefix := c.Query("prefix")
	if !allowedPrefixes[prefix] {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid upload prefix")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}

	if uploader.GlobalUploader == nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Uploader not initialized")
		return
	}

	collector := metrics.GetGlobalCollector()

	// 任何一个文件不合规就整体拒绝，在发起存储调用之前
	for _, f := range files {
		if err := uploader.ValidateFile(f); err != nil {
			collector.RecordUpload("rejected")
			response.Error(c, http.StatusBadRequest, response.ErrUploadRejected, err.Error())
			return
		}
	}

	// 结果数组，预分配大小
	urls := make([]string, len(files))

	var wg sync.WaitGroup
	var errOnce sync.Once
	var failed atomic.Bool
	var uploadErr error

	// 限制并发数为 5，避免过多协程
	sem := make(chan struct{}, 5)

	for i, file := range files {
		wg.Add(1)
		go func(index int, f *multipart.FileHeader) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// 如果已经有错误发生，直接返回
			if failed.Load() {
				return
			}

			url, err := uploader.GlobalUploader.UploadFile(prefix, f)
			if err != nil {
				collector.RecordUpload("error")
				failed.Store(true)
				errOnce.Do(func() {
					uploadErr = err
				})
				return
			}

			collector.RecordUpload("ok")
			// 直接按索引赋值，保证顺序
			urls[index] = url
		}(i, file)
	}

	wg.Wait()

	if uploadErr != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Upload failed: "+uploadErr.Error())
		return
	}

	response.Success(c, urls)
}
