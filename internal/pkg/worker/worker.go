package worker

import (
	"log"
	"time"
)

// ObjectDeleter 对象存储删除接口，由 uploader 实现
type ObjectDeleter interface {
	DeleteObject(key string) error
}

// CleanupTask 待清理的存储对象
type CleanupTask struct {
	ObjectKey string
	Retry     int // 重试次数
}

// Janitor 异步清理实体删除后遗留的存储对象
// 文档删除成功后对象删除入队，失败按退避重试，超限进死信日志
type Janitor struct {
	TaskQueue  chan CleanupTask
	RetryQueue chan CleanupTask
	Store      ObjectDeleter
	WorkerNum  int
	MaxRetry   int
}

func NewJanitor(store ObjectDeleter, workerNum int, bufferSize int) *Janitor {
	return &Janitor{
		TaskQueue:  make(chan CleanupTask, bufferSize),
		RetryQueue: make(chan CleanupTask, bufferSize/2),
		Store:      store,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (j *Janitor) Start() {
	for i := 0; i < j.WorkerNum; i++ {
		go j.worker(i)
	}
	go j.retryWorker()
	log.Printf("Storage janitor started with %d workers", j.WorkerNum)
}

func (j *Janitor) worker(id int) {
	for task := range j.TaskQueue {
		if err := j.Store.DeleteObject(task.ObjectKey); err != nil {
			log.Printf("[Janitor %d] Failed to delete object %s: %v", id, task.ObjectKey, err)

			if task.Retry < j.MaxRetry {
				task.Retry++
				select {
				case j.RetryQueue <- task:
					log.Printf("[Janitor %d] Object %s queued for retry (attempt %d/%d)",
						id, task.ObjectKey, task.Retry, j.MaxRetry)
				default:
					log.Printf("[Janitor %d] Retry queue full, object dropped: %s", id, task.ObjectKey)
					j.logOrphan(task, err)
				}
			} else {
				log.Printf("[Janitor %d] Object %s exceeded max retries", id, task.ObjectKey)
				j.logOrphan(task, err)
			}
		}
	}
}

func (j *Janitor) retryWorker() {
	for task := range j.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case j.TaskQueue <- task:
		default:
			log.Printf("[Janitor] Main queue full, object dropped: %s", task.ObjectKey)
			j.logOrphan(task, nil)
		}
	}
}

func (j *Janitor) logOrphan(task CleanupTask, err error) {
	// 孤儿对象留给人工或定期扫描处理
	log.Printf("[Orphan] Object cleanup failed permanently: key=%s, error=%v", task.ObjectKey, err)
}

// Enqueue 对象删除入队，队列满时降级为孤儿日志而不是阻塞调用方
func (j *Janitor) Enqueue(objectKey string) {
	if objectKey == "" {
		return
	}
	task := CleanupTask{ObjectKey: objectKey}
	select {
	case j.TaskQueue <- task:
	default:
		log.Printf("Janitor queue full, dropping cleanup task: %s", objectKey)
		j.logOrphan(task, nil)
	}
}
