package database

import (
	"log"
	"time"

	"penned/pkg/metrics"

	"gorm.io/gorm"
)

// PoolMonitor 定期采集连接池状态并上报指标
type PoolMonitor struct {
	db        *gorm.DB
	collector *metrics.Collector
	interval  time.Duration
	stopCh    chan struct{}
}

// NewPoolMonitor 创建连接池监控器并启动采集协程
func NewPoolMonitor(db *gorm.DB, collector *metrics.Collector, interval time.Duration) *PoolMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	pm := &PoolMonitor{
		db:        db,
		collector: collector,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
	go pm.run()
	return pm
}

func (pm *PoolMonitor) run() {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.collect()
		case <-pm.stopCh:
			return
		}
	}
}

func (pm *PoolMonitor) collect() {
	sqlDB, err := pm.db.DB()
	if err != nil {
		log.Printf("pool monitor: failed to get underlying sql.DB: %v", err)
		return
	}

	stats := sqlDB.Stats()
	pm.collector.SetDBConnections(stats.InUse, stats.Idle)
}

// Close 停止监控
func (pm *PoolMonitor) Close() {
	close(pm.stopCh)
}
