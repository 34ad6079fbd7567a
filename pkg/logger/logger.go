package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例
var Log *zap.Logger

// Init 初始化 zap 日志
// debug 模式下输出彩色控制台日志，生产模式输出 JSON
func Init(level string, debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Log = l
}

// Sync 刷新缓冲的日志条目，main 退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
