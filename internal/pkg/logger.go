package pkg

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// InitLogger mode=debug 用开发配置，其余用生产 JSON 配置
func InitLogger(mode string) error {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "debug" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// L 全局日志器；InitLogger 前返回 no-op
func L() *zap.Logger {
	return logger
}

func SyncLogger() {
	_ = logger.Sync()
}
