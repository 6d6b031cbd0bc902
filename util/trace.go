package util

import (
	"time"

	"go.uber.org/zap"
)

// Trace 记录一段操作的耗时，用法：defer util.Trace("xxx")()
func Trace(msg string) func() {
	start := time.Now()
	Logger.Debug("enter", zap.String("op", msg))
	return func() {
		Logger.Debug("exit", zap.String("op", msg), zap.Duration("cost", time.Since(start)))
	}
}
