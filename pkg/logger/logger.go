package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New 建立結構化 logger
//
// 參數:
//
//	w: 輸出位置 (console 模式下要避開 stdout，以免和畫面輸出混在一起)
//	level: "debug", "info", "warn", "error"
//	prefix: 顯示在每行前面的元件名稱
//
// 回傳:
//
//	*log.Logger: logger
//	error: level 無法解析
func New(w io.Writer, level, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}), nil
}

// Discard 測試用，丟棄所有輸出
func Discard() *log.Logger {
	return log.New(io.Discard)
}
