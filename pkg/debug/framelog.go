// Package debug 提供帧日志落盘与调试图像保存
package debug

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/h8d13/Ceauron/internal/logger"
)

// separator 帧日志块之间的分隔线
var separator = strings.Repeat("-", 50)

// FrameLog 帧检测结果的追加式日志
// 多个 worker 并发写入，互斥锁保证块不被穿插
type FrameLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenFrameLog 打开（或创建）帧日志文件
func OpenFrameLog(path string) (*FrameLog, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开帧日志失败: %w", err)
	}
	return &FrameLog{path: path, file: file}, nil
}

// Write 写入一帧的检测结果块
// entries 为空时不写入
func (f *FrameLog) Write(ts time.Time, entries []string) {
	if len(entries) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("Timestamp: ")
	b.WriteString(ts.Format("2006-01-02 15:04:05.000"))
	b.WriteByte('\n')
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	b.WriteString(separator)
	b.WriteByte('\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return
	}
	if _, err := f.file.WriteString(b.String()); err != nil {
		logger.Error("帧日志写入失败: %v", err)
	}
}

// Close 关闭帧日志文件
func (f *FrameLog) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
