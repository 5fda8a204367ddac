// Package ocr 提供按区域节流的异步文字识别
//
// 管道每帧调用 Scheduler.CheckAll 提交到期的识别任务并立即取回缓存结果，
// 识别本身由后台 worker 串行完成，不阻塞帧处理。
package ocr

import (
	"image"

	"github.com/h8d13/Ceauron/pkg/config"
)

// Engine 文字识别引擎能力接口
type Engine interface {
	// ExtractText 识别图像中的文字，按检查项的语言与引擎参数执行
	ExtractText(img image.Image, check config.OCRCheck) (string, error)
	// Close 释放引擎资源
	Close() error
}
