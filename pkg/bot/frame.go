// Package bot 将采集、分析与动作派发装配为闭环流水线
package bot

import (
	"image"
	"time"

	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// Frame 采集到的一帧
type Frame struct {
	// Img 帧图像
	Img image.Image
	// Origin 帧在屏幕坐标系中的原点（全屏/摄像头为 (0,0)）
	Origin cv.Point
	// CapturedAt 采集时刻
	CapturedAt time.Time
}
