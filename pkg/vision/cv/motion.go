package cv

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MotionDetector 帧间运动检测器
// 持有上一帧的灰度图；帧完成顺序不保证时，比较对象可能不是严格的前一帧，
// 运动百分比按尽力而为处理。
type MotionDetector struct {
	mu      sync.Mutex
	prev    gocv.Mat
	hasPrev bool
}

// NewMotionDetector 创建运动检测器
func NewMotionDetector() *MotionDetector {
	return &MotionDetector{}
}

// Detect 计算当前灰度帧与上一帧的平均绝对差，归一化为 0-100 百分比
// 首帧没有比较对象，ok 为 false；无论是否计算，上一帧缓冲都会更新一次。
func (d *MotionDetector) Detect(gray gocv.Mat) (pct float64, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.hasPrev {
		d.prev = gray.Clone()
		d.hasPrev = true
		return 0, false
	}

	prev := d.prev
	if prev.Rows() != gray.Rows() || prev.Cols() != gray.Cols() {
		resized := gocv.NewMat()
		gocv.Resize(prev, &resized, image.Point{X: gray.Cols(), Y: gray.Rows()}, 0, 0, gocv.InterpolationLinear)
		prev.Close()
		prev = resized
	}

	diff := gocv.NewMat()
	gocv.AbsDiff(prev, gray, &diff)
	mean := diff.Mean()
	diff.Close()
	prev.Close()

	d.prev = gray.Clone()
	return mean.Val1 / 255 * 100, true
}

// Close 释放上一帧缓冲
func (d *MotionDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hasPrev {
		d.prev.Close()
		d.hasPrev = false
	}
}
