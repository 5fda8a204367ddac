package capture

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// ScreenSource 全屏截图来源
type ScreenSource struct{}

// NewScreenSource 创建全屏来源
func NewScreenSource() *ScreenSource {
	return &ScreenSource{}
}

// Acquire 截取主屏幕，原点为 (0, 0)
func (s *ScreenSource) Acquire() (image.Image, cv.Point, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, cv.Point{}, fmt.Errorf("截屏失败: %w", err)
	}
	return img, cv.Point{}, nil
}

// Close 全屏来源无持久资源
func (s *ScreenSource) Close() error {
	return nil
}

// WindowSource 按标题部分匹配的窗口来源
// 每次采集重新查找窗口，跟随窗口移动
type WindowSource struct {
	title string
}

// NewWindowSource 创建窗口来源
func NewWindowSource(title string) *WindowSource {
	return &WindowSource{title: title}
}

// Acquire 截取目标窗口，原点为窗口左上角的屏幕坐标
// 窗口不存在时返回 ErrTargetNotFound
func (s *WindowSource) Acquire() (image.Image, cv.Point, error) {
	x, y, w, h, err := s.findWindow()
	if err != nil {
		return nil, cv.Point{}, err
	}

	img, err := robotgo.CaptureImg(x, y, w, h)
	if err != nil {
		return nil, cv.Point{}, fmt.Errorf("截取窗口失败: %w", err)
	}
	return img, cv.Point{X: x, Y: y}, nil
}

// findWindow 查找目标窗口并返回裁剪到屏幕内的边界
func (s *WindowSource) findWindow() (x, y, w, h int, err error) {
	pids, err := robotgo.Pids()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("获取进程列表失败: %w", err)
	}

	target := strings.ToLower(s.title)
	for _, pid := range pids {
		title := robotgo.GetTitle(pid)
		if title == "" || !strings.Contains(strings.ToLower(title), target) {
			continue
		}

		x, y, w, h = robotgo.GetBounds(pid)
		if w <= 0 || h <= 0 {
			continue
		}

		// 裁剪到屏幕范围
		screenW, screenH := robotgo.GetScreenSize()
		if x < 0 {
			w += x
			x = 0
		}
		if y < 0 {
			h += y
			y = 0
		}
		w = min(w, screenW-x)
		h = min(h, screenH-y)
		if w <= 0 || h <= 0 {
			continue
		}
		return x, y, w, h, nil
	}

	return 0, 0, 0, 0, ErrTargetNotFound
}

// Close 窗口来源无持久资源
func (s *WindowSource) Close() error {
	return nil
}
