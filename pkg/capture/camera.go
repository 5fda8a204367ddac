package capture

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// CameraSource 摄像头来源
// 设备在 OpenCamera 时打开一次，由采集循环独占持有，Close 时释放
type CameraSource struct {
	index int

	mu  sync.Mutex
	cap *gocv.VideoCapture
}

// OpenCamera 打开摄像头设备并设置采集分辨率
func OpenCamera(index, width, height int) (*CameraSource, error) {
	capture, err := gocv.VideoCaptureDevice(index)
	if err != nil {
		return nil, fmt.Errorf("无法打开摄像头 %d: %w", index, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(height))

	return &CameraSource{index: index, cap: capture}, nil
}

// Acquire 读取一帧，原点固定为 (0, 0)
func (c *CameraSource) Acquire() (image.Image, cv.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil, cv.Point{}, ErrTargetNotFound
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := c.cap.Read(&mat); !ok || mat.Empty() {
		return nil, cv.Point{}, fmt.Errorf("摄像头 %d 读取帧失败", c.index)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, cv.Point{}, fmt.Errorf("帧转换失败: %w", err)
	}
	return img, cv.Point{}, nil
}

// Close 释放摄像头设备
func (c *CameraSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil
	}
	err := c.cap.Close()
	c.cap = nil
	return err
}
