// Package capture 提供帧来源能力：全屏、窗口与摄像头
package capture

import (
	"errors"
	"image"

	"github.com/h8d13/Ceauron/pkg/config"
	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// ErrTargetNotFound 采集目标不存在（窗口未找到、设备不可用）
var ErrTargetNotFound = errors.New("未找到采集目标")

// Source 帧来源能力接口
type Source interface {
	// Acquire 采集一帧图像，并返回其在屏幕坐标系中的原点
	Acquire() (image.Image, cv.Point, error)
	// Close 释放底层采集资源
	Close() error
}

// NewFromConfig 按配置选择帧来源
// 摄像头优先于全屏，全屏优先于窗口
func NewFromConfig(cfg *config.Config) (Source, error) {
	switch {
	case cfg.UseCamera:
		return OpenCamera(cfg.CameraIndex, cfg.CameraWidth, cfg.CameraHeight)
	case cfg.Fullscreen:
		return NewScreenSource(), nil
	default:
		return NewWindowSource(cfg.TargetWindow), nil
	}
}
