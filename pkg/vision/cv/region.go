package cv

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/config"
)

// RegionImage 从帧中切出的区域图像及其在帧内的原点
type RegionImage struct {
	Mat    gocv.Mat
	Offset Point
}

// Close 释放区域图像
func (r *RegionImage) Close() {
	r.Mat.Close()
}

// ResolveRegion 将区域配置解析为帧内的实际像素矩形
// Width/Height 为 -1 时延伸到帧边缘；越界部分裁剪到帧内
// 解析结果为空矩形时 ok 为 false
func ResolveRegion(r config.Region, frameW, frameH int) (x, y, w, h int, ok bool) {
	x = clampInt(r.X, 0, frameW)
	y = clampInt(r.Y, 0, frameH)

	if r.Width == -1 {
		w = frameW - x
	} else {
		w = min(r.Width, frameW-x)
	}
	if r.Height == -1 {
		h = frameH - y
	} else {
		h = min(r.Height, frameH-y)
	}

	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}

// ExtractRegion 从帧中切出单个区域
func ExtractRegion(img gocv.Mat, region config.Region) (*RegionImage, bool) {
	x, y, w, h, ok := ResolveRegion(region, img.Cols(), img.Rows())
	if !ok {
		return nil, false
	}

	view := img.Region(image.Rect(x, y, x+w, y+h))
	mat := view.Clone()
	view.Close()

	return &RegionImage{Mat: mat, Offset: Point{X: x, Y: y}}, true
}

// ExtractRegions 从帧中切出所有启用的区域
// 禁用或解析为空的区域会被跳过；缺失的区域记录警告后跳过
func ExtractRegions(img gocv.Mat, regions map[string]config.Region) map[string]*RegionImage {
	out := make(map[string]*RegionImage, len(regions))
	for name, region := range regions {
		if !region.Enabled {
			continue
		}
		ri, ok := ExtractRegion(img, region)
		if !ok {
			logger.Warn("区域 %s 在当前帧内为空，跳过", name)
			continue
		}
		out[name] = ri
	}
	return out
}

// CloseRegions 释放一组区域图像
func CloseRegions(regions map[string]*RegionImage) {
	for _, r := range regions {
		r.Close()
	}
}
