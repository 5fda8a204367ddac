package cv

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/pkg/config"
)

// CheckColor 检查帧内指定像素是否与期望颜色匹配
// 帧为 BGR；配置的色彩空间可以是 BGR、RGB 或 HSV。
// 坐标越界、通道数不符或未知色彩空间一律降级为不匹配，不报错。
func CheckColor(img gocv.Mat, check config.ColorCheck) bool {
	if !check.Enabled {
		return false
	}
	if check.X < 0 || check.Y < 0 || check.X >= img.Cols() || check.Y >= img.Rows() {
		return false
	}

	pixel, ok := pixelInSpace(img, check.X, check.Y, check.ColorSpace)
	if !ok {
		return false
	}
	if len(check.Values) != len(pixel) {
		return false
	}

	for i, expected := range check.Values {
		diff := pixel[i] - expected
		if diff < 0 {
			diff = -diff
		}
		if diff > check.Tolerance {
			return false
		}
	}
	return true
}

// CheckAllColors 执行所有启用的颜色检查
func CheckAllColors(img gocv.Mat, checks map[string]config.ColorCheck) map[string]bool {
	out := make(map[string]bool, len(checks))
	for name, check := range checks {
		if !check.Enabled {
			continue
		}
		out[name] = CheckColor(img, check)
	}
	return out
}

// pixelInSpace 读取单个像素并换算到目标色彩空间
func pixelInSpace(img gocv.Mat, x, y int, space string) ([]int, bool) {
	switch space {
	case "", "BGR":
		return pixelAt(img, x, y), true
	case "RGB":
		p := pixelAt(img, x, y)
		if len(p) == 3 {
			p[0], p[2] = p[2], p[0]
		}
		return p, true
	case "HSV":
		// 只换算 1x1 区域，避免整帧转换
		view := img.Region(image.Rect(x, y, x+1, y+1))
		defer view.Close()
		hsv := gocv.NewMat()
		defer hsv.Close()
		gocv.CvtColor(view, &hsv, gocv.ColorBGRToHSV)
		return pixelAt(hsv, 0, 0), true
	default:
		return nil, false
	}
}

// pixelAt 读取 (x, y) 处的各通道值
func pixelAt(img gocv.Mat, x, y int) []int {
	vec := img.GetVecbAt(y, x)
	out := make([]int, len(vec))
	for i, v := range vec {
		out[i] = int(v)
	}
	return out
}
