package cv

import (
	"image"
	"time"

	"gocv.io/x/gocv"
)

// 多尺度搜索的缩放倍率，从大到小均匀分布于 [0.3, 1.0]
// 缩放的是区域图而不是模板，倍率越小图像越小
var searchScales = [3]float64{1.0, 0.65, 0.3}

// MatchTemplate 在灰度区域图中做多尺度模板搜索
// 区域图按每个倍率缩放后运行归一化互相关，跨尺度保留全局最大值；
// 缩放后图像在任一维度小于模板时停止（由粗到细，首个过小尺度即止）。
// 结果框已换算回区域图的原始坐标。无有效命中时返回 nil。
func MatchTemplate(region, tpl gocv.Mat) *MatchResult {
	startTime := time.Now()

	tplH, tplW := tpl.Rows(), tpl.Cols()
	srcW, srcH := region.Cols(), region.Rows()

	type scaleHit struct {
		val   float64
		loc   image.Point
		ratio float64 // 原始宽 / 缩放后宽
	}
	var best *scaleHit

	for _, scale := range searchScales {
		w := int(float64(srcW) * scale)
		h := int(float64(srcH) * scale)
		if h < tplH || w < tplW {
			break
		}

		resized := gocv.NewMat()
		gocv.Resize(region, &resized, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationLinear)
		ratio := float64(srcW) / float64(resized.Cols())

		result := gocv.NewMat()
		gocv.MatchTemplate(resized, tpl, &result, gocv.TmCcoeffNormed, gocv.NewMat())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
		result.Close()
		resized.Close()

		if best == nil || float64(maxVal) > best.val {
			best = &scaleHit{val: float64(maxVal), loc: maxLoc, ratio: ratio}
		}
	}

	if best == nil || best.val <= 0 {
		return nil
	}

	return &MatchResult{
		Box: Box{
			StartX: int(float64(best.loc.X) * best.ratio),
			StartY: int(float64(best.loc.Y) * best.ratio),
			EndX:   int(float64(best.loc.X+tplW) * best.ratio),
			EndY:   int(float64(best.loc.Y+tplH) * best.ratio),
		},
		Scale:      1 / best.ratio,
		Confidence: clamp01(best.val),
		Time:       float64(time.Since(startTime).Milliseconds()),
	}
}
