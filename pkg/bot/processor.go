package bot

import (
	"fmt"
	"image"
	gocolor "image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/action"
	"github.com/h8d13/Ceauron/pkg/config"
	"github.com/h8d13/Ceauron/pkg/template"
	"github.com/h8d13/Ceauron/pkg/vision/cv"
	"github.com/h8d13/Ceauron/pkg/vision/ocr"
)

// 标注框颜色按置信度分级
var tierColors = map[cv.Tier]gocolor.RGBA{
	cv.TierHigh:   {G: 255, A: 255},
	cv.TierMedium: {R: 255, G: 255, A: 255},
	cv.TierLow:    {R: 255, A: 255},
}

// Output 单帧处理结果
type Output struct {
	// Entries 帧日志条目
	Entries []string
	// Actions 待派发的就绪动作
	Actions []action.Queued
	// Processed 标注后的帧，仅在启用标注时有效，调用方负责 Close
	Processed gocv.Mat
}

// Processor 帧处理器
// 无自有状态的部分可被多个 worker 并发调用；
// 运动检测器与 OCR 调度器各自内部同步。
type Processor struct {
	templates  []*template.Template
	regions    *config.RegionConfig
	thresholds cv.Thresholds

	motion *cv.MotionDetector // nil 表示禁用
	ocr    *ocr.Scheduler     // nil 表示禁用

	pixelChecks bool
	annotate    bool
}

// NewProcessor 创建帧处理器
func NewProcessor(cfg *config.Config, regions *config.RegionConfig, templates []*template.Template, ocrSched *ocr.Scheduler) *Processor {
	p := &Processor{
		templates: templates,
		regions:   regions,
		thresholds: cv.Thresholds{
			High:   cfg.ConfidenceThresholds.High,
			Medium: cfg.ConfidenceThresholds.Medium,
		},
		ocr:         ocrSched,
		pixelChecks: cfg.EnablePixelChecks,
		annotate:    cfg.SaveDebugImages,
	}
	if cfg.EnableMotionDetection {
		p.motion = cv.NewMotionDetector()
	}
	return p
}

// Process 对单帧执行全部检测
// 区域切分 → OCR 调度 → 模板匹配（分级、动作解析）→ 颜色检查 → 运动检测
func (p *Processor) Process(frame Frame) (*Output, error) {
	mat, err := cv.ImageToMat(frame.Img)
	if err != nil {
		return nil, fmt.Errorf("帧解码失败: %w", err)
	}
	defer mat.Close()

	// 灰度图整帧只转换一次，匹配与运动检测共用
	gray := cv.ToGray(mat)
	defer gray.Close()

	out := &Output{}
	if p.annotate {
		out.Processed = mat.Clone()
	}

	regions := cv.ExtractRegions(mat, p.regions.Regions)
	defer cv.CloseRegions(regions)

	if p.ocr != nil {
		// 空文本也写入日志，区分"识别过但没读到内容"与"尚未识别"
		for name, text := range p.ocr.CheckAll(regions, frame.CapturedAt) {
			out.Entries = append(out.Entries, fmt.Sprintf("OCR %s: %s", name, text))
		}
	}

	for name, region := range regions {
		p.matchRegion(name, region, gray, frame.Origin, out)
	}

	if p.pixelChecks {
		for name, matched := range cv.CheckAllColors(mat, p.regions.ColorChecks) {
			check := p.regions.ColorChecks[name]
			status := "no match"
			if matched {
				status = "match"
			}
			out.Entries = append(out.Entries,
				fmt.Sprintf("Color check %s at (%d, %d): %s", name, check.X, check.Y, status))
		}
	}

	if p.motion != nil {
		if pct, ok := p.motion.Detect(gray); ok {
			out.Entries = append(out.Entries, fmt.Sprintf("Motion: %.2f%%", pct))
		}
	}

	return out, nil
}

// regionHit 区域内的一次模板命中
type regionHit struct {
	tpl      *template.Template
	result   *cv.MatchResult
	tier     cv.Tier
	frameBox cv.Box // 帧坐标
}

// matchRegion 在单个区域内并行匹配全部模板
// 匹配框逐级平移：区域坐标 → 帧坐标 → 屏幕坐标
func (p *Processor) matchRegion(name string, region *cv.RegionImage, frameGray gocv.Mat, origin cv.Point, out *Output) {
	// 从整帧灰度图切出与区域相同的矩形
	view := frameGray.Region(image.Rect(
		region.Offset.X, region.Offset.Y,
		region.Offset.X+region.Mat.Cols(), region.Offset.Y+region.Mat.Rows()))
	gray := view.Clone()
	view.Close()
	defer gray.Close()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		hits []regionHit
	)
	for _, tpl := range p.templates {
		wg.Add(1)
		go func(tpl *template.Template) {
			defer wg.Done()
			result := cv.MatchTemplate(gray, tpl.Image)
			if result == nil {
				return
			}
			hit := regionHit{
				tpl:      tpl,
				result:   result,
				tier:     p.thresholds.Classify(result.Confidence),
				frameBox: result.Box.Offset(region.Offset.X, region.Offset.Y),
			}
			mu.Lock()
			hits = append(hits, hit)
			mu.Unlock()
		}(tpl)
	}
	wg.Wait()

	for _, h := range hits {
		out.Entries = append(out.Entries, fmt.Sprintf(
			"Match: %s in %s | category: %s value: %d | conf: %.2f (%s) | scale: %.2f | box: %s | %.0fms",
			h.tpl.Name, name, h.tpl.Category, h.tpl.Value,
			h.result.Confidence, h.tier, h.result.Scale, h.frameBox, h.result.Time))

		if h.tier != cv.TierLow {
			screenBox := h.frameBox.Offset(origin.X, origin.Y)
			for _, spec := range h.tpl.Actions {
				queued, err := action.Resolve(spec, screenBox, origin)
				if err != nil {
					logger.Warn("模板 %s: %v", h.tpl.Name, err)
					continue
				}
				out.Actions = append(out.Actions, queued)
			}
		}

		if p.annotate {
			gocv.Rectangle(&out.Processed,
				image.Rect(h.frameBox.StartX, h.frameBox.StartY, h.frameBox.EndX, h.frameBox.EndY),
				tierColors[h.tier], 2)
		}
	}
}

// Close 释放处理器持有的检测状态
func (p *Processor) Close() {
	if p.motion != nil {
		p.motion.Close()
	}
}
