package ocr

import (
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/config"
	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

const (
	// queueCapacity 识别任务队列容量，满时丢弃新任务
	queueCapacity = 10
	// stopTimeout 停止时等待 worker 退出的上限
	stopTimeout = 5 * time.Second
)

// task 单个待识别的区域图像
type task struct {
	name string
	img  gocv.Mat
}

// Scheduler 节流的异步 OCR 调度器
// 每个检查项按自身间隔节流入队；后台 worker 串行识别并缓存最新结果。
// 缓存结果相对当前帧可能是旧的，这是设计取舍。
type Scheduler struct {
	engine Engine
	checks map[string]config.OCRCheck

	queue  chan task
	stopCh chan struct{}
	done   chan struct{}

	mu         sync.Mutex
	results    map[string]string
	lastQueued map[string]time.Time
}

// NewScheduler 创建调度器并启动后台 worker
func NewScheduler(engine Engine, checks map[string]config.OCRCheck) *Scheduler {
	s := &Scheduler{
		engine:     engine,
		checks:     checks,
		queue:      make(chan task, queueCapacity),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		results:    make(map[string]string),
		lastQueued: make(map[string]time.Time),
	}
	go s.worker()
	return s
}

// CheckAll 对已提取的区域触发到期的识别任务，并立即返回当前缓存结果
// 队列满时静默跳过且不更新入队时间，下个周期会重试；
// 成功入队才更新时间戳，保证每个间隔内至多入队一次。
func (s *Scheduler) CheckAll(regions map[string]*cv.RegionImage, now time.Time) map[string]string {
	for name, region := range regions {
		check, ok := s.checks[name]
		if !ok || !check.Enabled {
			continue
		}

		s.mu.Lock()
		last := s.lastQueued[name]
		s.mu.Unlock()

		interval := time.Duration(check.Interval * float64(time.Second))
		if now.Sub(last) < interval {
			continue
		}

		clone := region.Mat.Clone()
		select {
		case s.queue <- task{name: name, img: clone}:
			s.mu.Lock()
			s.lastQueued[name] = now
			s.mu.Unlock()
		default:
			clone.Close()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.results))
	for name, text := range s.results {
		out[name] = text
	}
	return out
}

// worker 串行消费识别队列
func (s *Scheduler) worker() {
	defer close(s.done)
	for {
		select {
		case <-s.stopCh:
			return
		case t := <-s.queue:
			s.run(t)
		}
	}
}

// run 识别单个任务，失败时保留旧结果
func (s *Scheduler) run(t task) {
	defer t.img.Close()

	check := s.checks[t.name]
	startTime := time.Now()

	mat := t.img
	if check.Preprocess {
		processed := Preprocess(mat)
		defer processed.Close()
		mat = processed
	}

	img, err := cv.MatToImage(mat)
	if err != nil {
		logger.Warn("OCR %s: %v", t.name, err)
		return
	}

	text, err := s.engine.ExtractText(img, check)
	elapsed := float64(time.Since(startTime).Milliseconds())
	if err != nil {
		logger.LogEvent("OCR", false, elapsed, t.name+": "+err.Error())
		return
	}

	s.mu.Lock()
	s.results[t.name] = text
	s.mu.Unlock()
	logger.LogEvent("OCR", true, elapsed, t.name)
}

// Stop 停止后台 worker 并在限期内等待其退出
func (s *Scheduler) Stop() {
	close(s.stopCh)
	select {
	case <-s.done:
	case <-time.After(stopTimeout):
		logger.Warn("OCR worker 未在 %v 内退出", stopTimeout)
	}

	// 清理残留任务的图像
	for {
		select {
		case t := <-s.queue:
			t.img.Close()
		default:
			return
		}
	}
}
