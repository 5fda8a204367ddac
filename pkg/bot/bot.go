package bot

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/action"
	"github.com/h8d13/Ceauron/pkg/capture"
	"github.com/h8d13/Ceauron/pkg/config"
	"github.com/h8d13/Ceauron/pkg/debug"
	"github.com/h8d13/Ceauron/pkg/sysinfo"
	"github.com/h8d13/Ceauron/pkg/template"
	"github.com/h8d13/Ceauron/pkg/vision/ocr"
)

// statusInterval 运行状态日志的输出间隔
const statusInterval = 30 * time.Second

// Bot 闭环自动化机器人
// 采集循环 → 帧队列 → worker 池 → 动作队列 → 派发器
type Bot struct {
	cfg    *config.Config
	source capture.Source

	proc       *Processor
	loop       *CaptureLoop
	pool       *WorkerPool
	queue      *action.Queue
	dispatcher *action.Dispatcher
	ocr        *ocr.Scheduler // nil 时禁用
	frameLog   *debug.FrameLog
	saver      *debug.Saver // nil 时禁用

	statusStop chan struct{}
	statusDone chan struct{}
	stopped    atomic.Bool
}

// New 装配机器人
// engine 为 nil 或未启用 OCR 时跳过 OCR 调度；
// 模板与区域配置由调用方加载，模板图像的生命周期也归调用方。
func New(cfg *config.Config, regions *config.RegionConfig, templates []*template.Template,
	source capture.Source, engine ocr.Engine, inj action.Injector) (*Bot, error) {

	frameLog, err := debug.OpenFrameLog(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	var saver *debug.Saver
	if cfg.SaveDebugImages {
		saver, err = debug.NewSaver(cfg.ProcessedDir, cfg.MaxSavedImages)
		if err != nil {
			frameLog.Close()
			return nil, fmt.Errorf("初始化调试图像保存器失败: %w", err)
		}
	}

	var ocrSched *ocr.Scheduler
	if cfg.EnableOCR && engine != nil {
		ocrSched = ocr.NewScheduler(engine, regions.OCRChecks)
	}

	proc := NewProcessor(cfg, regions, templates, ocrSched)
	loop := NewCaptureLoop(source, time.Duration(cfg.CaptureInterval*float64(time.Second)))
	queue := action.NewQueue()

	return &Bot{
		cfg:        cfg,
		source:     source,
		proc:       proc,
		loop:       loop,
		pool:       NewWorkerPool(loop.Frames(), proc, queue, frameLog, saver),
		queue:      queue,
		dispatcher: action.NewDispatcher(queue, inj),
		ocr:        ocrSched,
		frameLog:   frameLog,
		saver:      saver,
		statusStop: make(chan struct{}),
		statusDone: make(chan struct{}),
	}, nil
}

// Start 启动全部组件
func (b *Bot) Start() {
	logger.Info("启动: 模式=%s 间隔=%.1fs worker=%d", b.cfg.CaptureMode(), b.cfg.CaptureInterval, workerCount)

	b.dispatcher.Start()
	b.pool.Start()
	b.loop.Start()
	go b.statusLoop()
}

// Pause 暂停采集，已入队的帧与动作继续处理
func (b *Bot) Pause() {
	b.loop.Pause()
}

// Resume 恢复采集
func (b *Bot) Resume() {
	b.loop.Resume()
}

// Stop 按依赖顺序停止全部组件，重复调用无效果
// 采集停止 → worker 排空帧队列 → OCR 停止 → 动作队列关闭（残留丢弃）→
// 派发器退出 → 保存器与日志收尾 → 来源释放
func (b *Bot) Stop() {
	if !b.stopped.CompareAndSwap(false, true) {
		return
	}
	close(b.statusStop)
	<-b.statusDone

	b.loop.Stop()
	b.pool.Wait()

	if b.ocr != nil {
		b.ocr.Stop()
	}

	b.queue.Close()
	b.dispatcher.Wait()

	if b.saver != nil {
		b.saver.Stop()
	}
	b.frameLog.Close()
	b.proc.Close()

	if err := b.source.Close(); err != nil {
		logger.Warn("关闭帧来源失败: %v", err)
	}

	captured, dropped := b.loop.Stats()
	logger.Info("停止: 采集=%d 丢弃=%d 处理=%d 派发=%d",
		captured, dropped, b.pool.Processed(), b.dispatcher.Dispatched())
}

// statusLoop 周期性输出运行状态
func (b *Bot) statusLoop() {
	defer close(b.statusDone)

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.statusStop:
			return
		case <-ticker.C:
			captured, dropped := b.loop.Stats()
			logger.Info("状态: 采集=%d 丢弃=%d 处理=%d 派发=%d 待派发=%d | %s",
				captured, dropped, b.pool.Processed(), b.dispatcher.Dispatched(),
				b.queue.Len(), sysinfo.Collect())
		}
	}
}
