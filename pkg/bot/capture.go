package bot

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/capture"
)

// frameQueueCap 帧队列容量，满时丢弃最新帧
const frameQueueCap = 5

// 采集循环状态
const (
	stateStopped int32 = iota
	stateRunning
	statePaused
)

// CaptureLoop 定时采集循环
// 按固定间隔采集帧并投入有界队列；队列满时丢弃当前帧而不是阻塞，
// 保证采集节奏不受下游处理速度影响。
type CaptureLoop struct {
	source   capture.Source
	interval time.Duration
	frames   chan Frame

	state  atomic.Int32
	stopCh chan struct{}
	done   chan struct{}

	captured atomic.Int64
	dropped  atomic.Int64
}

// NewCaptureLoop 创建采集循环
func NewCaptureLoop(source capture.Source, interval time.Duration) *CaptureLoop {
	return &CaptureLoop{
		source:   source,
		interval: interval,
		frames:   make(chan Frame, frameQueueCap),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Frames 帧队列的消费端
func (l *CaptureLoop) Frames() <-chan Frame {
	return l.frames
}

// Start 启动采集循环
func (l *CaptureLoop) Start() {
	if !l.state.CompareAndSwap(stateStopped, stateRunning) {
		return
	}
	go l.run()
}

func (l *CaptureLoop) run() {
	defer close(l.done)
	defer close(l.frames)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			if l.state.Load() != stateRunning {
				continue
			}
			l.captureOnce()
		}
	}
}

// captureOnce 采集一帧并尝试入队
func (l *CaptureLoop) captureOnce() {
	img, origin, err := l.source.Acquire()
	if err != nil {
		if errors.Is(err, capture.ErrTargetNotFound) {
			logger.Debug("采集目标暂不可用，跳过本周期")
		} else {
			logger.Warn("采集失败: %v", err)
		}
		return
	}

	frame := Frame{Img: img, Origin: origin, CapturedAt: time.Now()}
	select {
	case l.frames <- frame:
		l.captured.Add(1)
	default:
		l.dropped.Add(1)
		logger.Warn("帧队列已满，丢弃当前帧（累计丢弃 %d）", l.dropped.Load())
	}
}

// Pause 暂停采集，处理中的帧不受影响
func (l *CaptureLoop) Pause() {
	if l.state.CompareAndSwap(stateRunning, statePaused) {
		logger.Info("采集已暂停")
	}
}

// Resume 恢复采集
func (l *CaptureLoop) Resume() {
	if l.state.CompareAndSwap(statePaused, stateRunning) {
		logger.Info("采集已恢复")
	}
}

// Stop 停止采集循环并关闭帧队列
func (l *CaptureLoop) Stop() {
	if l.state.Swap(stateStopped) == stateStopped {
		return
	}
	close(l.stopCh)
	<-l.done
}

// Stats 返回累计采集与丢弃的帧数
func (l *CaptureLoop) Stats() (captured, dropped int64) {
	return l.captured.Load(), l.dropped.Load()
}
