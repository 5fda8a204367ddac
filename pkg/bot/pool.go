package bot

import (
	"sync"
	"sync/atomic"

	"github.com/h8d13/Ceauron/internal/logger"
	"github.com/h8d13/Ceauron/pkg/action"
	"github.com/h8d13/Ceauron/pkg/debug"
)

// workerCount 并行处理帧的 worker 数
const workerCount = 4

// WorkerPool 帧处理 worker 池
// 多个 worker 并发消费帧队列，帧的完成顺序不保证与采集顺序一致
type WorkerPool struct {
	frames   <-chan Frame
	proc     *Processor
	queue    *action.Queue
	frameLog *debug.FrameLog
	saver    *debug.Saver // nil 时禁用

	wg        sync.WaitGroup
	processed atomic.Int64
}

// NewWorkerPool 创建 worker 池
func NewWorkerPool(frames <-chan Frame, proc *Processor, queue *action.Queue, frameLog *debug.FrameLog, saver *debug.Saver) *WorkerPool {
	return &WorkerPool{
		frames:   frames,
		proc:     proc,
		queue:    queue,
		frameLog: frameLog,
		saver:    saver,
	}
}

// Start 启动 worker
func (p *WorkerPool) Start() {
	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker 消费帧队列直至其关闭
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for frame := range p.frames {
		out, err := p.proc.Process(frame)
		if err != nil {
			logger.Warn("worker %d 帧处理失败: %v", id, err)
			continue
		}

		p.frameLog.Write(frame.CapturedAt, out.Entries)

		// 标注帧仅在启用调试保存时生成
		if p.saver != nil {
			p.saver.Save(out.Processed, frame.CapturedAt)
			out.Processed.Close()
		}

		for _, a := range out.Actions {
			if !p.queue.Push(a) {
				break
			}
		}
		p.processed.Add(1)
	}
}

// Wait 等待所有 worker 退出（需先关闭帧队列）
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Processed 返回已处理的帧数
func (p *WorkerPool) Processed() int64 {
	return p.processed.Load()
}
