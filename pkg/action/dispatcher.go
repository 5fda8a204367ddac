package action

import (
	"sync"
	"sync/atomic"

	"github.com/h8d13/Ceauron/internal/logger"
)

// Queue 无界动作队列
// 生产者（帧处理 worker）永不阻塞；Close 后丢弃残留项并拒绝新项。
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Queued
	closed bool
}

// NewQueue 创建动作队列
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push 入队，队列已关闭时返回 false
func (q *Queue) Push(item Queued) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, item)
	q.cond.Signal()
	return true
}

// Pop 出队，阻塞直到有可用项或队列关闭
// 队列关闭后立即返回 false，残留项被丢弃
func (q *Queue) Pop() (Queued, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return Queued{}, false
	}

	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len 返回当前排队的动作数
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close 关闭队列并丢弃残留项
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	if n := len(q.items); n > 0 {
		logger.Info("丢弃 %d 个未派发的动作", n)
	}
	q.items = nil
	q.cond.Broadcast()
}

// Dispatcher 单消费者动作派发器
// 串行执行队列中的动作；注入原语是全局共享资源，不允许并发
type Dispatcher struct {
	queue      *Queue
	inj        Injector
	done       chan struct{}
	dispatched atomic.Int64
}

// NewDispatcher 创建派发器
func NewDispatcher(queue *Queue, inj Injector) *Dispatcher {
	return &Dispatcher{
		queue: queue,
		inj:   inj,
		done:  make(chan struct{}),
	}
}

// Start 启动消费循环
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for {
			item, ok := d.queue.Pop()
			if !ok {
				return
			}
			if err := Execute(d.inj, item); err != nil {
				logger.Error("动作执行失败: %v", err)
				continue
			}
			d.dispatched.Add(1)
			logger.Debug("动作已执行: %s (%d, %d)", item.Kind, item.Params.X, item.Params.Y)
		}
	}()
}

// Wait 等待消费循环退出（需先关闭队列）
func (d *Dispatcher) Wait() {
	<-d.done
}

// Dispatched 返回已派发的动作总数
func (d *Dispatcher) Dispatched() int64 {
	return d.dispatched.Load()
}
