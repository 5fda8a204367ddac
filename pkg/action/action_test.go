package action

import (
	"sync"
	"testing"
	"time"

	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

func intPtr(v int) *int { return &v }

func TestResolveCenterSubstitution(t *testing.T) {
	// 坐标均未指定时使用匹配框中心
	spec := Spec{Action: "click_action"}
	box := cv.Box{StartX: 100, StartY: 200, EndX: 140, EndY: 260}

	queued, err := Resolve(spec, box, cv.Point{X: 50, Y: 60})
	if err != nil {
		t.Fatalf("解析动作失败: %v", err)
	}

	if queued.Kind != KindClick {
		t.Errorf("动作类型不匹配: %s", queued.Kind)
	}
	if queued.Params.X != 120 || queued.Params.Y != 230 {
		t.Errorf("期望框中心 (120,230), 实际 (%d,%d)", queued.Params.X, queued.Params.Y)
	}
	if queued.Params.Button != "left" {
		t.Errorf("按键默认应为 left, 实际 %s", queued.Params.Button)
	}
	if queued.Params.Clicks != 1 {
		t.Errorf("点击次数默认应为 1, 实际 %d", queued.Params.Clicks)
	}
}

func TestResolveExplicitCoordinates(t *testing.T) {
	// 显式坐标按帧原点平移到屏幕坐标
	spec := Spec{
		Action: "move_action",
		Params: SpecParams{X: intPtr(30), Y: intPtr(40)},
	}
	box := cv.Box{StartX: 0, StartY: 0, EndX: 10, EndY: 10}

	queued, err := Resolve(spec, box, cv.Point{X: 100, Y: 200})
	if err != nil {
		t.Fatalf("解析动作失败: %v", err)
	}
	if queued.Params.X != 130 || queued.Params.Y != 240 {
		t.Errorf("期望 (130,240), 实际 (%d,%d)", queued.Params.X, queued.Params.Y)
	}
}

func TestResolveUnknownAction(t *testing.T) {
	spec := Spec{Action: "fly_action"}
	if _, err := Resolve(spec, cv.Box{}, cv.Point{}); err == nil {
		t.Error("未知动作类型应返回错误")
	}
}

// fakeInjector 记录调用序列的注入器
type fakeInjector struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeInjector) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeInjector) Click(x, y int, button string, clicks int, interval time.Duration) {
	f.record("click")
}
func (f *fakeInjector) DoubleClick(x, y int, button string)              { f.record("double") }
func (f *fakeInjector) RightClick(x, y int)                              { f.record("right") }
func (f *fakeInjector) Drag(x, y int, button string, d time.Duration)    { f.record("drag") }
func (f *fakeInjector) Move(x, y int)                                    { f.record("move") }
func (f *fakeInjector) Type(text string, interval time.Duration)         { f.record("type") }
func (f *fakeInjector) KeyPress(key string)                              { f.record("key") }

func (f *fakeInjector) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestExecuteUnknownKind(t *testing.T) {
	inj := &fakeInjector{}
	err := Execute(inj, Queued{Kind: Kind("bogus")})
	if err == nil {
		t.Error("未注册的动作类型应返回错误")
	}
}

func TestDispatcherFIFO(t *testing.T) {
	inj := &fakeInjector{}
	queue := NewQueue()
	dispatcher := NewDispatcher(queue, inj)
	dispatcher.Start()

	queue.Push(Queued{Kind: KindMove})
	queue.Push(Queued{Kind: KindClick})
	queue.Push(Queued{Kind: KindKeyPress})

	// 等待派发器消费完
	deadline := time.Now().Add(2 * time.Second)
	for dispatcher.Dispatched() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	queue.Close()
	dispatcher.Wait()

	calls := inj.snapshot()
	want := []string{"move", "click", "key"}
	if len(calls) != len(want) {
		t.Fatalf("期望 %d 次调用, 实际 %d", len(want), len(calls))
	}
	for i, name := range want {
		if calls[i] != name {
			t.Errorf("第 %d 次调用: 期望 %s, 实际 %s", i, name, calls[i])
		}
	}
}

func TestQueueCloseDiscardsResidual(t *testing.T) {
	queue := NewQueue()
	queue.Push(Queued{Kind: KindMove})
	queue.Push(Queued{Kind: KindMove})

	queue.Close()

	if queue.Len() != 0 {
		t.Errorf("关闭后残留项应被丢弃, 实际 %d", queue.Len())
	}
	if _, ok := queue.Pop(); ok {
		t.Error("关闭后 Pop 应返回 false")
	}
	if queue.Push(Queued{Kind: KindMove}) {
		t.Error("关闭后 Push 应返回 false")
	}
}
