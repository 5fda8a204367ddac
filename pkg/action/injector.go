package action

import (
	"time"

	"github.com/go-vgo/robotgo"
)

// Injector 输入注入能力接口
// 唯一允许的调用方是 Dispatcher：鼠标和键盘是全局共享资源
type Injector interface {
	Click(x, y int, button string, clicks int, interval time.Duration)
	DoubleClick(x, y int, button string)
	RightClick(x, y int)
	Drag(x, y int, button string, duration time.Duration)
	Move(x, y int)
	Type(text string, interval time.Duration)
	KeyPress(key string)
}

// handlers 动作类型到执行函数的查找表
var handlers = map[Kind]func(Injector, Params){
	KindClick: func(inj Injector, p Params) {
		inj.Click(p.X, p.Y, p.Button, p.Clicks, seconds(p.Interval))
	},
	KindDoubleClick: func(inj Injector, p Params) {
		inj.DoubleClick(p.X, p.Y, p.Button)
	},
	KindRightClick: func(inj Injector, p Params) {
		inj.RightClick(p.X, p.Y)
	},
	KindDrag: func(inj Injector, p Params) {
		inj.Drag(p.X, p.Y, p.Button, seconds(p.Duration))
	},
	KindMove: func(inj Injector, p Params) {
		inj.Move(p.X, p.Y)
	},
	KindType: func(inj Injector, p Params) {
		inj.Type(p.Text, seconds(p.Interval))
	},
	KindKeyPress: func(inj Injector, p Params) {
		inj.KeyPress(p.Key)
	},
}

// Execute 执行单个就绪动作
func Execute(inj Injector, q Queued) error {
	h, ok := handlers[q.Kind]
	if !ok {
		return &UnknownKindError{Kind: q.Kind}
	}
	h(inj, q.Params)
	return nil
}

// UnknownKindError 未注册的动作类型
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return "未注册的动作类型: " + string(e.Kind)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// RobotInjector 基于 robotgo 的输入注入实现
type RobotInjector struct{}

// NewRobotInjector 创建 robotgo 注入器
func NewRobotInjector() *RobotInjector {
	return &RobotInjector{}
}

// moveDelay 移动后等待鼠标到位
const moveDelay = 50 * time.Millisecond

func (r *RobotInjector) Click(x, y int, button string, clicks int, interval time.Duration) {
	robotgo.Move(x, y)
	time.Sleep(moveDelay)
	for i := 0; i < clicks; i++ {
		robotgo.Click(button, false)
		if interval > 0 && i < clicks-1 {
			time.Sleep(interval)
		}
	}
}

func (r *RobotInjector) DoubleClick(x, y int, button string) {
	robotgo.Move(x, y)
	time.Sleep(moveDelay)
	robotgo.Click(button, true)
}

func (r *RobotInjector) RightClick(x, y int) {
	robotgo.Move(x, y)
	time.Sleep(moveDelay)
	robotgo.Click("right", false)
}

func (r *RobotInjector) Drag(x, y int, button string, duration time.Duration) {
	robotgo.DragSmooth(x, y, button)
	if duration > 0 {
		time.Sleep(duration)
	}
}

func (r *RobotInjector) Move(x, y int) {
	robotgo.Move(x, y)
}

func (r *RobotInjector) Type(text string, interval time.Duration) {
	if interval <= 0 {
		robotgo.TypeStr(text)
		return
	}
	for _, ch := range text {
		robotgo.TypeStr(string(ch))
		time.Sleep(interval)
	}
}

func (r *RobotInjector) KeyPress(key string) {
	robotgo.KeyTap(key)
}
