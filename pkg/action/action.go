// Package action 提供动作解析、排队与串行派发
//
// 模板元数据中声明的动作经 Resolve 换算为绝对屏幕坐标后入队，
// 由单一消费者按 FIFO 顺序注入输入，保证鼠标键盘不被并发穿插。
package action

import (
	"fmt"

	"github.com/h8d13/Ceauron/pkg/vision/cv"
)

// Kind 动作类型（封闭枚举）
type Kind string

const (
	KindClick       Kind = "click_action"
	KindDoubleClick Kind = "double_click_action"
	KindRightClick  Kind = "right_click_action"
	KindDrag        Kind = "drag_action"
	KindMove        Kind = "move_action"
	KindType        Kind = "type_action"
	KindKeyPress    Kind = "press_key_action"
)

// ParseKind 解析动作名称，未知名称返回 false
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := handlers[k]
	return k, ok
}

// Params 已解析的动作参数，坐标为屏幕绝对坐标
type Params struct {
	X        int
	Y        int
	HasPos   bool
	Button   string
	Clicks   int
	Interval float64 // 秒
	Duration float64 // 秒
	Text     string
	Key      string
}

// SpecParams 模板元数据中的动作参数
// X/Y 为 null 表示使用匹配框中心
type SpecParams struct {
	X        *int    `json:"x"`
	Y        *int    `json:"y"`
	Button   string  `json:"button"`
	Clicks   int     `json:"clicks"`
	Interval float64 `json:"interval"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Key      string  `json:"key"`
}

// Spec 模板元数据中声明的动作
type Spec struct {
	Action string     `json:"action"`
	Params SpecParams `json:"action_params"`
}

// Queued 就绪的动作，坐标已换算完成，仅派发一次
type Queued struct {
	Kind   Kind
	Params Params
}

// Resolve 将动作声明解析为就绪动作
// box 为匹配框的屏幕绝对坐标，origin 为帧原点：
// 坐标均未指定时替换为框中心，指定时按帧原点平移。
// 未知动作类型返回错误。
func Resolve(spec Spec, box cv.Box, origin cv.Point) (Queued, error) {
	kind, ok := ParseKind(spec.Action)
	if !ok {
		return Queued{}, fmt.Errorf("未知的动作类型: %q", spec.Action)
	}

	p := Params{
		Button:   spec.Params.Button,
		Clicks:   spec.Params.Clicks,
		Interval: spec.Params.Interval,
		Duration: spec.Params.Duration,
		Text:     spec.Params.Text,
		Key:      spec.Params.Key,
	}
	if p.Button == "" {
		p.Button = "left"
	}
	if p.Clicks <= 0 {
		p.Clicks = 1
	}

	switch {
	case spec.Params.X == nil && spec.Params.Y == nil:
		center := box.Center()
		p.X, p.Y = center.X, center.Y
		p.HasPos = true
	case spec.Params.X != nil && spec.Params.Y != nil:
		p.X = origin.X + *spec.Params.X
		p.Y = origin.Y + *spec.Params.Y
		p.HasPos = true
	}

	return Queued{Kind: kind, Params: p}, nil
}
