// Package cv 提供帧分析能力：区域切分、模板匹配、颜色检查与运动检测
package cv

import "fmt"

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add 返回平移后的点
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Box 匹配框 (左上与右下角点)
type Box struct {
	StartX int `json:"start_x"`
	StartY int `json:"start_y"`
	EndX   int `json:"end_x"`
	EndY   int `json:"end_y"`
}

// Center 返回框中心点
func (b Box) Center() Point {
	return Point{
		X: b.StartX + (b.EndX-b.StartX)/2,
		Y: b.StartY + (b.EndY-b.StartY)/2,
	}
}

// Offset 返回按 (dx, dy) 平移后的框
func (b Box) Offset(dx, dy int) Box {
	return Box{
		StartX: b.StartX + dx,
		StartY: b.StartY + dy,
		EndX:   b.EndX + dx,
		EndY:   b.EndY + dy,
	}
}

func (b Box) String() string {
	return fmt.Sprintf("(%d, %d):(%d, %d)", b.StartX, b.StartY, b.EndX, b.EndY)
}

// MatchResult 模板匹配结果
// Box 为区域内局部坐标，由调用方逐级平移到帧坐标和屏幕坐标
type MatchResult struct {
	// Box 匹配框
	Box Box `json:"box"`
	// Scale 命中的缩放倍率 (相对原始区域图)
	Scale float64 `json:"scale"`
	// Confidence 匹配置信度 (0-1)
	Confidence float64 `json:"confidence"`
	// Time 匹配耗时（毫秒）
	Time float64 `json:"time,omitempty"`
}
