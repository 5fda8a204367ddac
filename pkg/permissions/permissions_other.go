//go:build !darwin

// Package permissions 检查截屏与输入注入所需的系统权限
package permissions

// Status 权限状态
type Status struct {
	// Input 输入注入权限
	Input bool
	// ScreenCapture 截屏权限
	ScreenCapture bool
	// AllGranted 是否全部已授权
	AllGranted bool
}

// Check 检查所需权限
// 非 macOS 系统不需要额外授权
func Check() Status {
	return Status{Input: true, ScreenCapture: true, AllGranted: true}
}

// Instructions 返回缺失权限的授权指引
func (s Status) Instructions() string {
	return ""
}
