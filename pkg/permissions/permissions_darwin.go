//go:build darwin

// Package permissions 检查截屏与输入注入所需的系统权限
package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices -framework CoreGraphics
#import <Cocoa/Cocoa.h>
#import <ApplicationServices/ApplicationServices.h>
#import <CoreGraphics/CoreGraphics.h>

// 检查辅助功能权限（不触发弹窗）
int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

// 检查屏幕录制权限
// 没有权限时 CGWindowListCopyWindowInfo 获取不到窗口名称
int checkScreenRecordingPermission() {
    if (@available(macOS 10.15, *)) {
        CFArrayRef windowList = CGWindowListCopyWindowInfo(
            kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
            kCGNullWindowID
        );
        if (windowList == NULL) {
            return 0;
        }

        CFIndex count = CFArrayGetCount(windowList);
        int hasNames = 0;
        for (CFIndex i = 0; i < count; i++) {
            CFDictionaryRef window = (CFDictionaryRef)CFArrayGetValueAtIndex(windowList, i);
            CFStringRef name = (CFStringRef)CFDictionaryGetValue(window, kCGWindowName);
            if (name != NULL && CFStringGetLength(name) > 0) {
                hasNames = 1;
                break;
            }
        }
        CFRelease(windowList);

        return (count == 0 || hasNames) ? 1 : 0;
    }
    return 1;
}
*/
import "C"

// Status 权限状态
type Status struct {
	// Input 输入注入权限（辅助功能）
	Input bool
	// ScreenCapture 截屏权限（屏幕录制）
	ScreenCapture bool
	// AllGranted 是否全部已授权
	AllGranted bool
}

// Check 检查所需权限，不触发系统弹窗
func Check() Status {
	input := C.checkAccessibilityPermission() == 1
	capture := C.checkScreenRecordingPermission() == 1
	return Status{
		Input:         input,
		ScreenCapture: capture,
		AllGranted:    input && capture,
	}
}

// Instructions 返回缺失权限的授权指引，全部已授权时为空
func (s Status) Instructions() string {
	if s.AllGranted {
		return ""
	}

	msg := "缺少以下系统权限:\n"
	if !s.Input {
		msg += "  辅助功能 (注入鼠标/键盘): 系统设置 > 隐私与安全性 > 辅助功能\n"
	}
	if !s.ScreenCapture {
		msg += "  屏幕录制 (采集帧): 系统设置 > 隐私与安全性 > 屏幕录制\n"
	}
	msg += "授权后需重启程序生效。"
	return msg
}
