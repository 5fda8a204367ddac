// Package sysinfo 采集主机与进程资源信息，用于启动日志与运行状态
package sysinfo

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Snapshot 一次采集的系统信息
type Snapshot struct {
	Hostname string
	Platform string
	NumCPU   int
	// MemTotal 物理内存总量（字节）
	MemTotal uint64
	// MemUsedPercent 物理内存使用率
	MemUsedPercent float64
	// ProcRSS 当前进程常驻内存（字节），采集失败时为 0
	ProcRSS uint64
}

// Collect 采集当前系统信息
// 单项采集失败不视为错误，对应字段保持零值
func Collect() Snapshot {
	snap := Snapshot{NumCPU: runtime.NumCPU()}

	if info, err := host.Info(); err == nil {
		snap.Hostname = info.Hostname
		snap.Platform = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotal = vm.Total
		snap.MemUsedPercent = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			snap.ProcRSS = mi.RSS
		}
	}
	return snap
}

// String 单行摘要
func (s Snapshot) String() string {
	return fmt.Sprintf("主机=%s 平台=%s CPU=%d 内存=%.1fMB(%.1f%%) 进程RSS=%.1fMB",
		s.Hostname, s.Platform, s.NumCPU,
		float64(s.MemTotal)/1024/1024, s.MemUsedPercent,
		float64(s.ProcRSS)/1024/1024)
}
